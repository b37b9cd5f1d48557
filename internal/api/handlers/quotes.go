package handlers

import (
	"delivery-pricing-service/internal/api/dto"
	"delivery-pricing-service/internal/format"
	"delivery-pricing-service/internal/services"
	"net/http"
	"strings"
)

type QuoteHandler struct {
	Quotes *services.QuoteService
	Book   *services.QuoteBook
}

// Create prices a distance or an address pair and opens a quote for it.
func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}

	var req dto.QuoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var rq services.RouteQuote
	if req.DistanceKm != nil {
		pq, err := h.Quotes.QuoteDistance(*req.DistanceKm)
		if err != nil {
			respondDomainError(w, r, err, http.StatusInternalServerError, "quote distance")
			return
		}
		rq = services.RouteQuote{
			PriceQuote:         pq,
			PickupAddress:      strings.TrimSpace(req.PickupAddress),
			DestinationAddress: strings.TrimSpace(req.DestinationAddress),
		}
	} else {
		var err error
		rq, err = h.Quotes.QuoteRoute(r.Context(), req.PickupAddress, req.DestinationAddress)
		if err != nil {
			respondDomainError(w, r, err, http.StatusBadGateway, "quote route")
			return
		}
	}

	q, err := h.Book.Open(rq)
	if err != nil {
		respondDomainError(w, r, err, http.StatusInternalServerError, "open quote")
		return
	}

	w.Header().Set("Location", "/quotes/"+q.ID)
	writeJSON(w, r, http.StatusCreated, toQuoteResponse(q))
}

// Quote serves GET (current price) and DELETE (close) for /quotes/{id}.
func (h *QuoteHandler) Quote(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodDelete) {
		return
	}

	id := r.PathValue("id")

	if r.Method == http.MethodDelete {
		if err := h.Book.Close(id); err != nil {
			respondDomainError(w, r, err, http.StatusInternalServerError, "close quote")
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	q, err := h.Book.Get(id)
	if err != nil {
		respondDomainError(w, r, err, http.StatusInternalServerError, "get quote")
		return
	}
	writeJSON(w, r, http.StatusOK, toQuoteResponse(q))
}

func toQuoteResponse(q services.Quote) dto.QuoteResponse {
	return dto.QuoteResponse{
		ID:                 q.ID,
		PickupAddress:      q.PickupAddress,
		DestinationAddress: q.DestinationAddress,
		DistanceKm:         q.DistanceKm,
		DistanceDisplay:    format.Km(q.DistanceKm),
		DurationSeconds:    q.DurationSeconds,
		Estimated:          q.Estimated,
		PriceAmount:        q.PriceAmount,
		PriceDisplay:       format.VND(q.PriceAmount),
		CreatedAt:          q.CreatedAt,
		PricedAt:           q.PricedAt,
	}
}
