package handlers

import (
	"delivery-pricing-service/internal/api/dto"
	"delivery-pricing-service/internal/domain"
	"delivery-pricing-service/internal/format"
	"delivery-pricing-service/internal/ports"
	"delivery-pricing-service/internal/services"
	"fmt"
	"net/http"
	"strconv"
)

const maxListLimit = 500

type OrderHandler struct {
	Service  *services.OrderService
	Invoices *services.InvoiceService
}

// Orders serves POST (create) and GET (list, ?limit=) for /orders.
func (h *OrderHandler) Orders(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}

	if r.Method == http.MethodGet {
		h.list(w, r)
		return
	}

	var req dto.CreateOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	o, err := h.Service.CreateOrder(r.Context(), domain.OrderDraft{
		SenderName:         req.SenderName,
		SenderPhone:        req.SenderPhone,
		RecipientName:      req.RecipientName,
		RecipientPhone:     req.RecipientPhone,
		PickupAddress:      req.PickupAddress,
		DestinationAddress: req.DestinationAddress,
		DistanceKm:         req.DistanceKm,
		EnableCOD:          req.EnableCOD,
		CODAmount:          req.CODAmount,
		Notes:              req.Notes,
	})
	if err != nil {
		respondDomainError(w, r, err, http.StatusBadGateway, "create order")
		return
	}

	w.Header().Set("Location", "/orders/"+o.ID)
	writeJSON(w, r, http.StatusCreated, toOrderResponse(o))
}

func (h *OrderHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxListLimit {
			writeFieldError(w, r, http.StatusBadRequest, "limit", fmt.Sprintf("limit must be between 1 and %d", maxListLimit))
			return
		}
		limit = n
	}

	l, err := h.Service.ListOrders(r.Context(), limit)
	if err != nil {
		respondDomainError(w, r, err, http.StatusInternalServerError, "list orders")
		return
	}
	writeJSON(w, r, http.StatusOK, toListOrdersResponse(l))
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}

	o, err := h.Service.GetOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, r, err, http.StatusInternalServerError, "get order")
		return
	}
	writeJSON(w, r, http.StatusOK, toOrderResponse(o))
}

// Sync pulls the backend's orders into the local ledger and returns them.
func (h *OrderHandler) Sync(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}

	l, err := h.Service.SyncOrders(r.Context())
	if err != nil {
		respondDomainError(w, r, err, http.StatusBadGateway, "sync orders")
		return
	}
	writeJSON(w, r, http.StatusOK, toListOrdersResponse(l))
}

func (h *OrderHandler) Invoice(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}

	pdf, name, err := h.Invoices.Invoice(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, r, err, http.StatusInternalServerError, "render invoice")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func toLocation(c *domain.Coordinates) *dto.Location {
	if c == nil {
		return nil
	}
	return &dto.Location{Lat: c.Lat, Lon: c.Lon}
}

func toOrderResponse(o *domain.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:                  o.ID,
		TripID:              o.TripID,
		Status:              string(o.Status),
		SenderName:          o.SenderName,
		SenderPhone:         o.SenderPhone,
		RecipientName:       o.RecipientName,
		RecipientPhone:      o.RecipientPhone,
		PickupAddress:       o.PickupAddress,
		PickupLocation:      toLocation(o.PickupLocation),
		DestinationAddress:  o.DestinationAddress,
		DestinationLocation: toLocation(o.DestinationLocation),
		DistanceKm:          o.DistanceKm,
		DistanceEstimated:   o.DistanceEstimated,
		ShippingFee:         o.ShippingFee,
		CODAmount:           o.CODAmount,
		TotalAmount:         o.TotalAmount(),
		ShippingFeeDisplay:  format.VND(o.ShippingFee),
		TotalDisplay:        format.VND(o.TotalAmount()),
		Notes:               o.Notes,
		DriverID:            o.DriverID,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
		CompletedAt:         o.CompletedAt,
	}
}

func toStatusSummary(s domain.StatusSummary) map[string]int {
	out := make(map[string]int, len(s))
	for k, v := range s {
		out[string(k)] = v
	}
	return out
}

func toListOrdersResponse(l ports.OrderListing) dto.ListOrdersResponse {
	res := dto.ListOrdersResponse{
		Orders:        make([]dto.OrderResponse, 0, len(l.Orders)),
		TotalCount:    l.TotalCount,
		StatusSummary: toStatusSummary(l.StatusSummary),
	}
	for _, o := range l.Orders {
		res.Orders = append(res.Orders, toOrderResponse(o))
	}
	return res
}
