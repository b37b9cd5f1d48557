package handlers

import (
	"delivery-pricing-service/internal/api/dto"
	"delivery-pricing-service/internal/domain"
	"delivery-pricing-service/internal/format"
	"delivery-pricing-service/internal/services"
	"net/http"
)

// Distances previewed next to the pricing form.
var pricingExampleKm = []float64{1, 2, 2.5, 5, 10}

type SettingsHandler struct {
	Service *services.SettingsService
}

// Settings serves GET (current record) and PUT (partial update merged over the current record).
func (h *SettingsHandler) Settings(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodPut) {
		return
	}

	if r.Method == http.MethodGet {
		writeJSON(w, r, http.StatusOK, dto.Settings(h.Service.Current()))
		return
	}

	next := h.Service.Current()
	if !decodeJSON(w, r, &next) {
		return
	}

	saved, err := h.Service.Update(r.Context(), next)
	if err != nil {
		respondDomainError(w, r, err, http.StatusInternalServerError, "update settings")
		return
	}
	writeJSON(w, r, http.StatusOK, dto.Settings(saved))
}

func (h *SettingsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}

	s, err := h.Service.Reset(r.Context())
	if err != nil {
		respondDomainError(w, r, err, http.StatusInternalServerError, "reset settings")
		return
	}
	writeJSON(w, r, http.StatusOK, dto.Settings(s))
}

// Pricing returns the live pricing config with a few sample prices.
func (h *SettingsHandler) Pricing(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}

	cfg := h.Service.Pricing()
	res := dto.PricingResponse{
		Pricing:  cfg,
		Examples: make([]dto.PricingExample, 0, len(pricingExampleKm)),
	}
	for _, km := range pricingExampleKm {
		price, err := domain.ComputePrice(km, cfg)
		if err != nil {
			respondDomainError(w, r, err, http.StatusInternalServerError, "pricing examples")
			return
		}
		res.Examples = append(res.Examples, dto.PricingExample{
			DistanceKm:   km,
			PriceAmount:  price,
			PriceDisplay: format.VND(price),
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
