package handlers

import (
	"delivery-pricing-service/internal/api/dto"
	"delivery-pricing-service/internal/format"
	"delivery-pricing-service/internal/services"
	"net/http"
)

type ReportHandler struct {
	Reports *services.ReportService
}

// Daily serves /reports/daily?date=YYYY-MM-DD (today when omitted).
func (h *ReportHandler) Daily(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}

	rep, err := h.Reports.Daily(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		respondDomainError(w, r, err, http.StatusInternalServerError, "daily report")
		return
	}

	summary, err := h.Reports.Summary(r.Context(), 0)
	if err != nil {
		respondDomainError(w, r, err, http.StatusInternalServerError, "status summary")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.DailyReportResponse{
		Date:                   rep.Date,
		OrdersCount:            rep.OrdersCount,
		CompletedCount:         rep.CompletedCount,
		CancelledCount:         rep.CancelledCount,
		ShippingRevenue:        rep.ShippingRevenue,
		ShippingRevenueDisplay: format.VND(rep.ShippingRevenue),
		CODCollected:           rep.CODCollected,
		TotalDistanceKm:        rep.TotalDistanceKm,
		StatusSummary:          toStatusSummary(summary),
	})
}
