package dto

type DailyReportResponse struct {
	Date                   string         `json:"date"`
	OrdersCount            int            `json:"orders_count"`
	CompletedCount         int            `json:"completed_count"`
	CancelledCount         int            `json:"cancelled_count"`
	ShippingRevenue        float64        `json:"shipping_revenue"`
	ShippingRevenueDisplay string         `json:"shipping_revenue_display"`
	CODCollected           float64        `json:"cod_collected"`
	TotalDistanceKm        float64        `json:"total_distance_km"`
	StatusSummary          map[string]int `json:"status_summary"`
}
