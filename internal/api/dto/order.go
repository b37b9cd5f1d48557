package dto

import "time"

type CreateOrderRequest struct {
	SenderName         string   `json:"sender_name"`
	SenderPhone        string   `json:"sender_phone"`
	RecipientName      string   `json:"recipient_name"`
	RecipientPhone     string   `json:"recipient_phone"`
	PickupAddress      string   `json:"pickup_address"`
	DestinationAddress string   `json:"destination_address"`
	DistanceKm         *float64 `json:"distance_km"`
	EnableCOD          bool     `json:"enable_cod"`
	CODAmount          float64  `json:"cod_amount"`
	Notes              string   `json:"notes"`
}

type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type OrderResponse struct {
	ID                  string     `json:"id"`
	TripID              string     `json:"trip_id"`
	Status              string     `json:"status"`
	SenderName          string     `json:"sender_name"`
	SenderPhone         string     `json:"sender_phone"`
	RecipientName       string     `json:"recipient_name"`
	RecipientPhone      string     `json:"recipient_phone"`
	PickupAddress       string     `json:"pickup_address"`
	PickupLocation      *Location  `json:"pickup_location"`
	DestinationAddress  string     `json:"destination_address"`
	DestinationLocation *Location  `json:"destination_location"`
	DistanceKm          float64    `json:"distance_km"`
	DistanceEstimated   bool       `json:"distance_estimated"`
	ShippingFee         float64    `json:"shipping_fee"`
	CODAmount           float64    `json:"cod_amount"`
	TotalAmount         float64    `json:"total_amount"`
	ShippingFeeDisplay  string     `json:"shipping_fee_display"`
	TotalDisplay        string     `json:"total_display"`
	Notes               string     `json:"notes"`
	DriverID            string     `json:"driver_id,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	CompletedAt         *time.Time `json:"completed_at"`
}

type ListOrdersResponse struct {
	Orders        []OrderResponse `json:"orders"`
	TotalCount    int             `json:"total_count"`
	StatusSummary map[string]int  `json:"status_summary"`
}
