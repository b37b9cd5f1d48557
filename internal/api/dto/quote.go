package dto

import "time"

// QuoteRequest carries either a known distance or a pickup/destination pair.
type QuoteRequest struct {
	DistanceKm         *float64 `json:"distance_km"`
	PickupAddress      string   `json:"pickup_address"`
	DestinationAddress string   `json:"destination_address"`
}

type QuoteResponse struct {
	ID                 string    `json:"id"`
	PickupAddress      string    `json:"pickup_address,omitempty"`
	DestinationAddress string    `json:"destination_address,omitempty"`
	DistanceKm         float64   `json:"distance_km"`
	DistanceDisplay    string    `json:"distance_display"`
	DurationSeconds    int       `json:"duration_seconds,omitempty"`
	Estimated          bool      `json:"estimated"`
	PriceAmount        float64   `json:"price_amount"`
	PriceDisplay       string    `json:"price_display"`
	CreatedAt          time.Time `json:"created_at"`
	PricedAt           time.Time `json:"priced_at"`
}
