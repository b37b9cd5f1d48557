package dto

import "delivery-pricing-service/internal/domain"

// Settings travels over the wire with the same keys it is persisted with.
type Settings = domain.Settings

type PricingExample struct {
	DistanceKm   float64 `json:"distance_km"`
	PriceAmount  float64 `json:"price_amount"`
	PriceDisplay string  `json:"price_display"`
}

type PricingResponse struct {
	Pricing  domain.PricingConfig `json:"pricing"`
	Examples []PricingExample     `json:"examples"`
}
