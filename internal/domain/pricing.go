package domain

import "math"

// PricingConfig controls the two-tier per-kilometer delivery fee.
//
// Rates and fees are in whole currency units (VND in the default settings).
// FlatFee is charged instead of the formula when UseFormula is false.
type PricingConfig struct {
	BaseFee                 float64 `json:"base_fee"`
	DistanceThresholdKm     float64 `json:"distance_threshold_km"`
	RatePerKmUnderThreshold float64 `json:"rate_per_km_under_threshold"`
	RatePerKmOverThreshold  float64 `json:"rate_per_km_over_threshold"`
	UseFormula              bool    `json:"use_formula"`
	FlatFee                 float64 `json:"flat_fee"`
}

// PriceQuote is the outcome of pricing one delivery distance.
type PriceQuote struct {
	DistanceKm  float64 `json:"distance_km"`
	PriceAmount float64 `json:"price_amount"`
}

// Validate reports the first field that breaks the config invariants.
func (c PricingConfig) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"base_fee", c.BaseFee},
		{"rate_per_km_under_threshold", c.RatePerKmUnderThreshold},
		{"rate_per_km_over_threshold", c.RatePerKmOverThreshold},
		{"flat_fee", c.FlatFee},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return ConfigurationError{Field: f.name, Msg: "must be a finite number"}
		}
		if f.value < 0 {
			return ConfigurationError{Field: f.name, Msg: "must not be negative"}
		}
	}

	if math.IsNaN(c.DistanceThresholdKm) || math.IsInf(c.DistanceThresholdKm, 0) {
		return ConfigurationError{Field: "distance_threshold_km", Msg: "must be a finite number"}
	}
	if c.DistanceThresholdKm <= 0 {
		return ConfigurationError{Field: "distance_threshold_km", Msg: "must be greater than zero"}
	}

	return nil
}

// ComputePrice maps a travel distance to a delivery price under cfg.
//
// The function is pure: no rounding is applied and nothing is cached, so callers
// must pass the latest config on every call.
func ComputePrice(distanceKm float64, cfg PricingConfig) (float64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	if err := ValidateDistance(distanceKm); err != nil {
		return 0, err
	}

	if !cfg.UseFormula {
		return cfg.FlatFee, nil
	}

	var price float64
	if distanceKm <= cfg.DistanceThresholdKm {
		price = cfg.BaseFee + distanceKm*cfg.RatePerKmUnderThreshold
	} else {
		price = cfg.BaseFee +
			cfg.DistanceThresholdKm*cfg.RatePerKmUnderThreshold +
			(distanceKm-cfg.DistanceThresholdKm)*cfg.RatePerKmOverThreshold
	}

	// Finite inputs can still overflow float64.
	if math.IsInf(price, 0) || math.IsNaN(price) {
		return 0, InvalidInputError{Field: "distance_km", Value: distanceKm, Msg: "price is out of range"}
	}
	return price, nil
}

// NewPriceQuote prices distanceKm and pairs the result with the distance.
func NewPriceQuote(distanceKm float64, cfg PricingConfig) (PriceQuote, error) {
	price, err := ComputePrice(distanceKm, cfg)
	if err != nil {
		return PriceQuote{}, err
	}
	return PriceQuote{DistanceKm: distanceKm, PriceAmount: price}, nil
}

func ValidateDistance(distanceKm float64) error {
	if math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) {
		return InvalidInputError{Field: "distance_km", Value: distanceKm, Msg: "must be a finite number"}
	}
	if distanceKm < 0 {
		return InvalidInputError{Field: "distance_km", Value: distanceKm, Msg: "must not be negative"}
	}
	return nil
}

// MetersToKm converts provider distances (meters) into the calculator's unit.
func MetersToKm(meters int) float64 {
	return float64(meters) / 1000
}
