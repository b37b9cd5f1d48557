package domain

import (
	"math"
	"net/mail"
	"strings"
)

// Settings is the admin-editable configuration of the courier business.
// The pricing fields feed PricingConfig; the rest is profile and dispatch data
// surfaced to the dashboard.
type Settings struct {
	CompanyName    string `json:"company_name"`
	CompanyPhone   string `json:"company_phone"`
	CompanyAddress string `json:"company_address"`
	CompanyEmail   string `json:"company_email"`

	DefaultDeliveryRadiusKm float64 `json:"default_delivery_radius_km"`
	MaxDeliveryTimeMinutes  int     `json:"max_delivery_time_minutes"`
	FreeDeliveryThreshold   float64 `json:"free_delivery_threshold"`
	AutoCalculateFee        bool    `json:"auto_calculate_fee"`

	UseFormula              bool    `json:"use_formula"`
	FlatFee                 float64 `json:"flat_fee"`
	BaseFee                 float64 `json:"base_fee"`
	DistanceThresholdKm     float64 `json:"distance_threshold_km"`
	RatePerKmUnderThreshold float64 `json:"rate_per_km_under_threshold"`
	RatePerKmOverThreshold  float64 `json:"rate_per_km_over_threshold"`

	MaxOrdersPerDriver          int  `json:"max_orders_per_driver"`
	DriverResponseTimeoutSecond int  `json:"driver_response_timeout_seconds"`
	AutoAssignOrders            bool `json:"auto_assign_orders"`
	OrderStatusUpdates          bool `json:"order_status_updates"`

	AcceptCash    bool `json:"accept_cash"`
	AcceptCard    bool `json:"accept_card"`
	AcceptEWallet bool `json:"accept_e_wallet"`
}

// DefaultSettings is the single source of fallback values.
func DefaultSettings() Settings {
	return Settings{
		CompanyName:    "Vận Chuyển Trường Duy",
		CompanyPhone:   "1900-1234",
		CompanyAddress: "123 Nguyễn Huệ, Quận 1, TP.HCM",
		CompanyEmail:   "info@trucongduy.com",

		DefaultDeliveryRadiusKm: 10,
		MaxDeliveryTimeMinutes:  60,
		FreeDeliveryThreshold:   200000,
		AutoCalculateFee:        true,

		UseFormula:              true,
		FlatFee:                 25000,
		BaseFee:                 10000,
		DistanceThresholdKm:     2,
		RatePerKmUnderThreshold: 4000,
		RatePerKmOverThreshold:  3500,

		MaxOrdersPerDriver:          5,
		DriverResponseTimeoutSecond: 30,
		AutoAssignOrders:            true,
		OrderStatusUpdates:          true,

		AcceptCash:    true,
		AcceptCard:    true,
		AcceptEWallet: true,
	}
}

// Pricing extracts the calculator config from the settings record.
func (s Settings) Pricing() PricingConfig {
	return PricingConfig{
		BaseFee:                 s.BaseFee,
		DistanceThresholdKm:     s.DistanceThresholdKm,
		RatePerKmUnderThreshold: s.RatePerKmUnderThreshold,
		RatePerKmOverThreshold:  s.RatePerKmOverThreshold,
		UseFormula:              s.UseFormula,
		FlatFee:                 s.FlatFee,
	}
}

// WithPricing returns a copy of s carrying the fields of p.
func (s Settings) WithPricing(p PricingConfig) Settings {
	s.BaseFee = p.BaseFee
	s.DistanceThresholdKm = p.DistanceThresholdKm
	s.RatePerKmUnderThreshold = p.RatePerKmUnderThreshold
	s.RatePerKmOverThreshold = p.RatePerKmOverThreshold
	s.UseFormula = p.UseFormula
	s.FlatFee = p.FlatFee
	return s
}

func (s Settings) Validate() error {
	if err := s.Pricing().Validate(); err != nil {
		return err
	}

	if strings.TrimSpace(s.CompanyName) == "" {
		return ValidationError{Field: "company_name", Msg: "must not be empty"}
	}
	if e := strings.TrimSpace(s.CompanyEmail); e != "" {
		if _, err := mail.ParseAddress(e); err != nil {
			return ValidationError{Field: "company_email", Msg: "must be a valid email address"}
		}
	}
	if math.IsNaN(s.DefaultDeliveryRadiusKm) || s.DefaultDeliveryRadiusKm < 0 {
		return ValidationError{Field: "default_delivery_radius_km", Msg: "must not be negative"}
	}
	if math.IsNaN(s.FreeDeliveryThreshold) || s.FreeDeliveryThreshold < 0 {
		return ValidationError{Field: "free_delivery_threshold", Msg: "must not be negative"}
	}
	if s.MaxDeliveryTimeMinutes < 0 {
		return ValidationError{Field: "max_delivery_time_minutes", Msg: "must not be negative"}
	}
	if s.MaxOrdersPerDriver < 1 {
		return ValidationError{Field: "max_orders_per_driver", Msg: "must be at least 1"}
	}
	if s.DriverResponseTimeoutSecond < 0 {
		return ValidationError{Field: "driver_response_timeout_seconds", Msg: "must not be negative"}
	}
	if !s.AcceptCash && !s.AcceptCard && !s.AcceptEWallet {
		return ValidationError{Field: "payment_methods", Msg: "at least one payment method must be accepted"}
	}

	return nil
}
