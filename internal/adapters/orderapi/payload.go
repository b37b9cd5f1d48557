package orderapi

import (
	"delivery-pricing-service/internal/domain"
	"sort"
	"time"
)

// The backend uses {lat, lon} for locations.
type location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func toLocation(c *domain.Coordinates) *location {
	if c == nil {
		return nil
	}
	return &location{Lat: c.Lat, Lon: c.Lon}
}

func (l *location) toDomain() *domain.Coordinates {
	if l == nil {
		return nil
	}
	return &domain.Coordinates{Lon: l.Lon, Lat: l.Lat}
}

type createPayload struct {
	SenderName          string    `json:"sender_name"`
	SenderPhone         string    `json:"sender_phone"`
	RecipientName       string    `json:"recipient_name"`
	RecipientPhone      string    `json:"recipient_phone"`
	PickupAddress       string    `json:"pickup_address"`
	PickupLocation      *location `json:"pickup_location"`
	DestinationAddress  string    `json:"destination_address"`
	DestinationLocation *location `json:"destination_location"`
	DistanceKm          float64   `json:"distance_km"`
	ShippingFee         float64   `json:"shipping_fee"`
	CODAmount           float64   `json:"cod_amount"`
	Notes               string    `json:"notes"`
	TotalAmount         float64   `json:"total_amount"`
}

func newCreatePayload(o *domain.Order) createPayload {
	return createPayload{
		SenderName:          o.SenderName,
		SenderPhone:         o.SenderPhone,
		RecipientName:       o.RecipientName,
		RecipientPhone:      o.RecipientPhone,
		PickupAddress:       o.PickupAddress,
		PickupLocation:      toLocation(o.PickupLocation),
		DestinationAddress:  o.DestinationAddress,
		DestinationLocation: toLocation(o.DestinationLocation),
		DistanceKm:          o.DistanceKm,
		ShippingFee:         o.ShippingFee,
		CODAmount:           o.CODAmount,
		Notes:               o.Notes,
		TotalAmount:         o.TotalAmount(),
	}
}

type createResponse struct {
	OrderID string `json:"order_id"`
	TripID  string `json:"trip_id"`
}

type orderDTO struct {
	ID                  string     `json:"id"`
	TripID              string     `json:"trip_id"`
	Status              string     `json:"status"`
	SenderName          string     `json:"sender_name"`
	SenderPhone         string     `json:"sender_phone"`
	RecipientName       string     `json:"recipient_name"`
	RecipientPhone      string     `json:"recipient_phone"`
	PickupAddress       string     `json:"pickup_address"`
	PickupLocation      *location  `json:"pickup_location"`
	DestinationAddress  string     `json:"destination_address"`
	DestinationLocation *location  `json:"destination_location"`
	DistanceKm          *float64   `json:"distance_km"`
	ShippingFee         float64    `json:"shipping_fee"`
	CODAmount           float64    `json:"cod_amount"`
	Notes               string     `json:"notes"`
	DriverID            *string    `json:"driver_id"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	CompletedAt         *time.Time `json:"completed_at"`
}

func (d orderDTO) toDomain() *domain.Order {
	o := &domain.Order{
		ID:                  d.ID,
		TripID:              d.TripID,
		Status:              domain.ParseOrderStatus(d.Status),
		SenderName:          d.SenderName,
		SenderPhone:         d.SenderPhone,
		RecipientName:       d.RecipientName,
		RecipientPhone:      d.RecipientPhone,
		PickupAddress:       d.PickupAddress,
		PickupLocation:      d.PickupLocation.toDomain(),
		DestinationAddress:  d.DestinationAddress,
		DestinationLocation: d.DestinationLocation.toDomain(),
		ShippingFee:         d.ShippingFee,
		CODAmount:           d.CODAmount,
		Notes:               d.Notes,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
		CompletedAt:         d.CompletedAt,
	}
	if d.DistanceKm != nil {
		o.DistanceKm = *d.DistanceKm
	}
	if d.DriverID != nil {
		o.DriverID = *d.DriverID
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = o.CreatedAt
	}
	return o
}

type listResponse struct {
	Orders        []orderDTO     `json:"orders"`
	TotalCount    int            `json:"total_count"`
	StatusSummary map[string]int `json:"status_summary"`
}

func sortNewestFirst(orders []*domain.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
