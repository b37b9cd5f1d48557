package domain

import (
	"math"
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusSearching OrderStatus = "searching"
	OrderStatusPickup    OrderStatus = "pickup"
	OrderStatusDelivery  OrderStatus = "delivery"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists every status in dashboard display order.
var OrderStatuses = []OrderStatus{
	OrderStatusSearching,
	OrderStatusPickup,
	OrderStatusDelivery,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// LookupOrderStatus reports whether s names a known status.
func LookupOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range OrderStatuses {
		if st == known {
			return st, true
		}
	}
	return "", false
}

// ParseOrderStatus maps unknown or empty values to searching, the initial state.
func ParseOrderStatus(s string) OrderStatus {
	if st, ok := LookupOrderStatus(s); ok {
		return st
	}
	return OrderStatusSearching
}

// OrderDraft is what the dispatcher fills in before a price is attached.
type OrderDraft struct {
	SenderName         string
	SenderPhone        string
	RecipientName      string
	RecipientPhone     string
	PickupAddress      string
	DestinationAddress string
	DistanceKm         *float64
	EnableCOD          bool
	CODAmount          float64
	Notes              string
}

func (d OrderDraft) Validate() error {
	required := []struct{ field, value string }{
		{"sender_name", d.SenderName},
		{"sender_phone", d.SenderPhone},
		{"recipient_name", d.RecipientName},
		{"recipient_phone", d.RecipientPhone},
		{"pickup_address", d.PickupAddress},
		{"destination_address", d.DestinationAddress},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return ValidationError{Field: r.field, Msg: "is required"}
		}
	}

	if d.DistanceKm != nil {
		if err := ValidateDistance(*d.DistanceKm); err != nil {
			return err
		}
	}

	if d.EnableCOD {
		if math.IsNaN(d.CODAmount) || math.IsInf(d.CODAmount, 0) || d.CODAmount <= 0 {
			return ValidationError{Field: "cod_amount", Msg: "must be greater than zero when COD is enabled"}
		}
	}

	return nil
}

// COD returns the cash-on-delivery amount actually collected.
func (d OrderDraft) COD() float64 {
	if !d.EnableCOD {
		return 0
	}
	return d.CODAmount
}

// Order is a priced delivery as submitted to the order backend.
type Order struct {
	ID                  string
	TripID              string
	Status              OrderStatus
	SenderName          string
	SenderPhone         string
	RecipientName       string
	RecipientPhone      string
	PickupAddress       string
	PickupLocation      *Coordinates
	DestinationAddress  string
	DestinationLocation *Coordinates
	DistanceKm          float64
	DistanceEstimated   bool
	ShippingFee         float64
	CODAmount           float64
	Notes               string
	DriverID            string
	CreatedAt           time.Time
	UpdatedAt           time.Time
	CompletedAt         *time.Time
}

// TotalAmount is the shipping fee plus COD; COD never enters the fee formula.
func (o Order) TotalAmount() float64 {
	return o.ShippingFee + o.CODAmount
}

// StatusSummary counts orders per status.
type StatusSummary map[OrderStatus]int

func SummarizeStatuses(orders []*Order) StatusSummary {
	out := make(StatusSummary, len(OrderStatuses))
	for _, st := range OrderStatuses {
		out[st] = 0
	}
	for _, o := range orders {
		out[o.Status]++
	}
	return out
}

// DailyReport aggregates orders created on one calendar day.
type DailyReport struct {
	Date            string
	OrdersCount     int
	CompletedCount  int
	CancelledCount  int
	ShippingRevenue float64
	CODCollected    float64
	TotalDistanceKm float64
}
