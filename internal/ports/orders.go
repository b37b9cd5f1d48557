package ports

import (
	"context"
	"delivery-pricing-service/internal/domain"
	"time"
)

// Receipt returned by the remote order backend after accepting an order.
type OrderReceipt struct {
	OrderID string
	TripID  string
}

// Page of orders as reported by the remote order backend.
type OrderListing struct {
	Orders        []*domain.Order
	TotalCount    int
	StatusSummary domain.StatusSummary
}

// Port: the remote order-management backend reached over HTTP.
type OrderBackend interface {
	CreateOrder(ctx context.Context, o *domain.Order) (OrderReceipt, error)
	ListOrders(ctx context.Context) (OrderListing, error)
}

// Port: local record of submitted orders, used for reports and invoices.
type OrderRepository interface {
	SaveOrder(ctx context.Context, o *domain.Order) error
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, limit int) ([]*domain.Order, error)
	DailyReport(ctx context.Context, day time.Time) (domain.DailyReport, error)
}

// Port: outbound admin notifications.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}
