package services

import (
	"context"
	"delivery-pricing-service/internal/domain"
	"delivery-pricing-service/internal/format"
	"delivery-pricing-service/internal/platform/obs"
	"delivery-pricing-service/internal/ports"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderService prices and submits new orders and keeps the local ledger in step
// with the order backend.
type OrderService struct {
	quotes   *QuoteService
	geocoder ports.Geocoder
	backend  ports.OrderBackend
	repo     ports.OrderRepository
	notifier ports.Notifier
	now      func() time.Time
}

type OrderServiceDeps struct {
	Quotes   *QuoteService
	Geocoder ports.Geocoder // optional
	Backend  ports.OrderBackend
	Repo     ports.OrderRepository
	Notifier ports.Notifier // optional
}

func NewOrderService(deps OrderServiceDeps) (*OrderService, error) {
	if deps.Quotes == nil || deps.Backend == nil || deps.Repo == nil {
		return nil, errors.New("order service: quotes, backend and repo are required")
	}
	return &OrderService{
		quotes:   deps.Quotes,
		geocoder: deps.Geocoder,
		backend:  deps.Backend,
		repo:     deps.Repo,
		notifier: deps.Notifier,
		now:      time.Now,
	}, nil
}

// CreateOrder prices the draft with the pricing config in force now, submits it
// to the backend and records it locally. A shipping fee computed earlier by the
// caller is never trusted.
func (s *OrderService) CreateOrder(ctx context.Context, draft domain.OrderDraft) (_ *domain.Order, err error) {
	defer obs.Time(ctx, "orders.CreateOrder")(&err)

	if err := draft.Validate(); err != nil {
		return nil, err
	}

	pickup := strings.TrimSpace(draft.PickupAddress)
	destination := strings.TrimSpace(draft.DestinationAddress)

	var (
		quote     domain.PriceQuote
		estimated bool
	)
	if draft.DistanceKm != nil {
		quote, err = s.quotes.QuoteDistance(*draft.DistanceKm)
	} else {
		var rq RouteQuote
		rq, err = s.quotes.QuoteRoute(ctx, pickup, destination)
		quote, estimated = rq.PriceQuote, rq.Estimated
	}
	if err != nil {
		return nil, fmt.Errorf("create order: price: %w", err)
	}

	now := s.now().UTC()
	o := &domain.Order{
		Status:              domain.OrderStatusSearching,
		SenderName:          strings.TrimSpace(draft.SenderName),
		SenderPhone:         strings.TrimSpace(draft.SenderPhone),
		RecipientName:       strings.TrimSpace(draft.RecipientName),
		RecipientPhone:      strings.TrimSpace(draft.RecipientPhone),
		PickupAddress:       pickup,
		PickupLocation:      s.locate(ctx, pickup),
		DestinationAddress:  destination,
		DestinationLocation: s.locate(ctx, destination),
		DistanceKm:          quote.DistanceKm,
		DistanceEstimated:   estimated,
		ShippingFee:         quote.PriceAmount,
		CODAmount:           draft.COD(),
		Notes:               strings.TrimSpace(draft.Notes),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	receipt, err := s.backend.CreateOrder(ctx, o)
	if err != nil {
		return nil, fmt.Errorf("create order: submit: %w", err)
	}

	o.ID = receipt.OrderID
	if o.ID == "" {
		o.ID = "temp_" + uuid.NewString()
	}
	o.TripID = receipt.TripID

	// The backend already accepted the order; local failures are logged, not returned.
	if err := s.repo.SaveOrder(ctx, o); err != nil {
		log.Printf("req_id=%s order saved remotely but not locally id=%s err=%v", obs.RequestID(ctx), o.ID, err)
	}
	s.notify(ctx, newOrderMessage(o))

	return o, nil
}

// locate geocodes address when a geocoder is configured. Failures leave the location empty.
func (s *OrderService) locate(ctx context.Context, address string) *domain.Coordinates {
	if s.geocoder == nil {
		return nil
	}
	c, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		log.Printf("req_id=%s geocode failed address=%q err=%v", obs.RequestID(ctx), address, err)
		return nil
	}
	return &c
}

func (s *OrderService) notify(ctx context.Context, msg string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, msg); err != nil {
		log.Printf("req_id=%s notify failed: %v", obs.RequestID(ctx), err)
	}
}

func newOrderMessage(o *domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Đơn hàng mới %s\n", o.ID)
	fmt.Fprintf(&b, "%s → %s\n", o.PickupAddress, o.DestinationAddress)
	dist := format.Km(o.DistanceKm)
	if o.DistanceEstimated {
		dist += " (ước tính)"
	}
	fmt.Fprintf(&b, "Quãng đường: %s\n", dist)
	fmt.Fprintf(&b, "Phí giao hàng: %s\n", format.VND(o.ShippingFee))
	if o.CODAmount > 0 {
		fmt.Fprintf(&b, "COD: %s\n", format.VND(o.CODAmount))
	}
	fmt.Fprintf(&b, "Tổng: %s", format.VND(o.TotalAmount()))
	return b.String()
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ValidationError{Field: "id", Msg: "is required"}
	}
	return s.repo.GetOrder(ctx, id)
}

// ListOrders returns locally recorded orders, newest first, with a status summary.
func (s *OrderService) ListOrders(ctx context.Context, limit int) (ports.OrderListing, error) {
	orders, err := s.repo.ListOrders(ctx, limit)
	if err != nil {
		return ports.OrderListing{}, fmt.Errorf("list orders: %w", err)
	}
	return ports.OrderListing{
		Orders:        orders,
		TotalCount:    len(orders),
		StatusSummary: domain.SummarizeStatuses(orders),
	}, nil
}

// SyncOrders pulls the backend's order list into the local ledger.
func (s *OrderService) SyncOrders(ctx context.Context) (_ ports.OrderListing, err error) {
	defer obs.Time(ctx, "orders.SyncOrders")(&err)

	listing, err := s.backend.ListOrders(ctx)
	if err != nil {
		return ports.OrderListing{}, fmt.Errorf("sync orders: %w", err)
	}

	for _, o := range listing.Orders {
		if err := s.repo.SaveOrder(ctx, o); err != nil {
			return ports.OrderListing{}, fmt.Errorf("sync orders: save id=%s: %w", o.ID, err)
		}
	}
	return listing, nil
}
