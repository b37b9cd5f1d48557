package orderapi

import (
	"bytes"
	"context"
	"delivery-pricing-service/internal/domain"
	"delivery-pricing-service/internal/platform/httpretry"
	"delivery-pricing-service/internal/platform/obs"
	"delivery-pricing-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Client talks to the order-management backend that dispatches drivers.
type Client struct {
	session *http.Client
	baseURL string
	token   string
}

func NewClient(baseURL, token string) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("order api base url is empty")
	}

	return &Client{
		session: &http.Client{Timeout: 15 * time.Second},
		baseURL: baseURL,
		token:   token,
	}, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if id := obs.RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	return req, nil
}

// CreateOrder submits o. It is sent once: the backend has no idempotency key.
func (c *Client) CreateOrder(ctx context.Context, o *domain.Order) (_ ports.OrderReceipt, err error) {
	defer obs.Time(ctx, "orderapi.CreateOrder")(&err)

	if o == nil {
		return ports.OrderReceipt{}, errors.New("create order: order is nil")
	}

	payload, err := json.Marshal(newCreatePayload(o))
	if err != nil {
		return ports.OrderReceipt{}, fmt.Errorf("create order: encode: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/order/create", payload)
	if err != nil {
		return ports.OrderReceipt{}, fmt.Errorf("create order: %w", err)
	}

	resp, err := httpretry.Do(c.session, req)
	if err != nil {
		return ports.OrderReceipt{}, fmt.Errorf("create order: %w", err)
	}
	defer resp.Body.Close()

	var decoded createResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.OrderReceipt{}, fmt.Errorf("create order: decode response: %w", err)
	}

	return ports.OrderReceipt{OrderID: decoded.OrderID, TripID: decoded.TripID}, nil
}

// ListOrders fetches every order the backend knows about, newest first.
func (c *Client) ListOrders(ctx context.Context) (_ ports.OrderListing, err error) {
	defer obs.Time(ctx, "orderapi.ListOrders")(&err)

	resp, err := httpretry.DoWithRetry(ctx, c.session, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodGet, "/api/order/orders", nil)
	})
	if err != nil {
		return ports.OrderListing{}, fmt.Errorf("list orders: %w", err)
	}
	defer resp.Body.Close()

	var decoded listResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.OrderListing{}, fmt.Errorf("list orders: decode response: %w", err)
	}

	orders := make([]*domain.Order, 0, len(decoded.Orders))
	for i, d := range decoded.Orders {
		if strings.TrimSpace(d.ID) == "" {
			return ports.OrderListing{}, fmt.Errorf("list orders: order at index %d has no id", i)
		}
		orders = append(orders, d.toDomain())
	}
	sortNewestFirst(orders)

	// The backend's counts win for known statuses; keys we do not model are dropped.
	summary := domain.SummarizeStatuses(orders)
	for k, v := range decoded.StatusSummary {
		st, ok := domain.LookupOrderStatus(k)
		if !ok {
			log.Printf("req_id=%s order backend reported unknown status=%q count=%d", obs.RequestID(ctx), k, v)
			continue
		}
		summary[st] = v
	}

	total := decoded.TotalCount
	if total < len(orders) {
		total = len(orders)
	}

	return ports.OrderListing{Orders: orders, TotalCount: total, StatusSummary: summary}, nil
}
