package repositories

import (
	"context"
	"database/sql"
	"delivery-pricing-service/internal/domain"
	"delivery-pricing-service/internal/platform/obs"
	"errors"
	"fmt"
	"time"
)

const defaultListLimit = 100

// Postgres-backed implementation of the OrderRepository port.
type SQLOrderRepository struct{ DB *sql.DB }

func NewSQLOrderRepository(db *sql.DB) *SQLOrderRepository {
	return &SQLOrderRepository{DB: db}
}

const orderColumns = `
	id, trip_id, status,
	sender_name, sender_phone, recipient_name, recipient_phone,
	pickup_address, pickup_lon, pickup_lat,
	destination_address, destination_lon, destination_lat,
	distance_km, distance_estimated, shipping_fee, cod_amount,
	notes, driver_id, created_at, updated_at, completed_at`

// SaveOrder inserts o or, when the id already exists, refreshes its mutable fields.
func (r *SQLOrderRepository) SaveOrder(ctx context.Context, o *domain.Order) (err error) {
	defer obs.Time(ctx, "orders.sql.SaveOrder")(&err)

	if r.DB == nil {
		return errors.New("sql order repository: DB is nil")
	}
	if o == nil || o.ID == "" {
		return errors.New("save order: order id must not be empty")
	}

	pickupLon, pickupLat := nullCoords(o.PickupLocation)
	destLon, destLat := nullCoords(o.DestinationLocation)

	var completedAt sql.NullTime
	if o.CompletedAt != nil {
		completedAt = sql.NullTime{Time: *o.CompletedAt, Valid: true}
	}

	query := `
	INSERT INTO orders (` + orderColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	ON CONFLICT (id) DO UPDATE
	SET trip_id = EXCLUDED.trip_id,
		status = EXCLUDED.status,
		driver_id = EXCLUDED.driver_id,
		updated_at = EXCLUDED.updated_at,
		completed_at = EXCLUDED.completed_at;
	`

	_, err = r.DB.ExecContext(ctx, query,
		o.ID, o.TripID, string(o.Status),
		o.SenderName, o.SenderPhone, o.RecipientName, o.RecipientPhone,
		o.PickupAddress, pickupLon, pickupLat,
		o.DestinationAddress, destLon, destLat,
		o.DistanceKm, o.DistanceEstimated, o.ShippingFee, o.CODAmount,
		o.Notes, o.DriverID, o.CreatedAt, o.UpdatedAt, completedAt,
	)
	if err != nil {
		return fmt.Errorf("save order id=%s: %w", o.ID, err)
	}
	return nil
}

func (r *SQLOrderRepository) GetOrder(ctx context.Context, id string) (_ *domain.Order, err error) {
	defer obs.Time(ctx, "orders.sql.GetOrder")(&err)

	if r.DB == nil {
		return nil, errors.New("sql order repository: DB is nil")
	}

	row := r.DB.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1;`, id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundError{Resource: "order", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get order id=%s: %w", id, err)
	}
	return o, nil
}

// ListOrders returns the newest orders first. A non-positive limit uses the default page size.
func (r *SQLOrderRepository) ListOrders(ctx context.Context, limit int) (_ []*domain.Order, err error) {
	defer obs.Time(ctx, "orders.sql.ListOrders")(&err)

	if r.DB == nil {
		return nil, errors.New("sql order repository: DB is nil")
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id LIMIT $1;`, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: query orders table: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0, limit)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("list orders: scan row: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: row iteration: %w", err)
	}

	return orders, nil
}

// DailyReport aggregates orders created during the calendar day containing day,
// in day's location. Cancelled orders earn no revenue; COD counts once completed.
func (r *SQLOrderRepository) DailyReport(ctx context.Context, day time.Time) (_ domain.DailyReport, err error) {
	defer obs.Time(ctx, "orders.sql.DailyReport")(&err)

	if r.DB == nil {
		return domain.DailyReport{}, errors.New("sql order repository: DB is nil")
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	query := `
	SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE status = 'completed'),
		COUNT(*) FILTER (WHERE status = 'cancelled'),
		COALESCE(SUM(shipping_fee) FILTER (WHERE status <> 'cancelled'), 0),
		COALESCE(SUM(cod_amount) FILTER (WHERE status = 'completed'), 0),
		COALESCE(SUM(distance_km), 0)
	FROM orders
	WHERE created_at >= $1 AND created_at < $2;
	`

	rep := domain.DailyReport{Date: start.Format(time.DateOnly)}
	err = r.DB.QueryRowContext(ctx, query, start, end).Scan(
		&rep.OrdersCount,
		&rep.CompletedCount,
		&rep.CancelledCount,
		&rep.ShippingRevenue,
		&rep.CODCollected,
		&rep.TotalDistanceKm,
	)
	if err != nil {
		return domain.DailyReport{}, fmt.Errorf("daily report %s: %w", rep.Date, err)
	}
	return rep, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		o                    domain.Order
		status               string
		pickupLon, pickupLat sql.NullFloat64
		destLon, destLat     sql.NullFloat64
		completedAt          sql.NullTime
	)

	err := row.Scan(
		&o.ID, &o.TripID, &status,
		&o.SenderName, &o.SenderPhone, &o.RecipientName, &o.RecipientPhone,
		&o.PickupAddress, &pickupLon, &pickupLat,
		&o.DestinationAddress, &destLon, &destLat,
		&o.DistanceKm, &o.DistanceEstimated, &o.ShippingFee, &o.CODAmount,
		&o.Notes, &o.DriverID, &o.CreatedAt, &o.UpdatedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}

	o.Status = domain.ParseOrderStatus(status)
	o.PickupLocation = coordsFromNull(pickupLon, pickupLat)
	o.DestinationLocation = coordsFromNull(destLon, destLat)
	if completedAt.Valid {
		t := completedAt.Time
		o.CompletedAt = &t
	}
	return &o, nil
}

func nullCoords(c *domain.Coordinates) (lon, lat sql.NullFloat64) {
	if c == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: c.Lon, Valid: true}, sql.NullFloat64{Float64: c.Lat, Valid: true}
}

func coordsFromNull(lon, lat sql.NullFloat64) *domain.Coordinates {
	if !lon.Valid || !lat.Valid {
		return nil
	}
	return &domain.Coordinates{Lon: lon.Float64, Lat: lat.Float64}
}
