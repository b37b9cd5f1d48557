package cache

import (
	"context"
	"database/sql"
	"delivery-pricing-service/internal/platform/obs"
	"delivery-pricing-service/internal/ports"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

const (
	selectDistancesQuery = `
	SELECT destination, distance_meters, duration_seconds
	FROM distance_cache
	WHERE origin = $1
		AND destination = ANY($2::text[]);
	`

	upsertDistanceQuery = `
	INSERT INTO distance_cache (origin, destination, distance_meters, duration_seconds)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (origin, destination) DO UPDATE
	SET distance_meters = EXCLUDED.distance_meters,
		duration_seconds = EXCLUDED.duration_seconds;
	`
)

// SQLDistanceCache is a Postgres-backed cache for origin->destination distance results.
// Estimated results are never stored.
type SQLDistanceCache struct {
	DB *sql.DB
}

func NewSQLDistanceCache(db *sql.DB) *SQLDistanceCache {
	return &SQLDistanceCache{DB: db}
}

func (s *SQLDistanceCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "distance.cache.GetMany")(&err)

	if origin == "" {
		return nil, errors.New("get distance cache: origin must not be empty")
	}

	uniq := uniqueKeys(destinations)
	out := make(map[string]ports.DistanceResult, len(uniq))
	if len(uniq) == 0 {
		return out, nil
	}

	err = queryKeyed(ctx, s.DB, "get distance cache", selectDistancesQuery,
		[]any{origin, pq.Array(uniq)},
		func(rows *sql.Rows) error {
			var dest string
			var r ports.DistanceResult
			if err := rows.Scan(&dest, &r.DistanceMeters, &r.DurationSeconds); err != nil {
				return err
			}
			out[dest] = r
			return nil
		})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLDistanceCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]ports.DistanceResult,
) (err error) {
	defer obs.Time(ctx, "distance.cache.PutMany")(&err)

	if origin == "" {
		return errors.New("insert distance cache: origin must not be empty")
	}

	rows := make([][]any, 0, len(results))
	for dest, r := range results {
		if strings.TrimSpace(dest) == "" {
			return fmt.Errorf("insert distance cache: %w", errBlankKey)
		}
		if r.Estimated {
			continue
		}
		rows = append(rows, []any{origin, dest, r.DistanceMeters, r.DurationSeconds})
	}

	return upsertAll(ctx, s.DB, "insert distance cache", upsertDistanceQuery, rows)
}
