package cache

import (
	"context"
	"database/sql"
	"delivery-pricing-service/internal/domain"
	"delivery-pricing-service/internal/platform/obs"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

const (
	selectCoordinatesQuery = `
	SELECT address, lon, lat
	FROM geocode_cache
	WHERE address = ANY($1::text[]);
	`

	upsertCoordinatesQuery = `
	INSERT INTO geocode_cache (address, lon, lat)
	VALUES ($1, $2, $3)
	ON CONFLICT (address) DO UPDATE
	SET lon = EXCLUDED.lon,
		lat = EXCLUDED.lat;
	`
)

// SQLGeocodeCache is a Postgres-backed cache mapping addresses to coordinates.
type SQLGeocodeCache struct {
	DB *sql.DB
}

func NewSQLGeocodeCache(db *sql.DB) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db}
}

func (s *SQLGeocodeCache) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.cache.GetMany")(&err)

	uniq := uniqueKeys(addresses)
	out := make(map[string]domain.Coordinates, len(uniq))
	if len(uniq) == 0 {
		return out, nil
	}

	err = queryKeyed(ctx, s.DB, "get geocode cache", selectCoordinatesQuery,
		[]any{pq.Array(uniq)},
		func(rows *sql.Rows) error {
			var addr string
			var c domain.Coordinates
			if err := rows.Scan(&addr, &c.Lon, &c.Lat); err != nil {
				return err
			}
			out[addr] = c
			return nil
		})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) (err error) {
	defer obs.Time(ctx, "geocode.cache.PutMany")(&err)

	rows := make([][]any, 0, len(results))
	for addr, c := range results {
		if strings.TrimSpace(addr) == "" {
			return fmt.Errorf("insert geocode cache: %w", errBlankKey)
		}
		rows = append(rows, []any{addr, c.Lon, c.Lat})
	}

	return upsertAll(ctx, s.DB, "insert geocode cache", upsertCoordinatesQuery, rows)
}
