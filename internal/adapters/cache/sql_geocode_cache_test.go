package cache

import (
	"context"
	"delivery-pricing-service/internal/domain"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestSQLGeocodeCacheRoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectPrepare(`INSERT INTO geocode_cache`).
		ExpectExec().WithArgs("quận 1", 106.7, 10.77).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT address, lon, lat\s+FROM geocode_cache`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"address", "lon", "lat"}).AddRow("quận 1", 106.7, 10.77))

	c := NewSQLGeocodeCache(db)
	ctx := context.Background()

	if err := c.PutMany(ctx, map[string]domain.Coordinates{"quận 1": {Lon: 106.7, Lat: 10.77}}); err != nil {
		t.Fatalf("PutMany: %v", err)
	}

	got, err := c.GetMany(ctx, []string{"quận 1"})
	if err != nil {
		t.Fatalf("GetMany: %v", err)
	}
	if got["quận 1"] != (domain.Coordinates{Lon: 106.7, Lat: 10.77}) {
		t.Fatalf("unexpected coordinates: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSQLGeocodeCacheRejectsEmptyKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	err = NewSQLGeocodeCache(db).PutMany(context.Background(), map[string]domain.Coordinates{" ": {}})
	if !errors.Is(err, errBlankKey) {
		t.Fatalf("expected errBlankKey, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no transaction expected for a blank key: %v", err)
	}
}
