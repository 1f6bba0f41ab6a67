package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"office-locator-service/internal/domain"
	"office-locator-service/internal/platform/obs"
	"strings"
)

// SQLGeocodeCache is a Postgres-backed cache mapping normalized queries to coordinates.
type SQLGeocodeCache struct {
	DB *sql.DB
}

func NewSQLGeocodeCache(db *sql.DB) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db}
}

// Fetch the cached coordinate for query.
func (s *SQLGeocodeCache) Get(ctx context.Context, query string) (_ domain.Coordinate, _ bool, err error) {
	defer obs.Time(ctx, "geocode.cache.Get")(&err)

	if s.DB == nil {
		return domain.Coordinate{}, false, errors.New("geocode cache: db is nil")
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Coordinate{}, false, nil
	}

	q := `
	SELECT lon, lat
    FROM geocode_cache
    WHERE query = $1;
	`

	var c domain.Coordinate
	err = s.DB.QueryRowContext(ctx, q, query).Scan(&c.Lon, &c.Lat)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Coordinate{}, false, nil
	}
	if err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}

	return c, true, nil
}

// Store a query -> coordinate mapping.
func (s *SQLGeocodeCache) Put(ctx context.Context, query string, c domain.Coordinate) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return errors.New("insert geocode cache: empty query key")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO geocode_cache (query, lon, lat, updated_at)
    VALUES ($1, $2, $3, now())
	ON CONFLICT (query) DO UPDATE
	SET lon = EXCLUDED.lon,
		lat = EXCLUDED.lat,
		updated_at = EXCLUDED.updated_at;
	`, query, c.Lon, c.Lat)
	if err != nil {
		return fmt.Errorf("insert geocode cache query=%q: %w", query, err)
	}

	return nil
}
