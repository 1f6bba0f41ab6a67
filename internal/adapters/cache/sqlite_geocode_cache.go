package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"office-locator-service/internal/domain"
	"strings"
)

// SQLite backed cache mapping normalized queries to coordinates.
// Query keys are expected to be normalized by the caller.
type SqliteGeocodeCache struct {
	DB *sql.DB
}

func NewSqliteGeocodeCache(db *sql.DB) *SqliteGeocodeCache {
	return &SqliteGeocodeCache{DB: db}
}

// Fetch the cached coordinate for query.
func (s *SqliteGeocodeCache) Get(ctx context.Context, query string) (domain.Coordinate, bool, error) {
	if s.DB == nil {
		return domain.Coordinate{}, false, errors.New("geocode cache: db is nil")
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Coordinate{}, false, nil
	}

	q := `
	SELECT
        lon,
        lat
    FROM geocode_cache
    WHERE query = ?;
	`

	var c domain.Coordinate
	err := s.DB.QueryRowContext(ctx, q, query).Scan(&c.Lon, &c.Lat)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Coordinate{}, false, nil
	}
	if err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}

	return c, true, nil
}

// Store a query -> coordinate mapping.
func (s *SqliteGeocodeCache) Put(ctx context.Context, query string, c domain.Coordinate) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return errors.New("insert geocode cache: empty query key")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO geocode_cache (
        query,
        lon,
        lat,
        updated_at
    )
    VALUES (?, ?, ?, CURRENT_TIMESTAMP);
	`, query, c.Lon, c.Lat)
	if err != nil {
		return fmt.Errorf("insert geocode cache query=%q: %w", query, err)
	}

	return nil
}
