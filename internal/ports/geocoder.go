package ports

import (
	"context"
	"office-locator-service/internal/domain"
)

// Contract for resolving free-text address/ZIP input to a coordinate.
type Geocoder interface {
	// Return the coordinate of the first candidate for query.
	// Fails with domain.ErrNoMatchFound or domain.ErrLookupFailed.
	Geocode(ctx context.Context, query string) (domain.Coordinate, error)
}

// Persistent cache of normalized query -> coordinate results.
type GeocodeCache interface {
	Get(ctx context.Context, query string) (domain.Coordinate, bool, error)
	Put(ctx context.Context, query string, c domain.Coordinate) error
}
