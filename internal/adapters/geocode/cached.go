package geocode

import (
	"context"
	"log/slog"
	"office-locator-service/internal/domain"
	"office-locator-service/internal/platform/obs"
	"office-locator-service/internal/ports"
	"strings"
)

// CachingGeocoder consults a persistent cache before calling the wrapped geocoder.
// Cache failures are logged and never fail a lookup.
type CachingGeocoder struct {
	next  ports.Geocoder
	cache ports.GeocodeCache
}

func NewCachingGeocoder(next ports.Geocoder, cache ports.GeocodeCache) *CachingGeocoder {
	return &CachingGeocoder{next: next, cache: cache}
}

// Normalize builds the cache key: lower case with whitespace collapsed.
func Normalize(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}

func (g *CachingGeocoder) Geocode(ctx context.Context, query string) (domain.Coordinate, error) {
	key := Normalize(query)

	if g.cache != nil && key != "" {
		c, ok, err := g.cache.Get(ctx, key)
		if err != nil {
			slog.WarnContext(ctx, "geocode cache read failed", slog.String("query", key), obs.Err(err))
		} else if ok {
			return c, nil
		}
	}

	c, err := g.next.Geocode(ctx, query)
	if err != nil {
		return domain.Coordinate{}, err
	}

	if g.cache != nil && key != "" {
		if err := g.cache.Put(ctx, key, c); err != nil {
			slog.WarnContext(ctx, "geocode cache write failed", slog.String("query", key), obs.Err(err))
		}
	}

	return c, nil
}
