package geocode

import (
	"context"
	"errors"
	"office-locator-service/internal/domain"
	"testing"
)

type countingGeocoder struct {
	calls int
	c     domain.Coordinate
	err   error
}

func (g *countingGeocoder) Geocode(ctx context.Context, query string) (domain.Coordinate, error) {
	g.calls++
	return g.c, g.err
}

type memCache struct {
	m      map[string]domain.Coordinate
	getErr error
}

func (c *memCache) Get(ctx context.Context, q string) (domain.Coordinate, bool, error) {
	if c.getErr != nil {
		return domain.Coordinate{}, false, c.getErr
	}
	v, ok := c.m[q]
	return v, ok, nil
}

func (c *memCache) Put(ctx context.Context, q string, v domain.Coordinate) error {
	c.m[q] = v
	return nil
}

func TestCachingGeocoderHitsCacheOnSecondLookup(t *testing.T) {
	next := &countingGeocoder{c: domain.Coordinate{Lon: -90.2, Lat: 38.6}}
	cache := &memCache{m: map[string]domain.Coordinate{}}
	g := NewCachingGeocoder(next, cache)

	for _, q := range []string{"St. Louis  MO", " st. louis mo "} {
		c, err := g.Geocode(context.Background(), q)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c != next.c {
			t.Fatalf("coordinate = %v, want %v", c, next.c)
		}
	}

	if next.calls != 1 {
		t.Fatalf("upstream calls = %d, want 1", next.calls)
	}
	if _, ok := cache.m["st. louis mo"]; !ok {
		t.Fatalf("cache keys = %v", cache.m)
	}
}

func TestCachingGeocoderDoesNotCacheFailures(t *testing.T) {
	next := &countingGeocoder{err: domain.ErrNoMatchFound}
	cache := &memCache{m: map[string]domain.Coordinate{}}
	g := NewCachingGeocoder(next, cache)

	_, err := g.Geocode(context.Background(), "00000")
	if !errors.Is(err, domain.ErrNoMatchFound) {
		t.Fatalf("expected ErrNoMatchFound, got %v", err)
	}
	if len(cache.m) != 0 {
		t.Fatal("failure was cached")
	}
}

func TestCachingGeocoderSurvivesCacheErrors(t *testing.T) {
	next := &countingGeocoder{c: domain.Coordinate{Lon: 1, Lat: 2}}
	cache := &memCache{m: map[string]domain.Coordinate{}, getErr: errors.New("cache down")}
	g := NewCachingGeocoder(next, cache)

	c, err := g.Geocode(context.Background(), "x")
	if err != nil || c != next.c {
		t.Fatalf("Geocode = %v, %v", c, err)
	}
}
