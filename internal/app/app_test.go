package app

import (
	"context"
	"errors"
	"office-locator-service/internal/adapters/geocode"
	"office-locator-service/internal/config"
	"office-locator-service/internal/domain"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.SqlitePath = ":memory:"
	return cfg
}

func TestOpenDatabaseSqlite(t *testing.T) {
	cfg := testConfig(t)
	cfg.CacheBackend = "sqlite"

	conn, dialect, err := OpenDatabase(context.Background(), cfg)
	if err != nil {
		t.Fatalf("OpenDatabase: %v", err)
	}
	defer conn.Close()

	if dialect.String() != "sqlite" {
		t.Fatalf("dialect = %s", dialect)
	}

	gc, closeCache, err := NewGeocodeCache(context.Background(), cfg, conn)
	if err != nil {
		t.Fatalf("NewGeocodeCache: %v", err)
	}
	defer closeCache()

	want := domain.Coordinate{Lon: 1, Lat: 2}
	if err := gc.Put(context.Background(), "q", want); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if got, ok, err := gc.Get(context.Background(), "q"); err != nil || !ok || got != want {
		t.Fatalf("Get = %v %v %v", got, ok, err)
	}
}

func TestNewGeocodeCacheRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.CacheBackend = "redis"
	cfg.RedisAddr = mr.Addr()
	cfg.CacheTTL = time.Minute

	gc, closeCache, err := NewGeocodeCache(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("NewGeocodeCache: %v", err)
	}
	defer closeCache()

	if err := gc.Put(context.Background(), "q", domain.Coordinate{Lon: 3, Lat: 4}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if ttl := mr.TTL("geocode:q"); ttl != time.Minute {
		t.Fatalf("ttl = %v", ttl)
	}
}

func TestNewGeocodeCacheNone(t *testing.T) {
	gc, closeCache, err := NewGeocodeCache(context.Background(), testConfig(t), nil)
	if err != nil || gc != nil {
		t.Fatalf("expected no cache, got %v %v", gc, err)
	}
	if err := closeCache(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestNewGeocoder(t *testing.T) {
	cfg := testConfig(t)

	g, err := NewGeocoder(cfg, nil, nil)
	if err != nil || g != nil {
		t.Fatalf("without api key expected nil geocoder, got %v %v", g, err)
	}

	cfg.GeocoderAPIKey = "key"
	cfg.Geocoder = "ors"
	g, err = NewGeocoder(cfg, nil, nil)
	if err != nil {
		t.Fatalf("NewGeocoder: %v", err)
	}
	if _, ok := g.(*geocode.ORSGeocoder); !ok {
		t.Fatalf("expected ORS geocoder, got %T", g)
	}

	cfg.Geocoder = "mapbox"
	g, err = NewGeocoder(cfg, &memCache{}, nil)
	if err != nil {
		t.Fatalf("NewGeocoder: %v", err)
	}
	if _, ok := g.(*geocode.CachingGeocoder); !ok {
		t.Fatalf("expected caching wrapper, got %T", g)
	}
}

type memCache struct{}

func (memCache) Get(context.Context, string) (domain.Coordinate, bool, error) {
	return domain.Coordinate{}, false, nil
}
func (memCache) Put(context.Context, string, domain.Coordinate) error { return nil }

func TestDatasetLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offices.csv")
	if err := os.WriteFile(path, []byte("name,longitude,latitude,url\nA,1,2,\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg := testConfig(t)
	cfg.DatasetSource = path
	load, err := DatasetLoader(cfg, nil)(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(load.Offices) != 1 || load.Offices[0].Name != "A" {
		t.Fatalf("unexpected load: %+v", load)
	}

	cfg.DatasetSource = "sql"
	_, err = DatasetLoader(cfg, nil)(context.Background())
	if !errors.Is(err, domain.ErrDatasetUnavailable) {
		t.Fatalf("expected ErrDatasetUnavailable, got %v", err)
	}
}

func TestNewServicesRejectsUnknownUnit(t *testing.T) {
	cfg := testConfig(t)
	cfg.DistanceUnit = "ly"
	if _, err := NewServices(cfg, nil, nil); err == nil {
		t.Fatal("expected error for unknown unit")
	}
}
