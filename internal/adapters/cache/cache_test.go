package cache

import (
	"context"
	"database/sql"
	"office-locator-service/internal/adapters/repositories"
	"office-locator-service/internal/domain"
	"office-locator-service/internal/ports"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

var (
	_ ports.GeocodeCache = (*SQLGeocodeCache)(nil)
	_ ports.GeocodeCache = (*SqliteGeocodeCache)(nil)
	_ ports.GeocodeCache = (*RedisGeocodeCache)(nil)
)

func openSqlite(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := repositories.InitSchema(context.Background(), db, repositories.SQLite); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}
	return db
}

func exerciseCache(t *testing.T, c ports.GeocodeCache) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, "60601"); err != nil || ok {
		t.Fatalf("Get on empty cache = ok:%v err:%v", ok, err)
	}

	want := domain.Coordinate{Lon: -87.62, Lat: 41.88}
	if err := c.Put(ctx, "60601", want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := c.Get(ctx, "60601")
	if err != nil || !ok {
		t.Fatalf("Get after Put = ok:%v err:%v", ok, err)
	}
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}

	updated := domain.Coordinate{Lon: -87.63, Lat: 41.89}
	if err := c.Put(ctx, "60601", updated); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	if got, _, _ := c.Get(ctx, "60601"); got != updated {
		t.Fatalf("overwrite: got %v, want %v", got, updated)
	}

	if _, ok, err := c.Get(ctx, "  "); err != nil || ok {
		t.Fatalf("blank key = ok:%v err:%v", ok, err)
	}
	if err := c.Put(ctx, " ", want); err == nil {
		t.Fatal("expected error storing blank key")
	}
}

func TestSqliteGeocodeCache(t *testing.T) {
	exerciseCache(t, NewSqliteGeocodeCache(openSqlite(t)))
}

func TestRedisGeocodeCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	exerciseCache(t, NewRedisGeocodeCache(client, time.Hour))
}

func TestRedisGeocodeCacheExpires(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	c := NewRedisGeocodeCache(client, time.Minute)
	if err := c.Put(ctx, "denver co", domain.Coordinate{Lon: -104.99, Lat: 39.74}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, ok, err := c.Get(ctx, "denver co"); err != nil || ok {
		t.Fatalf("expected expired entry, got ok:%v err:%v", ok, err)
	}
}

func TestCachesRejectNilBackends(t *testing.T) {
	ctx := context.Background()
	caches := []ports.GeocodeCache{
		NewSQLGeocodeCache(nil),
		NewSqliteGeocodeCache(nil),
		NewRedisGeocodeCache(nil, 0),
	}
	for _, c := range caches {
		if _, _, err := c.Get(ctx, "x"); err == nil {
			t.Fatalf("%T: expected Get error with nil backend", c)
		}
		if err := c.Put(ctx, "x", domain.Coordinate{}); err == nil {
			t.Fatalf("%T: expected Put error with nil backend", c)
		}
	}
}
