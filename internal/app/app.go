// Package app builds the concrete adapters selected by config.Config.
// Both the HTTP server and the officectl CLI compose through it.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"office-locator-service/internal/adapters/cache"
	"office-locator-service/internal/adapters/dataset"
	"office-locator-service/internal/adapters/geocode"
	"office-locator-service/internal/adapters/repositories"
	"office-locator-service/internal/config"
	"office-locator-service/internal/platform/db"
	"office-locator-service/internal/ports"
	"office-locator-service/internal/services"
	"time"

	"github.com/redis/go-redis/v9"
)

// OpenDatabase opens the SQL database the config points at: the cache
// backend when it is SQL, otherwise Postgres when DATABASE_URL is set,
// otherwise the SQLite file. The schema is created if missing.
func OpenDatabase(ctx context.Context, cfg config.Config) (*sql.DB, repositories.Dialect, error) {
	dialect := repositories.SQLite
	switch {
	case cfg.CacheBackend == "postgres":
		dialect = repositories.Postgres
	case cfg.CacheBackend == "sqlite":
	case cfg.DatabaseURL != "":
		dialect = repositories.Postgres
	}

	var (
		conn *sql.DB
		err  error
	)
	if dialect == repositories.Postgres {
		conn, err = db.OpenPostgres(ctx, cfg.DatabaseURL)
	} else {
		conn, err = db.OpenSqlite(ctx, cfg.SqlitePath)
	}
	if err != nil {
		return nil, dialect, err
	}

	if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
		conn.Close()
		return nil, dialect, err
	}
	return conn, dialect, nil
}

// NewGeocodeCache returns the configured cache, or nil for "none".
// conn must be non-nil for the SQL backends.
func NewGeocodeCache(ctx context.Context, cfg config.Config, conn *sql.DB) (ports.GeocodeCache, func() error, error) {
	noop := func() error { return nil }

	switch cfg.CacheBackend {
	case "none", "":
		return nil, noop, nil
	case "postgres":
		return cache.NewSQLGeocodeCache(conn), noop, nil
	case "sqlite":
		return cache.NewSqliteGeocodeCache(conn), noop, nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, noop, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		return cache.NewRedisGeocodeCache(client, cfg.CacheTTL), client.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}

// NewGeocoder returns the configured geocoder wrapped with gc when non-nil.
// Without an API key it returns nil and lookups fail with ErrLookupFailed.
func NewGeocoder(cfg config.Config, gc ports.GeocodeCache, session *http.Client) (ports.Geocoder, error) {
	if cfg.GeocoderAPIKey == "" {
		slog.Warn("no geocoder api key configured: address lookups are disabled")
		return nil, nil
	}

	var (
		g   ports.Geocoder
		err error
	)
	switch cfg.Geocoder {
	case "ors":
		g, err = geocode.NewORSGeocoder(cfg.GeocoderAPIKey, cfg.GeocoderCountry, session)
	case "mapbox", "":
		g, err = geocode.NewMapboxGeocoder(cfg.GeocoderAPIKey, session)
	default:
		err = fmt.Errorf("unknown geocoder %q", cfg.Geocoder)
	}
	if err != nil {
		return nil, err
	}

	if gc != nil {
		g = geocode.NewCachingGeocoder(g, gc)
	}
	return g, nil
}

// NeedsDatabase reports whether cfg requires a SQL connection.
func NeedsDatabase(cfg config.Config) bool {
	return cfg.CacheBackend == "postgres" || cfg.CacheBackend == "sqlite" || cfg.DatasetSource == "sql"
}

// DatasetLoader returns a func that opens the configured dataset source and
// parses it. Source errors surface as domain.ErrDatasetUnavailable.
func DatasetLoader(cfg config.Config, repo ports.OfficeRepository) func(ctx context.Context) (services.DatasetLoad, error) {
	opts := services.LoadOptions{Strict: cfg.DatasetStrict}

	return func(ctx context.Context) (services.DatasetLoad, error) {
		src, err := dataset.Open(ctx, cfg.DatasetSource, dataset.Options{
			Sheet:     cfg.DatasetSheet,
			AWSRegion: cfg.AWSRegion,
			Repo:      repo,
		})
		if err != nil {
			src = failedSource{err: err}
		}
		return services.LoadDataset(ctx, src, opts)
	}
}

type failedSource struct{ err error }

func (f failedSource) FetchRawDataset(context.Context) (string, error) { return "", f.err }

// Services bundles the engine and provider built from cfg.
type Services struct {
	Engine   *services.Engine
	Provider *services.LocationProvider
}

func NewServices(cfg config.Config, g ports.Geocoder, device ports.DeviceLocator) (Services, error) {
	unit, err := services.ParseUnit(cfg.DistanceUnit)
	if err != nil {
		return Services{}, err
	}

	engine := services.NewEngine(unit)
	provider := services.NewLocationProvider(engine, g, device, cfg.GeocodeTimeout)
	return Services{Engine: engine, Provider: provider}, nil
}

// WaitForShutdown is the grace period given to in-flight requests.
const WaitForShutdown = 10 * time.Second
