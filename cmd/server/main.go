package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"office-locator-service/internal/adapters/repositories"
	"office-locator-service/internal/api"
	"office-locator-service/internal/app"
	"office-locator-service/internal/config"
	"office-locator-service/internal/platform/obs"
	"office-locator-service/internal/ports"
	"office-locator-service/internal/services"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// main is the application composition root.
// It wires concrete adapters (dataset source, geocoder, cache) behind ports and starts the HTTP server.
func main() {
	dotenv := config.LoadDotEnv()

	cfg, err := config.Load(config.Get("CONFIG_PATH", ""))
	if err != nil {
		slog.Error("config", obs.Err(err))
		os.Exit(1)
	}

	logger := obs.NewLogger(os.Stderr, cfg.LogLevel)
	slog.SetDefault(logger)
	if !dotenv {
		slog.Info("no .env file found (using environment variables)")
	}

	if err := run(cfg); err != nil {
		slog.Error("server stopped", obs.Err(err))
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		conn *sql.DB
		repo ports.OfficeRepository
	)
	if app.NeedsDatabase(cfg) {
		db, dialect, err := app.OpenDatabase(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		conn = db
		repo = repositories.NewSQLOfficeRepository(db, dialect)
	}

	// Lookups are cached so repeated ZIP/address searches skip the geocoding API.
	geocodeCache, closeCache, err := app.NewGeocodeCache(ctx, cfg, conn)
	if err != nil {
		return err
	}
	defer closeCache()

	geocoder, err := app.NewGeocoder(cfg, geocodeCache, nil)
	if err != nil {
		return err
	}

	// Devices report their own fix through POST /location/device, so there is no server-side locator.
	svc, err := app.NewServices(cfg, geocoder, nil)
	if err != nil {
		return err
	}

	loader := app.DatasetLoader(cfg, repo)
	initial, err := loader(ctx)
	if err != nil {
		// The service stays up with an empty dataset; POST /offices/reload retries.
		slog.Error("initial dataset load failed", slog.String("source", cfg.DatasetSource), obs.Err(err))
	} else {
		svc.Engine.SetOffices(initial.Offices)
		slog.Info("offices loaded",
			slog.String("source", cfg.DatasetSource),
			slog.Int("offices", len(initial.Offices)),
			slog.Int("diagnostics", len(initial.Diagnostics)),
		)
	}

	cancel := svc.Engine.Subscribe(func(s services.Snapshot) {
		slog.Debug("ranking updated",
			slog.Uint64("version", s.Version),
			slog.Int("offices", s.OfficeCount),
			slog.Int("ranked", len(s.Result.Offices)),
		)
	})
	defer cancel()

	router := api.NewRouter(svc.Engine, svc.Provider, loader)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.GeocodeTimeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", slog.String("addr", srv.Addr), slog.String("unit", cfg.DistanceUnit))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), app.WaitForShutdown)
	defer cancelShutdown()

	slog.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
