package main

import (
	"context"
	"database/sql"
	"eld-log-service/internal/adapters/cache"
	"eld-log-service/internal/adapters/repositories"
	"eld-log-service/internal/adapters/routing"
	"eld-log-service/internal/api"
	"eld-log-service/internal/config"
	"eld-log-service/internal/platform/clock"
	"eld-log-service/internal/platform/db"
	"eld-log-service/internal/platform/logging"
	"eld-log-service/internal/platform/metrics"
	"eld-log-service/internal/ports"
	"eld-log-service/internal/services"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const geocodeCacheTTL = 30 * 24 * time.Hour

// main is the application composition root.
// It wires concrete adapters (SQLite/Postgres, Redis, ORS) behind ports and starts the HTTP server.
func main() {
	config.LoadDotEnv()

	if err := run(); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Init(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	geocodeCache, legCache, repo := storageFor(cfg.DBDriver, conn)

	// A shared Redis geocode cache takes over from the database one when configured.
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		geocodeCache = cache.NewRedisGeocodeCache(rdb, geocodeCacheTTL)
	}

	m := metrics.New()

	provider, err := routing.NewORSProvider(routing.ORSConfig{
		APIKey:  cfg.ORSAPIKey,
		BaseURL: cfg.ORSBaseURL,
		Profile: cfg.ORSProfile,
		Timeout: cfg.ORSTimeout,
	}, geocodeCache, legCache, m)
	if err != nil {
		return err
	}

	rules := services.DefaultHOSRules()
	rules.MaxLogDays = cfg.MaxLogDays

	clk := clock.RealClock{Location: cfg.Location()}

	var limiter *api.RateLimiter
	if cfg.RateLimitPerMinute > 0 {
		limiter = api.NewRateLimiter(cfg.RateLimitPerMinute, clk)
		defer limiter.Stop()
	}

	router := api.NewRouter(api.Deps{
		Provider:  provider,
		Repo:      repo,
		Simulator: services.NewSimulator(rules),
		Clock:     clk,
		Metrics:   m,
		Limiter:   limiter,
	})

	// Timeouts are tuned for cold-cache planning (external API latency).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "db_driver", cfg.DBDriver, "redis", cfg.RedisURL != "")
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

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	dsn := cfg.DBPath
	if cfg.DBDriver == db.DriverPostgres {
		dsn = cfg.DatabaseURL
	}

	conn, err := db.Open(cfg.DBDriver, dsn)
	if err != nil {
		return nil, err
	}

	initSchema := repositories.InitSchema
	if cfg.DBDriver == db.DriverPostgres {
		initSchema = repositories.InitPostgresSchema
	}
	if err := initSchema(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}

	return conn, nil
}

func storageFor(driver string, conn *sql.DB) (ports.GeocodeCache, ports.RouteLegCache, ports.TripRepository) {
	if driver == db.DriverPostgres {
		return cache.NewSQLGeocodeCache(conn), cache.NewSQLRouteLegCache(conn), repositories.NewSQLTripRepository(conn)
	}
	return cache.NewSqliteGeocodeCache(conn), cache.NewSqliteRouteLegCache(conn), repositories.NewSqliteTripRepository(conn)
}
