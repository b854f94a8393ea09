package main

import (
	"context"
	"eld-log-service/internal/adapters/repositories"
	"eld-log-service/internal/config"
	"eld-log-service/internal/platform/db"
	"eld-log-service/internal/platform/logging"
	"log/slog"
	"os"
	"time"
)

// dbtool prepares a database for the server: it creates the trip, log sheet and
// cache tables for DB_DRIVER and exits.
func main() {
	config.LoadDotEnv()
	logging.Init(os.Stderr, config.Get("LOG_LEVEL", "info"), config.Get("LOG_FORMAT", "text"))

	driver := config.Get("DB_DRIVER", db.DriverPostgres)
	dsn := config.Get("DATABASE_URL", "")
	initSchema := repositories.InitPostgresSchema
	if driver == db.DriverSQLite {
		dsn = config.Get("DB_PATH", "data/app.db")
		initSchema = repositories.InitSchema
	}
	if dsn == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	conn, err := db.Open(driver, dsn)
	if err != nil {
		slog.Error("open database failed", "err", err)
		os.Exit(1)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	slog.Info("initializing database schema", "driver", driver)
	if err := initSchema(ctx, conn); err != nil {
		slog.Error("schema initialization failed", "err", err)
		os.Exit(1)
	}
	slog.Info("schema ready")
}
