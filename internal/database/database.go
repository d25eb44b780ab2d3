package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"rose-booking/internal/config"
	"rose-booking/internal/logger"
)

const maxConnectAttempts = 5

// Connect opens the configured database, retrying the initial ping.
func Connect(ctx context.Context, cfg config.DatabaseConfig, logger *logger.Logger) (*bun.DB, error) {
	switch cfg.Driver {
	case "sqlite":
		sqldb, err := sql.Open(sqliteshim.ShimName, cfg.SQLiteDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		// sqlite serialises writers; one connection avoids SQLITE_BUSY under load.
		sqldb.SetMaxOpenConns(1)
		if err := sqldb.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
		}
		logger.Info("DATABASE", fmt.Sprintf("✅ SQLite connection successful (%s)", cfg.SQLiteDSN))
		return bun.NewDB(sqldb, sqlitedialect.New()), nil

	case "postgres", "":
		var sqldb *sql.DB
		var err error
		for i := 0; i < maxConnectAttempts; i++ {
			logger.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxConnectAttempts))
			sqldb, err = sql.Open("postgres", cfg.PostgresDSN)
			if err == nil {
				err = sqldb.PingContext(ctx)
			}
			if err == nil {
				break
			}
			logger.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
			if i < maxConnectAttempts-1 {
				time.Sleep(2 * time.Second)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL after %d attempts: %w", maxConnectAttempts, err)
		}

		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
		sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
		sqldb.SetConnMaxLifetime(cfg.MaxLifetime)

		logger.Info("DATABASE", "✅ PostgreSQL connection successful")
		return bun.NewDB(sqldb, pgdialect.New()), nil

	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}
