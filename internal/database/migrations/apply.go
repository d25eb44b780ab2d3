package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"rose-booking/internal/database"
	"rose-booking/internal/logger"
)

// Apply brings the schema up to date: embedded SQL migrations on postgres,
// model-driven table creation on sqlite.
func Apply(ctx context.Context, bunDB *bun.DB, driver string, logger *logger.Logger) error {
	if driver == "sqlite" {
		if err := database.CreateSchema(ctx, bunDB); err != nil {
			return err
		}
		logger.Info("MIGRATE", "SQLite schema ensured")
		return nil
	}

	runner := NewRunner(bunDB, logger)
	defer func() {
		if err := runner.Close(); err != nil {
			logger.Warn("MIGRATE", err.Error())
		}
	}()
	if err := runner.MigrateUp(); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
