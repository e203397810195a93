package main

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/bloom/internal/platform/postgres"
)

// runMigrations executes a goose command with the embedded migrations.
func runMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger, command string, args ...string) error {
	logger.Info("Executing migrations", "command", command)
	return postgres.Migrate(ctx, db, logger, command, args...)
}
