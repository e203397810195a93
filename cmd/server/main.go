// Package main runs the Bloom learning API: catalog, progress and auth
// endpoints over Postgres.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	migrate := flag.String("migrate", "", "run a migration command (up, down, status, version, reset) and exit")
	configPath := flag.String("config", "", "path to a config file (defaults to ./config.yaml when present)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, *migrate, flag.Args()); err != nil {
		log.Fatalf("bloom server: %v", err)
	}
}

// run loads configuration, connects to the database and either executes a
// migration command or serves the API until ctx is cancelled.
func run(ctx context.Context, configPath, migrateCmd string, migrateArgs []string) error {
	cfg, err := loadAppConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	db, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer func() { _ = db.Close() }()
		return runMigrations(ctx, db, logger, migrateCmd, migrateArgs...)
	}

	app, err := newApplication(cfg, logger, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}
