package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/bloom/internal/config"
	"github.com/phrazzld/bloom/internal/platform/logger"
)

// setupAppLogger installs the structured logger configured for the server.
func setupAppLogger(cfg *config.Config) (*slog.Logger, error) {
	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	return l, nil
}
