package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/phrazzld/bloom/internal/domain/stats"
	"github.com/phrazzld/bloom/internal/events"
	"github.com/phrazzld/bloom/internal/gateway"
	"github.com/phrazzld/bloom/internal/platform/logger"
)

// StatsRefresher re-fetches user stats whenever a write invalidates them
// and keeps the last successful projection.
type StatsRefresher struct {
	gateway gateway.Gateway
	logger  *slog.Logger

	mu      sync.RWMutex
	current stats.DisplayStats
}

var _ events.EventHandler = (*StatsRefresher)(nil)

// NewStatsRefresher creates a StatsRefresher showing default stats.
func NewStatsRefresher(gw gateway.Gateway, logger *slog.Logger) *StatsRefresher {
	if gw == nil {
		panic("gateway cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsRefresher{
		gateway: gw,
		logger:  logger.With(slog.String("component", "stats_refresher")),
		current: stats.Defaults(),
	}
}

// HandleEvent handles StatsInvalidated and ignores every other event. A
// balance carried by the event is shown until the re-fetch succeeds; a
// failed re-fetch keeps the previous values.
func (r *StatsRefresher) HandleEvent(ctx context.Context, event *events.Event) error {
	if event == nil || event.Type != events.TypeStatsInvalidated {
		return nil
	}

	var payload events.StatsInvalidated
	if err := event.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("failed to decode %s event: %w", event.Type, err)
	}
	if payload.Energy != nil {
		r.mu.Lock()
		r.current = r.current.WithEnergy(*payload.Energy)
		r.mu.Unlock()
	}

	raw, err := r.gateway.UserStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh stats: %w", err)
	}

	derived := stats.DeriveDisplayStats(raw)
	r.mu.Lock()
	r.current = derived
	r.mu.Unlock()

	logger.FromContextOrDefault(ctx, r.logger).Debug("stats refreshed",
		slog.String("reason", payload.Reason),
		slog.Int("streak", derived.StreakCount),
		slog.Int("energy", derived.Energy))
	return nil
}

// Stats returns the last known display stats.
func (r *StatsRefresher) Stats() stats.DisplayStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}
