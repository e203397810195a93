package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/bloom/internal/domain"
	"github.com/phrazzld/bloom/internal/domain/content"
	"github.com/phrazzld/bloom/internal/domain/stats"
	"github.com/phrazzld/bloom/internal/events"
	"github.com/phrazzld/bloom/internal/gateway"
	"github.com/phrazzld/bloom/internal/platform/logger"
	"github.com/phrazzld/bloom/internal/redact"
)

// CompletionScore is the score reported when a lesson is finished.
const CompletionScore = 100

// LessonPlayer steps a learner through the content items of one lesson.
type LessonPlayer struct {
	gateway gateway.Gateway
	emitter events.EventEmitter
	logger  *slog.Logger

	lesson            *content.Lesson
	index             int
	answeredCorrectly bool
	energy            int
}

// NewLessonPlayer creates an empty LessonPlayer. emitter may be nil.
func NewLessonPlayer(gw gateway.Gateway, emitter events.EventEmitter, logger *slog.Logger) *LessonPlayer {
	if gw == nil {
		panic("gateway cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LessonPlayer{
		gateway: gw,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "lesson_player")),
		energy:  stats.DefaultEnergy,
	}
}

// Load fetches the lesson and the learner's energy. A stats failure keeps
// the default energy.
func (p *LessonPlayer) Load(ctx context.Context, lessonID string) error {
	if lessonID == "" {
		return domain.ErrEmptyLessonID
	}
	log := logger.FromContextOrDefault(ctx, p.logger).With(slog.String("lesson_id", lessonID))

	lesson, err := p.gateway.Lesson(ctx, lessonID)
	if err != nil {
		return fmt.Errorf("failed to load lesson: %w", err)
	}
	p.lesson = lesson
	p.index = 0
	p.answeredCorrectly = false

	raw, err := p.gateway.UserStats(ctx)
	if err != nil {
		log.Info("stats not available", slog.String("error", redact.Error(err)))
		return nil
	}
	p.energy = stats.DeriveDisplayStats(raw).Energy
	return nil
}

// Lesson returns the loaded lesson, or nil.
func (p *LessonPlayer) Lesson() *content.Lesson {
	return p.lesson
}

// Index returns the position of the current item.
func (p *LessonPlayer) Index() int {
	return p.index
}

// Current returns the item being shown.
func (p *LessonPlayer) Current() (content.Item, bool) {
	if p.lesson == nil || p.index >= len(p.lesson.Content) {
		return content.Item{}, false
	}
	return p.lesson.Content[p.index], true
}

// IsLast reports whether the current item is the last one. A player with
// nothing loaded is at its end.
func (p *LessonPlayer) IsLast() bool {
	if p.lesson == nil {
		return true
	}
	return p.index >= len(p.lesson.Content)-1
}

// Progress returns the fraction of items reached, counting the current one.
func (p *LessonPlayer) Progress() float64 {
	if p.lesson == nil || len(p.lesson.Content) == 0 {
		return 0
	}
	return float64(p.index+1) / float64(len(p.lesson.Content))
}

// CanContinue reports whether the learner may move past the current item.
// A question requires a correct answer first.
func (p *LessonPlayer) CanContinue() bool {
	item, ok := p.Current()
	if !ok {
		return false
	}
	if _, isQuestion := item.Question(); isQuestion {
		return p.answeredCorrectly
	}
	return true
}

// Answer records the chosen option of the current question and reports
// whether it was correct. It is false for items that are not questions.
func (p *LessonPlayer) Answer(option int) bool {
	item, ok := p.Current()
	if !ok {
		return false
	}
	q, isQuestion := item.Question()
	if !isQuestion {
		return false
	}
	p.answeredCorrectly = q.IsCorrect(option)
	return p.answeredCorrectly
}

// Next moves to the following item and reports whether it moved.
func (p *LessonPlayer) Next() bool {
	if p.IsLast() {
		return false
	}
	p.index++
	p.answeredCorrectly = false
	return true
}

// Energy returns the last energy balance reported by the server.
func (p *LessonPlayer) Energy() int {
	return p.energy
}

// Complete records the lesson as completed. The write is not reconciled
// locally; the error is logged and returned for callers that care.
func (p *LessonPlayer) Complete(ctx context.Context) error {
	if p.lesson == nil {
		return ErrNotLoaded
	}
	log := logger.FromContextOrDefault(ctx, p.logger).With(slog.String("lesson_id", p.lesson.ID))

	score := CompletionScore
	if _, err := p.gateway.UpdateProgress(ctx, p.lesson.ID, true, &score); err != nil {
		log.Warn("failed to update progress", slog.String("error", redact.Error(err)))
		return fmt.Errorf("failed to complete lesson: %w", err)
	}

	p.invalidateStats(ctx, events.StatsInvalidated{
		Reason:   events.ReasonLessonCompleted,
		LessonID: p.lesson.ID,
	})
	return nil
}

// SpendEnergy consumes amount (at least 1) and returns the new balance.
func (p *LessonPlayer) SpendEnergy(ctx context.Context, amount int) (int, error) {
	energy, err := p.gateway.ConsumeEnergy(ctx, amount)
	if err != nil {
		logger.FromContextOrDefault(ctx, p.logger).
			Warn("failed to consume energy", slog.String("error", redact.Error(err)))
		return 0, fmt.Errorf("failed to consume energy: %w", err)
	}
	p.energy = energy

	p.invalidateStats(ctx, events.StatsInvalidated{
		Reason: events.ReasonEnergyConsumed,
		Energy: &energy,
	})
	return energy, nil
}

func (p *LessonPlayer) invalidateStats(ctx context.Context, payload events.StatsInvalidated) {
	if p.emitter == nil {
		return
	}
	log := logger.FromContextOrDefault(ctx, p.logger)

	event, err := events.NewStatsInvalidatedEvent(payload)
	if err != nil {
		log.Error("failed to create stats event", slog.String("error", err.Error()))
		return
	}
	if err := p.emitter.EmitEvent(ctx, event); err != nil {
		log.Warn("stats refresh failed", slog.String("error", redact.Error(err)))
	}
}
