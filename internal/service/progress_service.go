package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/bloom/internal/domain"
	"github.com/phrazzld/bloom/internal/platform/logger"
	"github.com/phrazzld/bloom/internal/platform/metrics"
	"github.com/phrazzld/bloom/internal/store"
)

// ProgressService reads and writes learner progress. It is the only writer
// of streaks, totals and energy.
type ProgressService interface {
	// Stats returns the user's streak, totals and current energy.
	Stats(ctx context.Context, userID string) (*domain.UserStats, error)

	// CourseProgress returns the user's records for lessons of courseID.
	CourseProgress(ctx context.Context, userID, courseID string) ([]domain.UserProgress, error)

	// LessonProgress returns the user's record for lessonID, or nil when the
	// lesson was never started.
	LessonProgress(ctx context.Context, userID, lessonID string) (*domain.UserProgress, error)

	// UpdateProgress applies update and returns the stored record.
	UpdateProgress(ctx context.Context, userID string, update domain.ProgressUpdate) (*domain.UserProgress, error)

	// ConsumeEnergy spends amount (at least 1) and returns the new balance.
	ConsumeEnergy(ctx context.Context, userID string, amount int) (int, error)
}

type progressService struct {
	db       *sql.DB
	progress store.ProgressStore
	users    store.UserStore
	metrics  *metrics.Metrics
	now      func() time.Time
	logger   *slog.Logger
}

// NewProgressService creates a ProgressService. db is used to run the
// progress write path in a single transaction; m may be nil.
func NewProgressService(
	db *sql.DB,
	progress store.ProgressStore,
	users store.UserStore,
	m *metrics.Metrics,
	logger *slog.Logger,
) ProgressService {
	return newProgressService(db, progress, users, m, time.Now, logger)
}

func newProgressService(
	db *sql.DB,
	progress store.ProgressStore,
	users store.UserStore,
	m *metrics.Metrics,
	now func() time.Time,
	logger *slog.Logger,
) *progressService {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &progressService{
		db:       db,
		progress: progress,
		users:    users,
		metrics:  m,
		now:      now,
		logger:   logger.With(slog.String("component", "progress_service")),
	}
}

func (s *progressService) Stats(ctx context.Context, userID string) (*domain.UserStats, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	stats, err := s.progress.GetStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	stats.Energy = user.Energy
	return stats, nil
}

func (s *progressService) CourseProgress(
	ctx context.Context,
	userID, courseID string,
) ([]domain.UserProgress, error) {
	records, err := s.progress.ListForCourse(ctx, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list course progress: %w", err)
	}
	return records, nil
}

func (s *progressService) LessonProgress(
	ctx context.Context,
	userID, lessonID string,
) (*domain.UserProgress, error) {
	record, err := s.progress.GetForLesson(ctx, userID, lessonID)
	if errors.Is(err, store.ErrProgressNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson progress: %w", err)
	}
	return record, nil
}

// UpdateProgress merges update into the existing record. Omitted fields keep
// their stored value. A completion records streak activity; the first
// completion of a lesson also counts it and adds its score to the total.
func (s *progressService) UpdateProgress(
	ctx context.Context,
	userID string,
	update domain.ProgressUpdate,
) (*domain.UserProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := update.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	var (
		stored         *domain.UserProgress
		firstCompleted bool
	)
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		progress := s.progress.WithTx(tx)

		existing, err := progress.GetForLesson(ctx, userID, update.LessonID)
		if err != nil && !errors.Is(err, store.ErrProgressNotFound) {
			return err
		}

		next := mergeProgress(existing, userID, update, s.now().UTC())
		firstCompleted = next.Completed && (existing == nil || !existing.Completed)

		stored, err = progress.Upsert(ctx, next)
		if err != nil {
			return err
		}
		if !next.Completed {
			return nil
		}

		stats, err := progress.GetStats(ctx, userID)
		if err != nil {
			return err
		}
		if stats.Streak == nil {
			stats.Streak = &domain.Streak{}
		}
		stats.Streak.RecordActivity(s.now())
		if firstCompleted {
			stats.CompletedLessons++
			if stored.Score != nil {
				stats.TotalScore += *stored.Score
			}
		}
		return progress.SaveStats(ctx, userID, stats)
	})
	if err != nil {
		if !store.IsNotFoundError(err) {
			log.Error("failed to update progress",
				slog.String("error", err.Error()),
				slog.String("lesson_id", update.LessonID))
		}
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}

	if firstCompleted {
		s.metrics.LessonCompleted()
		log.Info("lesson completed",
			slog.String("user_id", userID),
			slog.String("lesson_id", update.LessonID))
	}
	return stored, nil
}

func mergeProgress(
	existing *domain.UserProgress,
	userID string,
	update domain.ProgressUpdate,
	now time.Time,
) *domain.UserProgress {
	next := &domain.UserProgress{
		ID:       uuid.NewString(),
		UserID:   userID,
		LessonID: update.LessonID,
	}
	if existing != nil {
		*next = *existing
	}
	if update.Completed != nil {
		next.Completed = *update.Completed
	}
	if update.Score != nil {
		score := *update.Score
		next.Score = &score
	}
	switch {
	case !next.Completed:
		next.CompletedAt = nil
	case next.CompletedAt == nil:
		next.CompletedAt = &now
	}
	return next
}

func (s *progressService) ConsumeEnergy(ctx context.Context, userID string, amount int) (int, error) {
	if amount < 1 {
		amount = 1
	}
	energy, err := s.users.ConsumeEnergy(ctx, userID, amount)
	if err != nil {
		return 0, fmt.Errorf("failed to consume energy: %w", err)
	}
	s.metrics.EnergyConsumed(amount)
	return energy, nil
}
