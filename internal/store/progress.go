package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/bloom/internal/domain"
)

// ProgressStore persists per-lesson progress and the server-owned activity
// stats of each user.
type ProgressStore interface {
	// Upsert writes the record for (UserID, LessonID), replacing any earlier
	// one, and returns the stored row.
	Upsert(ctx context.Context, progress *domain.UserProgress) (*domain.UserProgress, error)

	// GetForLesson returns ErrProgressNotFound when the user has no record
	// for lessonID.
	GetForLesson(ctx context.Context, userID, lessonID string) (*domain.UserProgress, error)

	// ListForCourse returns the user's records for lessons of courseID.
	ListForCourse(ctx context.Context, userID, courseID string) ([]domain.UserProgress, error)

	// GetStats returns the user's stats without energy. A user with no
	// activity yet has a nil Streak.
	GetStats(ctx context.Context, userID string) (*domain.UserStats, error)

	// SaveStats stores streak, completed count and total score of stats.
	SaveStats(ctx context.Context, userID string, stats *domain.UserStats) error

	// WithTx returns a ProgressStore bound to tx.
	WithTx(tx *sql.Tx) ProgressStore
}
