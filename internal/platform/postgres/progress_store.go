package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/bloom/internal/domain"
	"github.com/phrazzld/bloom/internal/platform/logger"
	"github.com/phrazzld/bloom/internal/store"
)

const progressColumns = `id, user_id, lesson_id, completed, score, completed_at`

// PostgresProgressStore implements store.ProgressStore.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a progress store on db.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// WithTx implements store.ProgressStore.
func (s *PostgresProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &PostgresProgressStore{db: tx, logger: s.logger}
}

// Upsert implements store.ProgressStore. The (user_id, lesson_id) unique
// key guarantees a single record per lesson; the id of the first record is
// kept on conflict.
func (s *PostgresProgressStore) Upsert(
	ctx context.Context,
	progress *domain.UserProgress,
) (*domain.UserProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO user_progress (id, user_id, lesson_id, completed, score, completed_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (user_id, lesson_id) DO UPDATE
		SET completed = EXCLUDED.completed,
			score = EXCLUDED.score,
			completed_at = EXCLUDED.completed_at,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + progressColumns

	stored, err := scanProgress(s.db.QueryRowContext(ctx, query,
		progress.ID,
		progress.UserID,
		progress.LessonID,
		progress.Completed,
		nullInt(progress.Score),
		nullTime(progress.CompletedAt),
	))
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Debug("progress references unknown lesson or user",
				slog.String("lesson_id", progress.LessonID),
				slog.String("user_id", progress.UserID))
			return nil, fmt.Errorf("%w: %v", store.ErrLessonNotFound, err)
		}
		log.Error("failed to upsert progress",
			slog.String("error", err.Error()),
			slog.String("lesson_id", progress.LessonID),
			slog.String("user_id", progress.UserID))
		return nil, MapError(err)
	}

	log.Debug("progress saved",
		slog.String("lesson_id", stored.LessonID),
		slog.String("user_id", stored.UserID),
		slog.Bool("completed", stored.Completed))
	return stored, nil
}

// GetForLesson implements store.ProgressStore.
func (s *PostgresProgressStore) GetForLesson(
	ctx context.Context,
	userID, lessonID string,
) (*domain.UserProgress, error) {
	progress, err := scanProgress(s.db.QueryRowContext(ctx,
		`SELECT `+progressColumns+` FROM user_progress WHERE user_id = $1 AND lesson_id = $2`,
		userID, lessonID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProgressNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get progress",
			slog.String("error", err.Error()),
			slog.String("lesson_id", lessonID))
		return nil, MapError(err)
	}
	return progress, nil
}

// ListForCourse implements store.ProgressStore.
func (s *PostgresProgressStore) ListForCourse(
	ctx context.Context,
	userID, courseID string,
) ([]domain.UserProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.user_id, p.lesson_id, p.completed, p.score, p.completed_at
		FROM user_progress p
		JOIN lessons l ON l.id = p.lesson_id
		JOIN levels lv ON lv.id = l.level_id
		WHERE p.user_id = $1 AND lv.course_id = $2
		ORDER BY p.updated_at, p.id
	`, userID, courseID)
	if err != nil {
		log.Error("failed to list course progress",
			slog.String("error", err.Error()),
			slog.String("course_id", courseID))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	records := []domain.UserProgress{}
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, MapError(err)
		}
		records = append(records, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return records, nil
}

// GetStats implements store.ProgressStore.
func (s *PostgresProgressStore) GetStats(ctx context.Context, userID string) (*domain.UserStats, error) {
	var (
		stats        domain.UserStats
		streak       domain.Streak
		lastActivity sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT current_streak, longest_streak, last_activity_date, completed_lessons, total_score
		FROM user_stats
		WHERE user_id = $1
	`, userID).Scan(
		&streak.CurrentStreak,
		&streak.LongestStreak,
		&lastActivity,
		&stats.CompletedLessons,
		&stats.TotalScore,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.UserStats{}, nil
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get stats",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return nil, MapError(err)
	}

	if lastActivity.Valid {
		streak.LastActivityDate = lastActivity.Time.Format(domain.ActivityDateLayout)
	}
	stats.Streak = &streak
	return &stats, nil
}

// SaveStats implements store.ProgressStore.
func (s *PostgresProgressStore) SaveStats(ctx context.Context, userID string, stats *domain.UserStats) error {
	var (
		streak       domain.Streak
		lastActivity sql.NullTime
	)
	if stats.Streak != nil {
		streak = *stats.Streak
	}
	if streak.LastActivityDate != "" {
		t, err := time.Parse(domain.ActivityDateLayout, streak.LastActivityDate)
		if err != nil {
			return fmt.Errorf("%w: last activity date: %v", store.ErrInvalidEntity, err)
		}
		lastActivity = sql.NullTime{Time: t, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_stats (user_id, current_streak, longest_streak, last_activity_date,
			completed_lessons, total_score, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET current_streak = EXCLUDED.current_streak,
			longest_streak = EXCLUDED.longest_streak,
			last_activity_date = EXCLUDED.last_activity_date,
			completed_lessons = EXCLUDED.completed_lessons,
			total_score = EXCLUDED.total_score,
			updated_at = EXCLUDED.updated_at
	`,
		userID,
		streak.CurrentStreak,
		streak.LongestStreak,
		lastActivity,
		stats.CompletedLessons,
		stats.TotalScore,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to save stats",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return MapError(err)
	}
	return nil
}

func scanProgress(row rowScanner) (*domain.UserProgress, error) {
	var (
		p           domain.UserProgress
		score       sql.NullInt64
		completedAt sql.NullTime
	)
	if err := row.Scan(&p.ID, &p.UserID, &p.LessonID, &p.Completed, &score, &completedAt); err != nil {
		return nil, err
	}
	if score.Valid {
		v := int(score.Int64)
		p.Score = &v
	}
	if completedAt.Valid {
		t := completedAt.Time.UTC()
		p.CompletedAt = &t
	}
	return &p, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
