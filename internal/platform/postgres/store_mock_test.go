package postgres_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/bloom/internal/domain"
	"github.com/phrazzld/bloom/internal/platform/logger"
	"github.com/phrazzld/bloom/internal/platform/postgres"
	"github.com/phrazzld/bloom/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

var userRowColumns = []string{
	"id", "email", "name", "avatar_url", "energy", "is_premium", "provider",
	"provider_user_id", "hashed_password", "created_at", "updated_at",
}

func TestUserStoreConsumeEnergy(t *testing.T) {
	t.Parallel()

	l, _ := logger.NewTestLogger()
	ctx := context.Background()

	t.Run("decrements balance", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE users")).
			WithArgs("user-1", 2).
			WillReturnRows(sqlmock.NewRows([]string{"energy"}).AddRow(3))

		energy, err := postgres.NewPostgresUserStore(db, l).ConsumeEnergy(ctx, "user-1", 2)
		require.NoError(t, err)
		assert.Equal(t, 3, energy)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		now := time.Now()
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE users")).
			WithArgs("user-1", 9).
			WillReturnRows(sqlmock.NewRows([]string{"energy"}))
		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
			WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows(userRowColumns).
				AddRow("user-1", "a@b.co", "Ada", "", 1, false, "email", nil, "hash", now, now))

		_, err := postgres.NewPostgresUserStore(db, l).ConsumeEnergy(ctx, "user-1", 9)
		assert.ErrorIs(t, err, domain.ErrInsufficientEnergy)
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE users")).
			WillReturnRows(sqlmock.NewRows([]string{"energy"}))
		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
			WillReturnRows(sqlmock.NewRows(userRowColumns))

		_, err := postgres.NewPostgresUserStore(db, l).ConsumeEnergy(ctx, "ghost", 1)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		t.Parallel()
		db, _ := newMockDB(t)
		_, err := postgres.NewPostgresUserStore(db, l).ConsumeEnergy(ctx, "user-1", 0)
		assert.ErrorIs(t, err, domain.ErrInvalidEnergyAmount)
	})
}

func TestUserStoreCreateDuplicateEmail(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	pgErr := newPgError("23505")
	pgErr.ConstraintName = "users_email_key"
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).WillReturnError(pgErr)

	user, err := domain.NewUser("ada@example.com", "Ada", "password123", 5)
	require.NoError(t, err)
	user.HashedPassword = "hash"
	user.Password = ""

	err = postgres.NewPostgresUserStore(db, nil).Create(context.Background(), user)
	assert.ErrorIs(t, err, store.ErrEmailExists)
}

func TestUserStoreGetByProvider(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE provider = $1 AND provider_user_id = $2")).
		WithArgs("apple", "apple-123").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("user-2", "x@privaterelay.appleid.com", "Bloom User", "", 5, false, "apple", "apple-123", nil, now, now))

	user, err := postgres.NewPostgresUserStore(db, nil).GetByProvider(context.Background(), "apple", "apple-123")
	require.NoError(t, err)
	assert.Equal(t, "apple-123", user.ProviderUserID)
	assert.Empty(t, user.HashedPassword)
}

var courseRowColumns = []string{
	"id", "category_id", "title", "description", "icon_url", "theme_color",
	"lesson_count", "exercise_count", "is_recommended", "collaborators", "order_index",
}

func TestCatalogStoreGetCourse(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM courses WHERE id = $1")).
		WithArgs("course-logic").
		WillReturnRows(sqlmock.NewRows(courseRowColumns).
			AddRow("course-logic", "cat-math", "Logic", "", "", "blue", 3, 1, true, `{"Bloom Team",Ada}`, 0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM levels")).
		WithArgs("course-logic").
		WillReturnRows(sqlmock.NewRows([]string{"id", "course_id", "title", "order_index"}).
			AddRow("L1", "course-logic", "Statements", 0).
			AddRow("L2", "course-logic", "Empty", 1))
	mock.ExpectQuery(regexp.QuoteMeta("JOIN levels lv ON lv.id = l.level_id")).
		WithArgs("course-logic").
		WillReturnRows(sqlmock.NewRows([]string{"id", "level_id", "title", "icon_url", "type", "order_index"}).
			AddRow("A", "L1", "First", "", "lesson", 0).
			AddRow("B", "L1", "Second", "", "exercise", 1))

	course, err := postgres.NewPostgresCatalogStore(db, nil).GetCourse(context.Background(), "course-logic")
	require.NoError(t, err)

	assert.Equal(t, []string{"Bloom Team", "Ada"}, course.Collaborators)
	require.Len(t, course.Levels, 2)
	require.Len(t, course.Levels[0].Lessons, 2)
	assert.Equal(t, "B", course.Levels[0].Lessons[1].ID)
	assert.True(t, course.Levels[0].Lessons[1].IsExercise())
	assert.NotNil(t, course.Levels[1].Lessons)
	assert.Empty(t, course.Levels[1].Lessons)
}

func TestCatalogStoreNotFound(t *testing.T) {
	t.Parallel()

	t.Run("course", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM courses WHERE id = $1")).
			WillReturnRows(sqlmock.NewRows(courseRowColumns))

		_, err := postgres.NewPostgresCatalogStore(db, nil).GetCourse(context.Background(), "missing")
		assert.ErrorIs(t, err, store.ErrCourseNotFound)
	})

	t.Run("level", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		_, err := postgres.NewPostgresCatalogStore(db, nil).ListLevelLessons(context.Background(), "missing")
		assert.ErrorIs(t, err, store.ErrLevelNotFound)
	})
}

func TestCatalogStoreGetLessonKeepsContentVerbatim(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	payload := `{"type": "text", "text": "hi", "extra": [1, 2]}`
	mock.ExpectQuery(regexp.QuoteMeta("FROM lessons WHERE id = $1")).
		WithArgs("lesson-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "level_id", "title", "icon_url", "type", "order_index"}).
			AddRow("lesson-1", "L1", "Intro", "", "lesson", 0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM lesson_content")).
		WithArgs("lesson-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "lesson_id", "order_index", "content_type", "content_data"}).
			AddRow("c1", "lesson-1", 0, "text", []byte(payload)))

	lesson, err := postgres.NewPostgresCatalogStore(db, nil).GetLesson(context.Background(), "lesson-1")
	require.NoError(t, err)
	require.Len(t, lesson.Content, 1)
	assert.Equal(t, payload, string(lesson.Content[0].Data))
	assert.Equal(t, "L1", lesson.LevelID)
}

var progressRowColumns = []string{"id", "user_id", "lesson_id", "completed", "score", "completed_at"}

func TestProgressStoreUpsert(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	completedAt := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (user_id, lesson_id) DO UPDATE")).
		WillReturnRows(sqlmock.NewRows(progressRowColumns).
			AddRow("p-1", "user-1", "lesson-1", true, 100, completedAt))

	score := 100
	stored, err := postgres.NewPostgresProgressStore(db, nil).Upsert(context.Background(), &domain.UserProgress{
		ID:          "p-2",
		UserID:      "user-1",
		LessonID:    "lesson-1",
		Completed:   true,
		Score:       &score,
		CompletedAt: &completedAt,
	})
	require.NoError(t, err)
	assert.Equal(t, "p-1", stored.ID)
	require.NotNil(t, stored.Score)
	assert.Equal(t, 100, *stored.Score)
	require.NotNil(t, stored.CompletedAt)
	assert.True(t, completedAt.Equal(*stored.CompletedAt))
}

func TestProgressStoreUpsertUnknownLesson(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO user_progress")).WillReturnError(newPgError("23503"))

	_, err := postgres.NewPostgresProgressStore(db, nil).Upsert(context.Background(), &domain.UserProgress{
		ID: "p-1", UserID: "user-1", LessonID: "nope",
	})
	assert.ErrorIs(t, err, store.ErrLessonNotFound)
}

func TestProgressStoreStats(t *testing.T) {
	t.Parallel()

	statsColumns := []string{"current_streak", "longest_streak", "last_activity_date", "completed_lessons", "total_score"}

	t.Run("no activity yet", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM user_stats")).
			WillReturnRows(sqlmock.NewRows(statsColumns))

		stats, err := postgres.NewPostgresProgressStore(db, nil).GetStats(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Nil(t, stats.Streak)
		assert.Zero(t, stats.CompletedLessons)
	})

	t.Run("with streak", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM user_stats")).
			WillReturnRows(sqlmock.NewRows(statsColumns).
				AddRow(3, 7, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), 12, 900))

		stats, err := postgres.NewPostgresProgressStore(db, nil).GetStats(context.Background(), "user-1")
		require.NoError(t, err)
		require.NotNil(t, stats.Streak)
		assert.Equal(t, domain.Streak{CurrentStreak: 3, LongestStreak: 7, LastActivityDate: "2025-03-01"}, *stats.Streak)
		assert.Equal(t, 900, stats.TotalScore)
	})

	t.Run("save", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_stats")).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := postgres.NewPostgresProgressStore(db, nil).SaveStats(context.Background(), "user-1", &domain.UserStats{
			Streak:           &domain.Streak{CurrentStreak: 1, LongestStreak: 1, LastActivityDate: "2025-03-02"},
			CompletedLessons: 1,
			TotalScore:       100,
		})
		assert.NoError(t, err)
	})

	t.Run("save rejects malformed date", func(t *testing.T) {
		t.Parallel()
		db, _ := newMockDB(t)
		err := postgres.NewPostgresProgressStore(db, nil).SaveStats(context.Background(), "user-1", &domain.UserStats{
			Streak: &domain.Streak{LastActivityDate: "yesterday"},
		})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}
