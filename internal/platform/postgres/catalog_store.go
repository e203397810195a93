package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/phrazzld/bloom/internal/domain"
	"github.com/phrazzld/bloom/internal/platform/logger"
	"github.com/phrazzld/bloom/internal/store"
)

const courseColumns = `id, category_id, title, description, icon_url, theme_color,
	lesson_count, exercise_count, is_recommended, collaborators, order_index`

const lessonColumns = `id, level_id, title, icon_url, type, order_index`

// PostgresCatalogStore implements store.CatalogStore.
type PostgresCatalogStore struct {
	db      store.DBTX
	logger  *slog.Logger
	typeMap *pgtype.Map
}

// NewPostgresCatalogStore creates a catalog store on db.
func NewPostgresCatalogStore(db store.DBTX, logger *slog.Logger) *PostgresCatalogStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCatalogStore{
		db:      db,
		logger:  logger.With(slog.String("component", "catalog_store")),
		typeMap: pgtype.NewMap(),
	}
}

var _ store.CatalogStore = (*PostgresCatalogStore)(nil)

// ListCategories implements store.CatalogStore.
func (s *PostgresCatalogStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, slug, icon_url, order_index
		FROM categories
		ORDER BY order_index, id
	`)
	if err != nil {
		log.Error("failed to list categories", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.IconURL, &c.OrderIndex); err != nil {
			return nil, MapError(err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return categories, nil
}

// ListCourses implements store.CatalogStore.
func (s *PostgresCatalogStore) ListCourses(ctx context.Context, categoryID string) ([]domain.Course, error) {
	if categoryID == "" {
		return s.queryCourses(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY order_index, id`)
	}
	return s.queryCourses(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE category_id = $1 ORDER BY order_index, id`,
		categoryID)
}

// ListRecommendedCourses implements store.CatalogStore.
func (s *PostgresCatalogStore) ListRecommendedCourses(ctx context.Context) ([]domain.Course, error) {
	return s.queryCourses(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE is_recommended ORDER BY order_index, id`)
}

func (s *PostgresCatalogStore) queryCourses(ctx context.Context, query string, args ...any) ([]domain.Course, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list courses", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	courses := []domain.Course{}
	for rows.Next() {
		c, err := s.scanCourse(rows)
		if err != nil {
			return nil, MapError(err)
		}
		courses = append(courses, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return courses, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresCatalogStore) scanCourse(row rowScanner) (*domain.Course, error) {
	var c domain.Course
	err := row.Scan(
		&c.ID,
		&c.CategoryID,
		&c.Title,
		&c.Description,
		&c.IconURL,
		&c.ThemeColor,
		&c.LessonCount,
		&c.ExerciseCount,
		&c.IsRecommended,
		s.typeMap.SQLScanner(&c.Collaborators),
		&c.OrderIndex,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCourse implements store.CatalogStore. Levels and lessons are returned
// in display order.
func (s *PostgresCatalogStore) GetCourse(ctx context.Context, id string) (*domain.CourseWithLevels, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	course, err := s.scanCourse(s.db.QueryRowContext(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCourseNotFound
		}
		log.Error("failed to get course",
			slog.String("error", err.Error()),
			slog.String("course_id", id))
		return nil, MapError(err)
	}

	result := &domain.CourseWithLevels{Course: *course, Levels: []domain.Level{}}

	levelRows, err := s.db.QueryContext(ctx, `
		SELECT id, course_id, title, order_index
		FROM levels
		WHERE course_id = $1
		ORDER BY order_index, id
	`, id)
	if err != nil {
		log.Error("failed to list levels", slog.String("error", err.Error()), slog.String("course_id", id))
		return nil, MapError(err)
	}
	defer func() { _ = levelRows.Close() }()

	levelIndex := make(map[string]int)
	for levelRows.Next() {
		l := domain.Level{Lessons: []domain.Lesson{}}
		if err := levelRows.Scan(&l.ID, &l.CourseID, &l.Title, &l.OrderIndex); err != nil {
			return nil, MapError(err)
		}
		levelIndex[l.ID] = len(result.Levels)
		result.Levels = append(result.Levels, l)
	}
	if err := levelRows.Err(); err != nil {
		return nil, MapError(err)
	}

	lessons, err := s.queryLessons(ctx, `
		SELECT l.id, l.level_id, l.title, l.icon_url, l.type, l.order_index
		FROM lessons l
		JOIN levels lv ON lv.id = l.level_id
		WHERE lv.course_id = $1
		ORDER BY lv.order_index, lv.id, l.order_index, l.id
	`, id)
	if err != nil {
		return nil, err
	}
	for _, lesson := range lessons {
		if i, ok := levelIndex[lesson.LevelID]; ok {
			result.Levels[i].Lessons = append(result.Levels[i].Lessons, lesson)
		}
	}

	log.Debug("course retrieved",
		slog.String("course_id", id),
		slog.Int("levels", len(result.Levels)),
		slog.Int("lessons", len(lessons)))
	return result, nil
}

// GetLesson implements store.CatalogStore.
func (s *PostgresCatalogStore) GetLesson(ctx context.Context, id string) (*store.LessonRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var lesson store.LessonRecord
	err := s.db.QueryRowContext(ctx, `SELECT `+lessonColumns+` FROM lessons WHERE id = $1`, id).Scan(
		&lesson.ID,
		&lesson.LevelID,
		&lesson.Title,
		&lesson.IconURL,
		&lesson.Type,
		&lesson.OrderIndex,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrLessonNotFound
		}
		log.Error("failed to get lesson", slog.String("error", err.Error()), slog.String("lesson_id", id))
		return nil, MapError(err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, lesson_id, order_index, content_type, content_data
		FROM lesson_content
		WHERE lesson_id = $1
		ORDER BY order_index, id
	`, id)
	if err != nil {
		log.Error("failed to list lesson content", slog.String("error", err.Error()), slog.String("lesson_id", id))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	lesson.Content = []store.ContentRecord{}
	for rows.Next() {
		var (
			c    store.ContentRecord
			data []byte
		)
		if err := rows.Scan(&c.ID, &c.LessonID, &c.OrderIndex, &c.ContentType, &data); err != nil {
			return nil, MapError(err)
		}
		c.Data = data
		lesson.Content = append(lesson.Content, c)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return &lesson, nil
}

// ListLevelLessons implements store.CatalogStore.
func (s *PostgresCatalogStore) ListLevelLessons(ctx context.Context, levelID string) ([]domain.Lesson, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM levels WHERE id = $1)`, levelID).Scan(&exists)
	if err != nil {
		log.Error("failed to check level", slog.String("error", err.Error()), slog.String("level_id", levelID))
		return nil, MapError(err)
	}
	if !exists {
		return nil, store.ErrLevelNotFound
	}

	return s.queryLessons(ctx,
		`SELECT `+lessonColumns+` FROM lessons WHERE level_id = $1 ORDER BY order_index, id`,
		levelID)
}

func (s *PostgresCatalogStore) queryLessons(ctx context.Context, query string, args ...any) ([]domain.Lesson, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list lessons", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	lessons := []domain.Lesson{}
	for rows.Next() {
		var l domain.Lesson
		if err := rows.Scan(&l.ID, &l.LevelID, &l.Title, &l.IconURL, &l.Type, &l.OrderIndex); err != nil {
			return nil, MapError(err)
		}
		lessons = append(lessons, l)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return lessons, nil
}
