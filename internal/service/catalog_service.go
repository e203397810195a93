package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/phrazzld/bloom/internal/domain"
	"github.com/phrazzld/bloom/internal/domain/content"
	"github.com/phrazzld/bloom/internal/platform/logger"
	"github.com/phrazzld/bloom/internal/store"
)

// CatalogService serves the course catalog.
type CatalogService interface {
	Categories(ctx context.Context) ([]domain.Category, error)

	// Courses lists every course, or only those of categoryID when set.
	Courses(ctx context.Context, categoryID string) ([]domain.Course, error)

	RecommendedCourses(ctx context.Context) ([]domain.Course, error)

	// Course returns a course with levels and lessons in display order.
	Course(ctx context.Context, id string) (*domain.CourseWithLevels, error)

	// Lesson returns a lesson with its stored content payloads.
	Lesson(ctx context.Context, id string) (*store.LessonRecord, error)

	LevelLessons(ctx context.Context, levelID string) ([]domain.Lesson, error)
}

type catalogService struct {
	catalog store.CatalogStore
	logger  *slog.Logger
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(catalog store.CatalogStore, logger *slog.Logger) CatalogService {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &catalogService{
		catalog: catalog,
		logger:  logger.With(slog.String("component", "catalog_service")),
	}
}

func (s *catalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	domain.SortCategories(categories)
	return categories, nil
}

func (s *catalogService) Courses(ctx context.Context, categoryID string) ([]domain.Course, error) {
	courses, err := s.catalog.ListCourses(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

func (s *catalogService) RecommendedCourses(ctx context.Context) ([]domain.Course, error) {
	courses, err := s.catalog.ListRecommendedCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommended courses: %w", err)
	}
	return courses, nil
}

func (s *catalogService) Course(ctx context.Context, id string) (*domain.CourseWithLevels, error) {
	course, err := s.catalog.GetCourse(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	domain.SortCourse(course)
	return course, nil
}

// Lesson serves content verbatim but logs items clients will have to
// degrade, so authoring mistakes surface on the server.
func (s *catalogService) Lesson(ctx context.Context, id string) (*store.LessonRecord, error) {
	lesson, err := s.catalog.GetLesson(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}

	if raw, err := json.Marshal(lesson); err == nil {
		if decoded, err := content.DecodeLesson(raw); err == nil && len(decoded.Problems) > 0 {
			log := logger.FromContextOrDefault(ctx, s.logger)
			for _, p := range decoded.Problems {
				log.Warn("lesson content item will be shown as placeholder",
					slog.String("lesson_id", id),
					slog.String("problem", p.Error()))
			}
		}
	}
	return lesson, nil
}

func (s *catalogService) LevelLessons(ctx context.Context, levelID string) ([]domain.Lesson, error) {
	lessons, err := s.catalog.ListLevelLessons(ctx, levelID)
	if err != nil {
		return nil, fmt.Errorf("failed to list level lessons: %w", err)
	}
	domain.SortLessons(lessons)
	return lessons, nil
}
