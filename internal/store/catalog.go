package store

import (
	"context"
	"encoding/json"

	"github.com/phrazzld/bloom/internal/domain"
)

// ContentRecord is a stored lesson content item. Data is the JSONB payload,
// served to clients exactly as it was stored.
type ContentRecord struct {
	ID          string          `json:"id"`
	LessonID    string          `json:"lesson_id"`
	OrderIndex  int             `json:"order_index"`
	ContentType string          `json:"content_type"`
	Data        json.RawMessage `json:"content_data"`
}

// LessonRecord is a lesson with its stored content items in display order.
type LessonRecord struct {
	domain.Lesson
	Content []ContentRecord `json:"content"`
}

// CatalogStore reads the course catalog. All lists are returned in display
// order.
type CatalogStore interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)

	// ListCourses returns every course, or those of categoryID when it is
	// non-empty.
	ListCourses(ctx context.Context, categoryID string) ([]domain.Course, error)

	ListRecommendedCourses(ctx context.Context) ([]domain.Course, error)

	// GetCourse returns the course with its levels and lessons, or
	// ErrCourseNotFound.
	GetCourse(ctx context.Context, id string) (*domain.CourseWithLevels, error)

	// GetLesson returns the lesson and its content, or ErrLessonNotFound.
	GetLesson(ctx context.Context, id string) (*LessonRecord, error)

	// ListLevelLessons returns the lessons of levelID, or ErrLevelNotFound.
	ListLevelLessons(ctx context.Context, levelID string) ([]domain.Lesson, error)
}
