package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/phrazzld/bloom/internal/domain"
	"github.com/phrazzld/bloom/internal/platform/logger"
	"github.com/phrazzld/bloom/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalogStore struct {
	categories []domain.Category
	courses    []domain.Course
	course     *domain.CourseWithLevels
	lesson     *store.LessonRecord
	lessons    []domain.Lesson
}

func (s *fakeCatalogStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories, nil
}

func (s *fakeCatalogStore) ListCourses(ctx context.Context, categoryID string) ([]domain.Course, error) {
	out := []domain.Course{}
	for _, c := range s.courses {
		if categoryID == "" || c.CategoryID == categoryID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeCatalogStore) ListRecommendedCourses(ctx context.Context) ([]domain.Course, error) {
	out := []domain.Course{}
	for _, c := range s.courses {
		if c.IsRecommended {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeCatalogStore) GetCourse(ctx context.Context, id string) (*domain.CourseWithLevels, error) {
	if s.course == nil || s.course.ID != id {
		return nil, store.ErrCourseNotFound
	}
	return s.course, nil
}

func (s *fakeCatalogStore) GetLesson(ctx context.Context, id string) (*store.LessonRecord, error) {
	if s.lesson == nil || s.lesson.ID != id {
		return nil, store.ErrLessonNotFound
	}
	return s.lesson, nil
}

func (s *fakeCatalogStore) ListLevelLessons(ctx context.Context, levelID string) ([]domain.Lesson, error) {
	if levelID != "L1" {
		return nil, store.ErrLevelNotFound
	}
	return s.lessons, nil
}

func TestCatalogService(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalogStore{
		categories: []domain.Category{{ID: "b", OrderIndex: 1}, {ID: "a", OrderIndex: 0}},
		courses: []domain.Course{
			{ID: "c1", CategoryID: "a", IsRecommended: true},
			{ID: "c2", CategoryID: "b"},
		},
		course: &domain.CourseWithLevels{
			Course: domain.Course{ID: "c1"},
			Levels: []domain.Level{
				{ID: "L2", OrderIndex: 1},
				{ID: "L1", OrderIndex: 0, Lessons: []domain.Lesson{{ID: "y", OrderIndex: 1}, {ID: "x", OrderIndex: 0}}},
			},
		},
		lessons: []domain.Lesson{{ID: "y", OrderIndex: 1}, {ID: "x", OrderIndex: 0}},
	}
	l, _ := logger.NewTestLogger()
	svc := NewCatalogService(catalog, l)
	ctx := context.Background()

	categories, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", categories[0].ID)

	courses, err := svc.Courses(ctx, "b")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "c2", courses[0].ID)

	recommended, err := svc.RecommendedCourses(ctx)
	require.NoError(t, err)
	require.Len(t, recommended, 1)

	course, err := svc.Course(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "L1", course.Levels[0].ID)
	assert.Equal(t, "x", course.Levels[0].Lessons[0].ID)

	_, err = svc.Course(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrCourseNotFound)

	lessons, err := svc.LevelLessons(ctx, "L1")
	require.NoError(t, err)
	assert.Equal(t, "x", lessons[0].ID)

	_, err = svc.LevelLessons(ctx, "L9")
	assert.ErrorIs(t, err, store.ErrLevelNotFound)
}

func TestCatalogServiceLessonLogsPlaceholders(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalogStore{
		lesson: &store.LessonRecord{
			Lesson: domain.Lesson{ID: "lesson-1", LevelID: "L1"},
			Content: []store.ContentRecord{
				{ID: "c1", LessonID: "lesson-1", OrderIndex: 0, ContentType: "text", Data: json.RawMessage(`{"type":"text","text":"hi"}`)},
				{ID: "", LessonID: "lesson-1", OrderIndex: 1, ContentType: "text", Data: json.RawMessage(`{"type":"text","text":"x"}`)},
			},
		},
	}
	l, buf := logger.NewTestLogger()
	svc := NewCatalogService(catalog, l)

	lesson, err := svc.Lesson(context.Background(), "lesson-1")
	require.NoError(t, err)
	assert.Len(t, lesson.Content, 2)
	assert.Equal(t, `{"type":"text","text":"hi"}`, string(lesson.Content[0].Data))
	assert.Contains(t, buf.String(), "placeholder")

	_, err = svc.Lesson(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrLessonNotFound)
}
