package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/phrazzld/bloom/internal/domain"
	"github.com/phrazzld/bloom/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogHandler_Courses(t *testing.T) {
	t.Parallel()

	t.Run("forwards category filter", func(t *testing.T) {
		t.Parallel()

		catalog := &fakeCatalogService{courses: []domain.Course{{ID: "course-logic", Title: "Logic"}}}
		h := NewCatalogHandler(catalog, nil)

		rr := serve(t, http.MethodGet, "/courses", "/courses?category_id=cat-math", "", "", h.Courses)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "cat-math", catalog.categoryID)
		assert.Contains(t, rr.Body.String(), `"id":"course-logic"`)
	})

	t.Run("store failure is not leaked", func(t *testing.T) {
		t.Parallel()

		h := NewCatalogHandler(&fakeCatalogService{err: assert.AnError}, nil)

		rr := serve(t, http.MethodGet, "/courses", "/courses", "", "", h.Courses)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), "An unexpected error occurred")
		assert.NotContains(t, rr.Body.String(), assert.AnError.Error())
	})
}

func TestCatalogHandler_Course(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		course         *domain.CourseWithLevels
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "found",
			course: &domain.CourseWithLevels{
				Course: domain.Course{ID: "course-logic", Title: "Logic"},
				Levels: []domain.Level{{ID: "level-1", Lessons: []domain.Lesson{{ID: "lesson-logic-1"}}}},
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"lessons":[{"id":"lesson-logic-1"`,
		},
		{
			name:           "not found",
			err:            store.ErrCourseNotFound,
			expectedStatus: http.StatusNotFound,
			expectedBody:   "Course not found",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			h := NewCatalogHandler(&fakeCatalogService{course: tc.course, err: tc.err}, nil)

			rr := serve(t, http.MethodGet, "/courses/{id}", "/courses/course-logic", "", "", h.Course)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.expectedBody)
		})
	}
}

func TestCatalogHandler_LessonPassesContentThrough(t *testing.T) {
	t.Parallel()

	raw := json.RawMessage(`{"title":"Intro","blocks":[{"type":"text","text":"hi","future_field":7}]}`)
	lesson := &store.LessonRecord{
		Lesson: domain.Lesson{ID: "lesson-logic-1", LevelID: "level-1", Title: "Intro", Type: "lesson"},
		Content: []store.ContentRecord{
			{ID: "c1", LessonID: "lesson-logic-1", ContentType: "page", Data: raw},
		},
	}
	h := NewCatalogHandler(&fakeCatalogService{lesson: lesson}, nil)

	rr := serve(t, http.MethodGet, "/courses/lessons/{id}", "/courses/lessons/lesson-logic-1", "", "", h.Lesson)

	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Data struct {
			Lesson struct {
				Content []struct {
					Data json.RawMessage `json:"content_data"`
				} `json:"content"`
			} `json:"lesson"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Data.Lesson.Content, 1)
	assert.JSONEq(t, string(raw), string(body.Data.Lesson.Content[0].Data))
}

func TestCatalogHandler_ListEndpoints(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalogService{
		categories: []domain.Category{{ID: "cat-math", Name: "Math"}},
		courses:    []domain.Course{{ID: "course-logic", IsRecommended: true}},
		lessons:    []domain.Lesson{{ID: "lesson-logic-1"}},
	}
	h := NewCatalogHandler(catalog, nil)

	rr := serve(t, http.MethodGet, "/courses/categories", "/courses/categories", "", "", h.Categories)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"id":"cat-math"`)

	rr = serve(t, http.MethodGet, "/courses/recommended", "/courses/recommended", "", "", h.RecommendedCourses)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"is_recommended":true`)

	rr = serve(t, http.MethodGet, "/courses/levels/{id}/lessons", "/courses/levels/level-1/lessons", "", "",
		h.LevelLessons)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"id":"lesson-logic-1"`)
}
