package api

import (
	"net/http"
	"testing"

	"github.com/phrazzld/bloom/internal/domain"
	"github.com/phrazzld/bloom/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressHandler_Stats(t *testing.T) {
	t.Parallel()

	progress := &fakeProgressService{stats: &domain.UserStats{
		Streak:           &domain.Streak{CurrentStreak: 2, LongestStreak: 4, LastActivityDate: "2026-10-14"},
		Energy:           5,
		CompletedLessons: 3,
		TotalScore:       240,
	}}
	h := NewProgressHandler(progress, nil)

	rr := serve(t, http.MethodGet, "/progress/stats", "/progress/stats", "", testUserID, h.Stats)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{
		"success": true,
		"data": {
			"stats": {
				"streak": {"currentStreak": 2, "longestStreak": 4, "lastActivityDate": "2026-10-14"},
				"energy": 5,
				"completedLessons": 3,
				"totalScore": 240
			}
		}
	}`, rr.Body.String())
	assert.Equal(t, testUserID, progress.userID)
}

func TestProgressHandler_RequiresUser(t *testing.T) {
	t.Parallel()

	h := NewProgressHandler(&fakeProgressService{}, nil)

	rr := serve(t, http.MethodGet, "/progress/stats", "/progress/stats", "", "", h.Stats)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = serve(t, http.MethodPost, "/progress/update", "/progress/update", `{"lessonId":"l1"}`, "", h.UpdateProgress)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestProgressHandler_CourseProgress(t *testing.T) {
	t.Parallel()

	t.Run("empty list serializes as array", func(t *testing.T) {
		t.Parallel()

		progress := &fakeProgressService{}
		h := NewProgressHandler(progress, nil)

		rr := serve(t, http.MethodGet, "/progress/course/{id}", "/progress/course/course-logic", "", testUserID,
			h.CourseProgress)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"success":true,"data":{"progress":[]}}`, rr.Body.String())
		assert.Equal(t, "course-logic", progress.courseID)
	})
}

func TestProgressHandler_LessonProgress(t *testing.T) {
	t.Parallel()

	t.Run("never started yields null progress", func(t *testing.T) {
		t.Parallel()

		h := NewProgressHandler(&fakeProgressService{}, nil)

		rr := serve(t, http.MethodGet, "/progress/lesson/{id}", "/progress/lesson/lesson-logic-1", "", testUserID,
			h.LessonProgress)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"success":true,"data":{"progress":null}}`, rr.Body.String())
	})

	t.Run("existing record", func(t *testing.T) {
		t.Parallel()

		score := 90
		h := NewProgressHandler(&fakeProgressService{record: &domain.UserProgress{
			ID: "p1", UserID: testUserID, LessonID: "lesson-logic-1", Completed: true, Score: &score,
		}}, nil)

		rr := serve(t, http.MethodGet, "/progress/lesson/{id}", "/progress/lesson/lesson-logic-1", "", testUserID,
			h.LessonProgress)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"score":90`)
	})
}

func TestProgressHandler_UpdateProgress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "completion",
			body:           `{"lessonId":"lesson-logic-1","completed":true,"score":80}`,
			expectedStatus: http.StatusOK,
			expectedBody:   `"completed":true`,
		},
		{
			name:           "missing lesson id",
			body:           `{"completed":true}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   domain.ErrEmptyLessonID.Error(),
		},
		{
			name:           "negative score",
			body:           `{"lessonId":"lesson-logic-1","score":-1}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   domain.ErrInvalidScore.Error(),
		},
		{
			name:           "unknown lesson",
			body:           `{"lessonId":"nope","completed":true}`,
			serviceErr:     store.ErrLessonNotFound,
			expectedStatus: http.StatusNotFound,
			expectedBody:   "Lesson not found",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			progress := &fakeProgressService{
				record: &domain.UserProgress{ID: "p1", UserID: testUserID, LessonID: "lesson-logic-1", Completed: true},
				err:    tc.serviceErr,
			}
			h := NewProgressHandler(progress, nil)

			rr := serve(t, http.MethodPost, "/progress/update", "/progress/update", tc.body, testUserID,
				h.UpdateProgress)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.expectedBody)
		})
	}
}

func TestProgressHandler_ConsumeEnergy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedAmount int
		expectedBody   string
	}{
		{
			name:           "explicit amount",
			body:           `{"amount":2}`,
			expectedStatus: http.StatusOK,
			expectedAmount: 2,
			expectedBody:   `{"success":true,"data":{"energy":4}}`,
		},
		{
			name:           "empty body",
			expectedStatus: http.StatusOK,
			expectedAmount: 0,
			expectedBody:   `{"success":true,"data":{"energy":4}}`,
		},
		{
			name:           "insufficient energy",
			body:           `{"amount":9}`,
			serviceErr:     domain.ErrInsufficientEnergy,
			expectedStatus: http.StatusBadRequest,
			expectedAmount: 9,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			progress := &fakeProgressService{energy: 4, err: tc.serviceErr}
			h := NewProgressHandler(progress, nil)

			rr := serve(t, http.MethodPost, "/progress/energy/consume", "/progress/energy/consume", tc.body,
				testUserID, h.ConsumeEnergy)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Equal(t, tc.expectedAmount, progress.amount)
			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			} else {
				assert.Contains(t, rr.Body.String(), `"message":"insufficient energy"`)
			}
		})
	}
}
