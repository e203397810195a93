package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/bloom/internal/api/shared"
	"github.com/phrazzld/bloom/internal/domain"
	"github.com/phrazzld/bloom/internal/service"
	"github.com/phrazzld/bloom/internal/store"
)

type fakeUserService struct {
	resp     *domain.AuthResponse
	user     *domain.User
	err      error
	identity service.SocialIdentity
	email    string
}

func (f *fakeUserService) Register(_ context.Context, _, email, _ string) (*domain.AuthResponse, error) {
	f.email = email
	return f.resp, f.err
}

func (f *fakeUserService) Login(_ context.Context, email, _ string) (*domain.AuthResponse, error) {
	f.email = email
	return f.resp, f.err
}

func (f *fakeUserService) SocialLogin(_ context.Context, identity service.SocialIdentity) (*domain.AuthResponse, error) {
	f.identity = identity
	return f.resp, f.err
}

func (f *fakeUserService) Profile(_ context.Context, _ string) (*domain.User, error) {
	return f.user, f.err
}

type fakeCatalogService struct {
	categories []domain.Category
	courses    []domain.Course
	course     *domain.CourseWithLevels
	lesson     *store.LessonRecord
	lessons    []domain.Lesson
	err        error
	categoryID string
}

func (f *fakeCatalogService) Categories(context.Context) ([]domain.Category, error) {
	return f.categories, f.err
}

func (f *fakeCatalogService) Courses(_ context.Context, categoryID string) ([]domain.Course, error) {
	f.categoryID = categoryID
	return f.courses, f.err
}

func (f *fakeCatalogService) RecommendedCourses(context.Context) ([]domain.Course, error) {
	return f.courses, f.err
}

func (f *fakeCatalogService) Course(context.Context, string) (*domain.CourseWithLevels, error) {
	return f.course, f.err
}

func (f *fakeCatalogService) Lesson(context.Context, string) (*store.LessonRecord, error) {
	return f.lesson, f.err
}

func (f *fakeCatalogService) LevelLessons(context.Context, string) ([]domain.Lesson, error) {
	return f.lessons, f.err
}

type fakeProgressService struct {
	stats    *domain.UserStats
	records  []domain.UserProgress
	record   *domain.UserProgress
	energy   int
	err      error
	update   domain.ProgressUpdate
	amount   int
	userID   string
	courseID string
}

func (f *fakeProgressService) Stats(_ context.Context, userID string) (*domain.UserStats, error) {
	f.userID = userID
	return f.stats, f.err
}

func (f *fakeProgressService) CourseProgress(_ context.Context, userID, courseID string) ([]domain.UserProgress, error) {
	f.userID, f.courseID = userID, courseID
	return f.records, f.err
}

func (f *fakeProgressService) LessonProgress(_ context.Context, userID, _ string) (*domain.UserProgress, error) {
	f.userID = userID
	return f.record, f.err
}

func (f *fakeProgressService) UpdateProgress(
	_ context.Context,
	userID string,
	update domain.ProgressUpdate,
) (*domain.UserProgress, error) {
	f.userID, f.update = userID, update
	return f.record, f.err
}

func (f *fakeProgressService) ConsumeEnergy(_ context.Context, userID string, amount int) (int, error) {
	f.userID, f.amount = userID, amount
	return f.energy, f.err
}

const testUserID = "8c0d2f4e-1b1a-4f5e-9d7c-3a2b1c0d9e8f"

// serve routes a request through a chi router so path parameters resolve.
// A non-empty userID is placed on the context as the auth middleware would.
func serve(
	t *testing.T,
	method, pattern, target, body, userID string,
	handler http.HandlerFunc,
) *httptest.ResponseRecorder {
	t.Helper()

	r := chi.NewRouter()
	r.MethodFunc(method, pattern, handler)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req = req.WithContext(shared.WithUserID(req.Context(), userID))
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}
