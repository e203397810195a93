package session

import (
	"context"
	"errors"
	"sync"

	"github.com/phrazzld/bloom/internal/domain"
	"github.com/phrazzld/bloom/internal/domain/content"
	"github.com/phrazzld/bloom/internal/gateway"
)

var errNotStubbed = errors.New("not stubbed")

// fakeGateway serves canned values. Reads may run concurrently, so calls
// are recorded under a mutex.
type fakeGateway struct {
	categories  []domain.Category
	courses     map[string][]domain.Course
	recommended []domain.Course
	course      map[string]*domain.CourseWithLevels
	lesson      *content.Lesson
	progress    []domain.UserProgress
	stats       *domain.UserStats
	energy      int

	courseErr   error
	lessonErr   error
	progressErr error
	statsErr    error
	updateErr   error
	energyErr   error

	mu    sync.Mutex
	calls []string
}

var _ gateway.Gateway = (*fakeGateway)(nil)

func (f *fakeGateway) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeGateway) called(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeGateway) Register(context.Context, string, string, string) (*domain.AuthResponse, error) {
	return nil, errNotStubbed
}

func (f *fakeGateway) Login(context.Context, string, string) (*domain.AuthResponse, error) {
	return nil, errNotStubbed
}

func (f *fakeGateway) SocialLogin(context.Context, string, string, string, string) (*domain.AuthResponse, error) {
	return nil, errNotStubbed
}

func (f *fakeGateway) Logout() {}

func (f *fakeGateway) Profile(context.Context) (*domain.User, error) {
	return nil, errNotStubbed
}

func (f *fakeGateway) Categories(context.Context) ([]domain.Category, error) {
	f.record("categories")
	return f.categories, nil
}

func (f *fakeGateway) Courses(_ context.Context, categoryID string) ([]domain.Course, error) {
	f.record("courses:" + categoryID)
	return f.courses[categoryID], nil
}

func (f *fakeGateway) RecommendedCourses(context.Context) ([]domain.Course, error) {
	f.record("recommended")
	return f.recommended, nil
}

func (f *fakeGateway) Course(_ context.Context, id string) (*domain.CourseWithLevels, error) {
	f.record("course:" + id)
	if f.courseErr != nil {
		return nil, f.courseErr
	}
	return f.course[id], nil
}

func (f *fakeGateway) Lesson(_ context.Context, id string) (*content.Lesson, error) {
	f.record("lesson:" + id)
	return f.lesson, f.lessonErr
}

func (f *fakeGateway) LevelLessons(context.Context, string) ([]domain.Lesson, error) {
	return nil, errNotStubbed
}

func (f *fakeGateway) UserStats(context.Context) (*domain.UserStats, error) {
	f.record("stats")
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return f.stats, nil
}

func (f *fakeGateway) CourseProgress(_ context.Context, courseID string) ([]domain.UserProgress, error) {
	f.record("progress:" + courseID)
	return f.progress, f.progressErr
}

func (f *fakeGateway) LessonProgress(context.Context, string) (*domain.UserProgress, error) {
	return nil, errNotStubbed
}

func (f *fakeGateway) UpdateProgress(
	_ context.Context,
	lessonID string,
	completed bool,
	score *int,
) (*domain.UserProgress, error) {
	f.record("update:" + lessonID)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &domain.UserProgress{LessonID: lessonID, Completed: completed, Score: score}, nil
}

func (f *fakeGateway) ConsumeEnergy(_ context.Context, amount int) (int, error) {
	f.record("energy")
	if f.energyErr != nil {
		return 0, f.energyErr
	}
	return f.energy, nil
}

// twoLevelCourse has lessons a1, a2 in the first level and b1 in the second.
func twoLevelCourse() *domain.CourseWithLevels {
	return &domain.CourseWithLevels{
		Course: domain.Course{ID: "course-1", CategoryID: "cat-1", Title: "Logic"},
		Levels: []domain.Level{
			{ID: "level-a", OrderIndex: 0, Lessons: []domain.Lesson{
				{ID: "a1", LevelID: "level-a", OrderIndex: 0},
				{ID: "a2", LevelID: "level-a", OrderIndex: 1},
			}},
			{ID: "level-b", OrderIndex: 1, Lessons: []domain.Lesson{
				{ID: "b1", LevelID: "level-b", OrderIndex: 0},
			}},
		},
	}
}
