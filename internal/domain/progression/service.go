package progression

import "github.com/phrazzld/bloom/internal/domain"

// Service defines the lock-state queries over a course.
type Service interface {
	// LockState returns the state of the lesson at (levelIndex, lessonIndex).
	// Positions that do not address a lesson, including every position of an
	// empty level and any position of a nil course, are Locked.
	LockState(course *domain.CourseWithLevels, progress Index, levelIndex, lessonIndex int) LockState

	// NextActionableLesson returns the first lesson in course order that is
	// not Completed. When every lesson is Completed it returns the first
	// lesson of the course so the learner can review. It reports false when
	// the course has no lessons.
	NextActionableLesson(course *domain.CourseWithLevels, progress Index) (string, bool)

	// Evaluate returns the state of every lesson along with the next lesson,
	// completion counts and any structural violations found.
	Evaluate(course *domain.CourseWithLevels, progress Index) *CourseState
}

// defaultService is the standard implementation of the Service interface
type defaultService struct{}

// NewDefaultService creates a new progression service
func NewDefaultService() Service {
	return &defaultService{}
}

func (s *defaultService) LockState(
	course *domain.CourseWithLevels,
	progress Index,
	levelIndex, lessonIndex int,
) LockState {
	state, _ := lockState(course, progress, levelIndex, lessonIndex)
	return state
}

func (s *defaultService) NextActionableLesson(
	course *domain.CourseWithLevels,
	progress Index,
) (string, bool) {
	return nextActionable(course, progress)
}

func (s *defaultService) Evaluate(course *domain.CourseWithLevels, progress Index) *CourseState {
	return evaluate(course, progress)
}
