package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/bloom/internal/domain"
	"github.com/phrazzld/bloom/internal/domain/stats"
	"github.com/phrazzld/bloom/internal/gateway"
)

// Home is the learner's landing feed: recommended courses, the details of
// the selected one and the header stats.
type Home struct {
	gateway gateway.Gateway
	logger  *slog.Logger

	recommended []domain.Course
	selected    int
	details     *domain.CourseWithLevels
	stats       stats.DisplayStats
}

// NewHome creates an empty Home showing default stats.
func NewHome(gw gateway.Gateway, logger *slog.Logger) *Home {
	if gw == nil {
		panic("gateway cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Home{
		gateway: gw,
		logger:  logger.With(slog.String("component", "home")),
		stats:   stats.Defaults(),
	}
}

// Load fetches the recommended courses and the details of the first one.
func (h *Home) Load(ctx context.Context) error {
	courses, err := h.gateway.RecommendedCourses(ctx)
	if err != nil {
		return fmt.Errorf("failed to load recommended courses: %w", err)
	}
	h.recommended = courses
	h.selected = 0
	h.details = nil

	if len(courses) == 0 {
		return nil
	}
	return h.loadDetails(ctx, courses[0].ID)
}

// SelectCourse selects the recommended course at index and fetches its
// details.
func (h *Home) SelectCourse(ctx context.Context, index int) error {
	if index < 0 || index >= len(h.recommended) {
		return ErrOutOfRange
	}
	h.selected = index
	return h.loadDetails(ctx, h.recommended[index].ID)
}

func (h *Home) loadDetails(ctx context.Context, courseID string) error {
	details, err := h.gateway.Course(ctx, courseID)
	if err != nil {
		return fmt.Errorf("failed to load course: %w", err)
	}
	h.details = details
	return nil
}

func (h *Home) Recommended() []domain.Course {
	return h.recommended
}

// SelectedCourse returns the selected recommended course.
func (h *Home) SelectedCourse() (domain.Course, bool) {
	if h.selected >= len(h.recommended) {
		return domain.Course{}, false
	}
	return h.recommended[h.selected], true
}

// Details returns the selected course with its levels, or nil.
func (h *Home) Details() *domain.CourseWithLevels {
	return h.details
}

// FirstLessonID returns the first lesson of the selected course.
func (h *Home) FirstLessonID() (string, bool) {
	if h.details == nil || len(h.details.Levels) == 0 || len(h.details.Levels[0].Lessons) == 0 {
		return "", false
	}
	return h.details.Levels[0].Lessons[0].ID, true
}

// UpdateStats replaces the header stats with raw.
func (h *Home) UpdateStats(raw *domain.UserStats) {
	h.stats = stats.DeriveDisplayStats(raw)
}

func (h *Home) Stats() stats.DisplayStats {
	return h.stats
}
