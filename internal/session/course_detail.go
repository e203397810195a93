package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/bloom/internal/domain"
	"github.com/phrazzld/bloom/internal/domain/progression"
	"github.com/phrazzld/bloom/internal/domain/stats"
	"github.com/phrazzld/bloom/internal/gateway"
	"github.com/phrazzld/bloom/internal/platform/logger"
	"github.com/phrazzld/bloom/internal/redact"
	"golang.org/x/sync/errgroup"
)

// CourseDetail is a course with the learner's lock state for each lesson.
type CourseDetail struct {
	gateway gateway.Gateway
	engine  progression.Service
	logger  *slog.Logger

	course   *domain.CourseWithLevels
	progress progression.Index
	state    *progression.CourseState
	stats    stats.DisplayStats
}

// NewCourseDetail creates an empty CourseDetail. A nil engine uses the
// default progression rules.
func NewCourseDetail(gw gateway.Gateway, engine progression.Service, logger *slog.Logger) *CourseDetail {
	if gw == nil {
		panic("gateway cannot be nil")
	}
	if engine == nil {
		engine = progression.NewDefaultService()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CourseDetail{
		gateway: gw,
		engine:  engine,
		logger:  logger.With(slog.String("component", "course_detail")),
		stats:   stats.Defaults(),
	}
}

// Load fetches the course, then its progress and the user's stats
// concurrently. Only a failure to fetch the course is returned.
func (d *CourseDetail) Load(ctx context.Context, courseID string) error {
	log := logger.FromContextOrDefault(ctx, d.logger).With(slog.String("course_id", courseID))

	course, err := d.gateway.Course(ctx, courseID)
	if err != nil {
		return fmt.Errorf("failed to load course: %w", err)
	}

	var (
		records []domain.UserProgress
		raw     *domain.UserStats
		g       errgroup.Group
	)
	g.Go(func() error {
		r, err := d.gateway.CourseProgress(ctx, courseID)
		if err != nil {
			log.Info("progress not available", slog.String("error", redact.Error(err)))
			return nil
		}
		records = r
		return nil
	})
	g.Go(func() error {
		s, err := d.gateway.UserStats(ctx)
		if err != nil {
			log.Info("stats not available", slog.String("error", redact.Error(err)))
			return nil
		}
		raw = s
		return nil
	})
	_ = g.Wait()

	d.course = course
	d.progress = progression.NewIndex(records)
	d.stats = stats.Defaults()
	if raw != nil {
		d.stats = stats.DeriveDisplayStats(raw)
	}

	d.state = d.engine.Evaluate(course, d.progress)
	for _, v := range d.state.Violations {
		log.Warn("course structure violation", slog.String("violation", v.Error()))
	}
	return nil
}

// Course returns the loaded course, or nil before Load succeeds.
func (d *CourseDetail) Course() *domain.CourseWithLevels {
	return d.course
}

// State returns the evaluated course, or nil before Load succeeds.
func (d *CourseDetail) State() *progression.CourseState {
	return d.state
}

// LockState returns the state of the lesson at the given position. Every
// position is Locked before Load succeeds.
func (d *CourseDetail) LockState(levelIndex, lessonIndex int) progression.LockState {
	return d.engine.LockState(d.course, d.progress, levelIndex, lessonIndex)
}

// IsCompleted reports whether the learner completed lessonID.
func (d *CourseDetail) IsCompleted(lessonID string) bool {
	return d.progress.IsCompleted(lessonID)
}

// NextLessonID returns the lesson to continue with.
func (d *CourseDetail) NextLessonID() (string, bool) {
	return d.engine.NextActionableLesson(d.course, d.progress)
}

func (d *CourseDetail) StreakCount() int {
	return d.stats.StreakCount
}

func (d *CourseDetail) Energy() int {
	return d.stats.Energy
}
