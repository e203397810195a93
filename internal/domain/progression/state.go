package progression

import "fmt"

// LockState is the availability of a lesson to the learner.
type LockState int

const (
	// Locked lessons cannot be started yet.
	Locked LockState = iota
	// Unlocked lessons can be started.
	Unlocked
	// Completed lessons have been finished and can be reviewed.
	Completed
)

func (s LockState) String() string {
	switch s {
	case Locked:
		return "locked"
	case Unlocked:
		return "unlocked"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("LockState(%d)", int(s))
	}
}

// Accessible reports whether the lesson can be opened.
func (s LockState) Accessible() bool {
	return s == Unlocked || s == Completed
}

// ViolationKind classifies a structural problem found while evaluating a
// course.
type ViolationKind string

const (
	// ViolationNoCourse means no course was supplied.
	ViolationNoCourse ViolationKind = "no_course"
	// ViolationEmptyLevel means a level has no lessons. Lessons of the level
	// after it have no predecessor and stay locked.
	ViolationEmptyLevel ViolationKind = "empty_level"
	// ViolationOutOfRange means a position outside the course was queried.
	ViolationOutOfRange ViolationKind = "position_out_of_range"
)

// InvariantViolation describes a course shape the engine could not evaluate
// normally. Affected positions degrade to Locked.
type InvariantViolation struct {
	Kind        ViolationKind
	LevelIndex  int
	LessonIndex int
	LevelID     string
}

func (v InvariantViolation) Error() string {
	switch v.Kind {
	case ViolationEmptyLevel:
		return fmt.Sprintf("level %d (%s) has no lessons", v.LevelIndex, v.LevelID)
	case ViolationOutOfRange:
		return fmt.Sprintf("position (%d, %d) is outside the course", v.LevelIndex, v.LessonIndex)
	default:
		return "course is missing"
	}
}

// LessonState is the evaluated state of one lesson.
type LessonState struct {
	LessonID    string
	LevelIndex  int
	LessonIndex int
	State       LockState
}

// CourseState is the evaluated state of a whole course.
type CourseState struct {
	// Levels holds the lesson states per level, in course order.
	Levels [][]LessonState
	// NextLessonID is the lesson to continue with; empty when the course has
	// no lessons.
	NextLessonID string
	// Completed and Total count lessons.
	Completed int
	Total     int
	// Violations lists structural problems; affected lessons are Locked.
	Violations []InvariantViolation
}

// Lesson returns the state of the lesson with the given ID.
func (s *CourseState) Lesson(lessonID string) (LessonState, bool) {
	for _, level := range s.Levels {
		for _, ls := range level {
			if ls.LessonID == lessonID {
				return ls, true
			}
		}
	}
	return LessonState{}, false
}

// Fraction returns the completed share of the course in [0, 1].
func (s *CourseState) Fraction() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total)
}

// AllCompleted reports whether every lesson of a non-empty course is done.
func (s *CourseState) AllCompleted() bool {
	return s.Total > 0 && s.Completed == s.Total
}
