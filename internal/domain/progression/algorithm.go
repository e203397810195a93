package progression

import "github.com/phrazzld/bloom/internal/domain"

// visitFunc receives each lesson in course order with its lock state.
// Returning false stops the walk.
type visitFunc func(levelIndex, lessonIndex int, lesson domain.Lesson, state LockState) bool

// walk visits the lessons of course in order, carrying the unlock chain from
// each lesson to its successor. An empty level breaks the chain: the first
// lesson of the following level has no predecessor and stays locked, and so
// does everything after it. Empty levels are reported to onEmpty.
func walk(course *domain.CourseWithLevels, progress Index, visit visitFunc, onEmpty func(int, domain.Level)) {
	prev := Locked
	for li, level := range course.Levels {
		if len(level.Lessons) == 0 {
			if onEmpty != nil {
				onEmpty(li, level)
			}
			prev = Locked
			continue
		}
		for ki, lesson := range level.Lessons {
			state := chainState(li == 0 && ki == 0, prev, progress.IsCompleted(lesson.ID))
			if !visit(li, ki, lesson, state) {
				return
			}
			prev = state
		}
	}
}

// chainState applies the unlock rules to one lesson. The first lesson of the
// course is always reachable; any other lesson is reachable only when its
// predecessor is completed. A reachable lesson with a completion record is
// Completed.
func chainState(first bool, predecessor LockState, completed bool) LockState {
	if !first && predecessor != Completed {
		return Locked
	}
	if completed {
		return Completed
	}
	return Unlocked
}

// positionViolation checks that (levelIndex, lessonIndex) addresses a lesson.
func positionViolation(course *domain.CourseWithLevels, levelIndex, lessonIndex int) *InvariantViolation {
	if course == nil {
		return &InvariantViolation{Kind: ViolationNoCourse, LevelIndex: levelIndex, LessonIndex: lessonIndex}
	}
	if levelIndex < 0 || levelIndex >= len(course.Levels) {
		return &InvariantViolation{Kind: ViolationOutOfRange, LevelIndex: levelIndex, LessonIndex: lessonIndex}
	}
	level := course.Levels[levelIndex]
	if len(level.Lessons) == 0 {
		return &InvariantViolation{Kind: ViolationEmptyLevel, LevelIndex: levelIndex, LessonIndex: lessonIndex, LevelID: level.ID}
	}
	if lessonIndex < 0 || lessonIndex >= len(level.Lessons) {
		return &InvariantViolation{Kind: ViolationOutOfRange, LevelIndex: levelIndex, LessonIndex: lessonIndex, LevelID: level.ID}
	}
	return nil
}

// lockState returns the state of the lesson at the position, or Locked with
// the violation that prevented evaluating it.
func lockState(course *domain.CourseWithLevels, progress Index, levelIndex, lessonIndex int) (LockState, *InvariantViolation) {
	if v := positionViolation(course, levelIndex, lessonIndex); v != nil {
		return Locked, v
	}

	result := Locked
	walk(course, progress, func(li, ki int, _ domain.Lesson, state LockState) bool {
		if li == levelIndex && ki == lessonIndex {
			result = state
			return false
		}
		return true
	}, nil)
	return result, nil
}

// nextActionable returns the first lesson in course order that is not
// Completed, or the course's first lesson when every lesson is Completed.
func nextActionable(course *domain.CourseWithLevels, progress Index) (string, bool) {
	if course == nil {
		return "", false
	}

	next := ""
	found := false
	walk(course, progress, func(_, _ int, lesson domain.Lesson, state LockState) bool {
		if state != Completed {
			next, found = lesson.ID, true
			return false
		}
		return true
	}, nil)
	if found {
		return next, true
	}

	if len(course.Levels) > 0 && len(course.Levels[0].Lessons) > 0 {
		return course.Levels[0].Lessons[0].ID, true
	}
	return "", false
}

// evaluate computes the state of every lesson of the course.
func evaluate(course *domain.CourseWithLevels, progress Index) *CourseState {
	cs := &CourseState{}
	if course == nil {
		cs.Violations = append(cs.Violations, InvariantViolation{Kind: ViolationNoCourse})
		return cs
	}

	cs.Levels = make([][]LessonState, len(course.Levels))
	for li, level := range course.Levels {
		cs.Levels[li] = make([]LessonState, 0, len(level.Lessons))
	}

	walk(course, progress, func(li, ki int, lesson domain.Lesson, state LockState) bool {
		cs.Levels[li] = append(cs.Levels[li], LessonState{
			LessonID:    lesson.ID,
			LevelIndex:  li,
			LessonIndex: ki,
			State:       state,
		})
		cs.Total++
		if state == Completed {
			cs.Completed++
		}
		return true
	}, func(li int, level domain.Level) {
		cs.Violations = append(cs.Violations, InvariantViolation{
			Kind:       ViolationEmptyLevel,
			LevelIndex: li,
			LevelID:    level.ID,
		})
	})

	cs.NextLessonID, _ = nextActionable(course, progress)
	return cs
}
