package domain

import (
	"errors"
	"sort"
)

// Catalog validation errors
var (
	ErrEmptyCourseID   = errors.New("course ID cannot be empty")
	ErrEmptyCategoryID = errors.New("course category ID cannot be empty")
	ErrEmptyLevelID    = errors.New("level ID cannot be empty")
	ErrEmptyLessonID   = errors.New("lesson ID cannot be empty")
	ErrEmptyTitle      = errors.New("title cannot be empty")
)

// LessonTypeExercise is the kind tag of lessons that are exercises rather
// than reading lessons.
const LessonTypeExercise = "exercise"

// Category groups courses in the catalog.
type Category struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	IconURL    string `json:"icon_url,omitempty"`
	OrderIndex int    `json:"order_index"`
}

// Course is a catalog entry. Levels are only present on CourseWithLevels.
type Course struct {
	ID            string   `json:"id"`
	CategoryID    string   `json:"category_id"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	IconURL       string   `json:"icon_url,omitempty"`
	ThemeColor    string   `json:"theme_color,omitempty"`
	LessonCount   int      `json:"lesson_count"`
	ExerciseCount int      `json:"exercise_count"`
	IsRecommended bool     `json:"is_recommended"`
	Collaborators []string `json:"collaborators,omitempty"`
	OrderIndex    int      `json:"order_index"`
}

// Validate checks the identity and title of the course.
func (c *Course) Validate() error {
	if c.ID == "" {
		return ErrEmptyCourseID
	}
	if c.CategoryID == "" {
		return ErrEmptyCategoryID
	}
	if c.Title == "" {
		return ErrEmptyTitle
	}
	return nil
}

// CourseWithLevels is a course together with its ordered levels.
type CourseWithLevels struct {
	Course
	Levels []Level `json:"levels"`
}

// Level is an ordered group of lessons within a course.
type Level struct {
	ID         string   `json:"id"`
	CourseID   string   `json:"course_id"`
	Title      string   `json:"title"`
	OrderIndex int      `json:"order_index"`
	Lessons    []Lesson `json:"lessons"`
}

// Lesson is the unit of unlock and completion.
type Lesson struct {
	ID         string `json:"id"`
	LevelID    string `json:"level_id"`
	Title      string `json:"title"`
	IconURL    string `json:"icon_url,omitempty"`
	Type       string `json:"type"`
	OrderIndex int    `json:"order_index"`
}

// IsExercise reports whether the lesson is tagged as an exercise.
func (l Lesson) IsExercise() bool {
	return l.Type == LessonTypeExercise
}

// Validate checks that the lesson carries its identity.
func (l *Lesson) Validate() error {
	if l.ID == "" {
		return ErrEmptyLessonID
	}
	if l.LevelID == "" {
		return ErrEmptyLevelID
	}
	return nil
}

// LessonCount returns the number of lessons across all levels.
func (c *CourseWithLevels) LessonCount() int {
	n := 0
	for _, level := range c.Levels {
		n += len(level.Lessons)
	}
	return n
}

// FirstLessonID returns the ID of the first lesson of the first non-empty
// level, or false when the course has no lessons.
func (c *CourseWithLevels) FirstLessonID() (string, bool) {
	for _, level := range c.Levels {
		if len(level.Lessons) > 0 {
			return level.Lessons[0].ID, true
		}
	}
	return "", false
}

// SortCourse orders levels and the lessons within each level by their
// OrderIndex. The sort is stable so equal indexes keep their server order.
func SortCourse(c *CourseWithLevels) {
	if c == nil {
		return
	}
	sort.SliceStable(c.Levels, func(i, j int) bool {
		return c.Levels[i].OrderIndex < c.Levels[j].OrderIndex
	})
	for i := range c.Levels {
		SortLessons(c.Levels[i].Lessons)
	}
}

// SortLessons orders lessons by OrderIndex in place.
func SortLessons(lessons []Lesson) {
	sort.SliceStable(lessons, func(i, j int) bool {
		return lessons[i].OrderIndex < lessons[j].OrderIndex
	})
}

// SortCategories orders categories by OrderIndex in place.
func SortCategories(categories []Category) {
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].OrderIndex < categories[j].OrderIndex
	})
}
