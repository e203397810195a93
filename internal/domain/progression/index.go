package progression

import "github.com/phrazzld/bloom/internal/domain"

// Index is a lookup of progress records by lesson ID. When several records
// exist for the same lesson, the later one in the input supersedes the
// earlier ones.
type Index struct {
	records map[string]domain.UserProgress
}

// NewIndex builds an Index from progress records in the order received.
func NewIndex(progress []domain.UserProgress) Index {
	records := make(map[string]domain.UserProgress, len(progress))
	for _, p := range progress {
		records[p.LessonID] = p
	}
	return Index{records: records}
}

// IsCompleted reports whether the lesson has a record with Completed set.
func (i Index) IsCompleted(lessonID string) bool {
	p, ok := i.records[lessonID]
	return ok && p.Completed
}

// Record returns the effective progress record for the lesson.
func (i Index) Record(lessonID string) (domain.UserProgress, bool) {
	p, ok := i.records[lessonID]
	return p, ok
}

// Len returns the number of lessons with a record.
func (i Index) Len() int {
	return len(i.records)
}
