package domain

import (
	"time"
)

// ActivityDateLayout is the calendar-date layout of Streak.LastActivityDate.
const ActivityDateLayout = "2006-01-02"

// UserProgress is the server-authoritative completion record of one lesson
// for one user. There is at most one record per (user, lesson).
type UserProgress struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	LessonID    string     `json:"lesson_id"`
	Completed   bool       `json:"completed"`
	Score       *int       `json:"score,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ProgressUpdate is the client's write request for a lesson's progress.
type ProgressUpdate struct {
	LessonID  string `json:"lessonId"`
	Completed *bool  `json:"completed,omitempty"`
	Score     *int   `json:"score,omitempty"`
}

// Validate checks the update before it is sent or applied.
func (u *ProgressUpdate) Validate() error {
	if u.LessonID == "" {
		return ErrEmptyLessonID
	}
	if u.Score != nil && *u.Score < 0 {
		return ErrInvalidScore
	}
	return nil
}

// UserStats is the server-computed summary used for display.
type UserStats struct {
	Streak           *Streak `json:"streak"`
	Energy           int     `json:"energy"`
	CompletedLessons int     `json:"completedLessons"`
	TotalScore       int     `json:"totalScore"`
}

// Streak tracks consecutive days of activity.
type Streak struct {
	CurrentStreak    int    `json:"currentStreak"`
	LongestStreak    int    `json:"longestStreak"`
	LastActivityDate string `json:"lastActivityDate,omitempty"`
}

// RecordActivity advances the streak for activity on the calendar day of now
// (in now's location). Activity on the same day leaves the streak unchanged,
// activity on the following day extends it and any longer gap restarts it
// at one. LongestStreak never decreases.
func (s *Streak) RecordActivity(now time.Time) {
	today := now.Format(ActivityDateLayout)
	if s.LastActivityDate == today {
		return
	}

	last, err := time.ParseInLocation(ActivityDateLayout, s.LastActivityDate, now.Location())
	yesterday := now.AddDate(0, 0, -1).Format(ActivityDateLayout)
	if err == nil && last.Format(ActivityDateLayout) == yesterday {
		s.CurrentStreak++
	} else {
		s.CurrentStreak = 1
	}

	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
	s.LastActivityDate = today
}

// SpendEnergy returns the balance left after spending amount, or an error
// when the amount is not positive or exceeds the balance.
func SpendEnergy(balance, amount int) (int, error) {
	if amount < 1 {
		return balance, ErrInvalidEnergyAmount
	}
	if amount > balance {
		return balance, ErrInsufficientEnergy
	}
	return balance - amount, nil
}
