package stats

import (
	"testing"

	"github.com/phrazzld/bloom/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestDeriveDisplayStats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  *domain.UserStats
		want DisplayStats
	}{
		{
			name: "nil stats",
			raw:  nil,
			want: DisplayStats{},
		},
		{
			name: "missing streak counts as zero",
			raw:  &domain.UserStats{Energy: 3, CompletedLessons: 4},
			want: DisplayStats{StreakCount: 0, Energy: 3},
		},
		{
			name: "current streak and energy are projected",
			raw: &domain.UserStats{
				Streak: &domain.Streak{CurrentStreak: 6, LongestStreak: 10, LastActivityDate: "2026-10-14"},
				Energy: 0,
			},
			want: DisplayStats{StreakCount: 6, Energy: 0},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, DeriveDisplayStats(tc.raw))
		})
	}
}

func TestDefaultsAndWithEnergy(t *testing.T) {
	t.Parallel()

	d := Defaults()
	assert.Equal(t, DisplayStats{Energy: DefaultEnergy}, d)

	updated := DisplayStats{StreakCount: 2, Energy: 5}.WithEnergy(4)
	assert.Equal(t, DisplayStats{StreakCount: 2, Energy: 4}, updated)
}
