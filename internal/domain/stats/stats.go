// Package stats projects server-reported user stats into display values.
// Streak continuity and energy regeneration are owned by the server; this
// package never computes them.
package stats

import "github.com/phrazzld/bloom/internal/domain"

// DefaultEnergy is shown before any stats have been fetched.
const DefaultEnergy = 5

// DisplayStats are the values shown in the learner's header.
type DisplayStats struct {
	StreakCount int
	Energy      int
}

// Defaults returns the values shown before the first successful fetch.
func Defaults() DisplayStats {
	return DisplayStats{Energy: DefaultEnergy}
}

// DeriveDisplayStats projects raw stats. A missing streak counts as zero.
// Nil stats yield the zero projection.
func DeriveDisplayStats(raw *domain.UserStats) DisplayStats {
	if raw == nil {
		return DisplayStats{}
	}
	ds := DisplayStats{Energy: raw.Energy}
	if raw.Streak != nil {
		ds.StreakCount = raw.Streak.CurrentStreak
	}
	return ds
}

// WithEnergy returns a copy with the energy replaced by a server-returned
// balance.
func (d DisplayStats) WithEnergy(energy int) DisplayStats {
	d.Energy = energy
	return d
}
