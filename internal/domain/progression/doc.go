// Package progression computes lesson lock states for a course from the
// learner's progress records.
//
// Lessons unlock strictly in course order: the first lesson of the first
// level is always available, and every other lesson becomes available once
// its predecessor (the previous lesson in its level, or the last lesson of
// the previous level) is completed. The package is pure; it never fetches or
// mutates progress.
package progression
