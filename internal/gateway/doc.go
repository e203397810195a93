// Package gateway is the client of the Bloom learning API. It fetches
// catalog content and progress, issues progress and energy writes and
// classifies every failure as a fetch error (see IsFetchError).
//
// Lessons are decoded through the content schema decoder so malformed
// content items degrade to placeholders instead of failing the lesson.
package gateway
