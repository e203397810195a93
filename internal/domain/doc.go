// Package domain contains the reference data and progress entities of the
// learning app: the course catalog (categories, courses, levels, lessons),
// per-user lesson progress, user stats and user identity.
//
// The types carry the wire shape used by the gateway: snake_case keys for
// catalog and progress records, camelCase keys for stats and the progress
// update body. Lesson content payloads live in the content subpackage.
package domain
