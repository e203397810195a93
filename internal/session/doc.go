// Package session holds the state of one learner-facing screen: a course
// detail, a lesson being played, the catalog and the home feed. Each value
// has a single owner and is not safe for concurrent mutation; only the
// fetches it issues internally overlap.
//
// Primary content failures are returned to the caller. Progress and stats
// are soft: a failed fetch is logged and the session shows the course as
// not started with default stats.
package session
