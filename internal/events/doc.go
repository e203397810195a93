// Package events decouples session writes from the components that react
// to them. A lesson player emits StatsInvalidated after a successful
// progress or energy write; the stats refresher handles it by re-fetching
// the server's stats.
package events
