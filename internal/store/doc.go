// Package store defines the persistence interfaces used by the Bloom
// services: users, the course catalog and per-user progress. Implementations
// live in internal/platform/postgres; the interfaces keep the services free
// of SQL so they can be tested with in-memory fakes.
package store
