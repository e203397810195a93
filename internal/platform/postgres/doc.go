// Package postgres implements the internal/store interfaces on PostgreSQL
// through database/sql and the pgx driver. The schema and a seed catalog are
// embedded as goose migrations.
package postgres
