// Package api is the HTTP adapter of the Bloom reference server. Handlers
// decode and validate requests, call the services and write the
// {success, data, error} envelope. Internal errors are mapped to status
// codes and safe messages in errors.go; details only reach the logs,
// redacted.
package api
