// Package config handles configuration loading, parsing, and validation
// from environment variables (prefixed BLOOM_) and an optional YAML file.
// It provides type-safe access to the settings of the API server and of the
// gateway client while keeping configuration details separate from business
// logic.
package config
