package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every configuration environment variable.
const EnvPrefix = "BLOOM"

// Defaults for optional settings.
const (
	DefaultPort                 = 8080
	DefaultLogLevel             = "info"
	DefaultTokenLifetimeMinutes = 60 * 24 * 30
	DefaultBCryptCost           = 10
	DefaultGatewayBaseURL       = "http://localhost:8080/api"
	DefaultGatewayTimeout       = 30
	DefaultInitialEnergy        = 5
)

// keys lists every setting so it can be bound to its environment variable
// even when no config file mentions it.
var keys = []string{
	"server.port",
	"server.log_level",
	"database.url",
	"auth.jwt_secret",
	"auth.token_lifetime_minutes",
	"auth.bcrypt_cost",
	"gateway.base_url",
	"gateway.timeout_seconds",
	"energy.initial",
}

// Load configuration from environment variables and optionally a
// config.yaml in the working directory.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file. An empty path searches the
// working directory for config.yaml, which is optional.
func LoadFile(path string) (*Config, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadGateway loads and validates only the gateway client settings, for
// processes that talk to the API but do not serve it.
func LoadGateway(path string) (*GatewayConfig, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg.Gateway); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg.Gateway, nil
}

func newViper(path string) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.log_level", DefaultLogLevel)
	v.SetDefault("auth.token_lifetime_minutes", DefaultTokenLifetimeMinutes)
	v.SetDefault("auth.bcrypt_cost", DefaultBCryptCost)
	v.SetDefault("gateway.base_url", DefaultGatewayBaseURL)
	v.SetDefault("gateway.timeout_seconds", DefaultGatewayTimeout)
	v.SetDefault("energy.initial", DefaultInitialEnergy)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal only sees keys viper knows about, so bind them explicitly
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding environment variable for %s: %w", key, err)
		}
	}

	return v, nil
}
