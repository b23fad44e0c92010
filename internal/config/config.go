// Package config loads the application configuration.
//
// Values come from environment variables (optionally from a `.env` file),
// are decoded into structured Go types and validated so the process fails
// fast on bad configuration.
//
// Environment variables use the AUTOTRADER_ prefix and a double underscore
// to separate nesting levels:
//
//	AUTOTRADER_SERVER__PORT=8000              -> server.port
//	AUTOTRADER_OBSERVABILITY__LOGGING__LEVEL  -> observability.logging.level
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	// Loads `.env` into the process environment before any value is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix is the prefix every configuration variable must carry.
	EnvPrefix = "AUTOTRADER_"

	// ServiceName labels logs and traces.
	ServiceName = "autotrader"
)

// Config is the root configuration object for the application.
//
// Observability is a pointer so callers building a Config by hand may leave
// it out; LoadConfig always fills it.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	RateLimit     RateLimitConfig      `koanf:"rate_limit"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required,oneof=development staging production test"`
}

// ServerConfig groups settings for the HTTP server runtime. Timeouts are in
// seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required,numeric"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,min=1"`
	ShutdownTimeout    int      `koanf:"shutdown_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required,min=1"`
}

// RateLimitConfig controls the per-IP request limiter. Disabled by default.
type RateLimitConfig struct {
	Enabled bool `koanf:"enabled"`

	// Rate is the number of requests per second allowed for a single client.
	Rate float64 `koanf:"rate" validate:"required_if=Enabled true,gte=0"`

	// Burst is the number of requests allowed to exceed Rate momentarily.
	Burst int `koanf:"burst" validate:"gte=0"`

	// ExpiresIn is how long, in seconds, an idle client is remembered.
	ExpiresIn int `koanf:"expires_in" validate:"gte=0"`
}

// DefaultConfig returns the configuration used when no variable overrides
// a value.
func DefaultConfig() *Config {
	return &Config{
		Primary: Primary{
			Env: "development",
		},
		Server: ServerConfig{
			Port:               "8000",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			ShutdownTimeout:    30,
			CORSAllowedOrigins: []string{"*"},
		},
		RateLimit: RateLimitConfig{
			Enabled:   false,
			Rate:      10,
			Burst:     30,
			ExpiresIn: 180,
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// envKey maps AUTOTRADER_SERVER__READ_TIMEOUT to server.read_timeout.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// LoadConfig reads the environment on top of DefaultConfig, validates the
// result and fills the observability block.
//
// It returns an error instead of exiting so the caller decides how to fail.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	// Decoding into the defaults keeps them for keys that are not set.
	mainConfig := DefaultConfig()
	err := k.UnmarshalWithConf("", mainConfig, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           mainConfig,
			TagName:          "koanf",
			WeaklyTypedInput: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}
