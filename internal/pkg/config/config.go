package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ManuelReschke/PostFox/internal/pkg/env"
)

const (
	DefaultBackendURL     = "https://api.postfox.app/v1"
	DefaultInitDeadline   = 10 * time.Second
	DefaultFetchTimeout   = 8 * time.Second
	DefaultCacheTTL       = 5 * time.Minute
	DefaultEventChannel   = "postfox:events"
	DefaultCounterFlush   = 30 * time.Second
	DefaultRequestTimeout = 15 * time.Second
)

// Config is the typed runtime configuration of the entitlement service.
type Config struct {
	AppHost string `validate:"required"`
	AppPort string `validate:"required,numeric"`

	BackendURL     string        `validate:"required,url"`
	BackendToken   string        `validate:"omitempty"`
	RequestTimeout time.Duration `validate:"gt=0"`

	InitDeadline time.Duration `validate:"gt=0"`
	FetchTimeout time.Duration `validate:"gt=0"`
	CacheTTL     time.Duration `validate:"gt=0"`

	EventChannel string        `validate:"required"`
	CounterFlush time.Duration `validate:"gt=0"`

	// Empty DBName disables the database-backed platform registry.
	DBName string
}

var validate = validator.New()

// Load builds the configuration from env and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		AppHost:        env.GetEnv("APP_HOST", "localhost"),
		AppPort:        env.GetEnv("APP_PORT", "4000"),
		BackendURL:     strings.TrimRight(strings.TrimSpace(env.GetEnv("BACKEND_URL", DefaultBackendURL)), "/"),
		BackendToken:   strings.TrimSpace(env.GetEnv("BACKEND_TOKEN", "")),
		RequestTimeout: env.GetEnvDuration("BACKEND_REQUEST_TIMEOUT", DefaultRequestTimeout),
		InitDeadline:   env.GetEnvDuration("ENTITLEMENT_INIT_DEADLINE", DefaultInitDeadline),
		FetchTimeout:   env.GetEnvDuration("ENTITLEMENT_FETCH_TIMEOUT", DefaultFetchTimeout),
		CacheTTL:       env.GetEnvDuration("ENTITLEMENT_CACHE_TTL", DefaultCacheTTL),
		EventChannel:   env.GetEnv("EVENT_CHANNEL", DefaultEventChannel),
		CounterFlush:   env.GetEnvDuration("PROMPT_COUNTER_FLUSH_INTERVAL", DefaultCounterFlush),
		DBName:         strings.TrimSpace(env.GetEnv("DB_NAME", "")),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid field in a readable form.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.AppHost, c.AppPort)
}
