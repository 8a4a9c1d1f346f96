package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the planner service.
// Environment variables are automatically parsed from the PLANNER_ prefix.
type Config struct {
	// Build target selects high-level environment: local, cloud
	BuildTarget string `envconfig:"BUILD_TARGET" default:"local"`

	// Derived or override driver: sqlite, postgres
	DBDriver string `envconfig:"DB_DRIVER" default:"auto"`

	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Postgres Configuration
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// SQLite Configuration (local build target)
	SQLitePath string `envconfig:"SQLITE_PATH" default:"planner.db"`

	// AI provider (OpenAI-compatible chat-completion endpoint)
	AIBaseURL string `envconfig:"AI_BASE_URL" default:"http://localhost:11434/v1"`
	AIAPIKey  string `envconfig:"AI_API_KEY" default:""`
	AIModel   string `envconfig:"AI_MODEL" default:"llama3.1"`

	// Auth
	AuthEnabled bool `envconfig:"AUTH_ENABLED" default:"false"`

	// Health checking
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`

	// Change bus buffer per subscriber
	EventBufferSize int `envconfig:"EVENT_BUFFER_SIZE" default:"64"`
}

// ResolveDefaults validates BuildTarget and derives DBDriver when set to "auto" or empty.
func (c *Config) ResolveDefaults() error {
	var defaultDB string

	switch c.BuildTarget {
	case "local":
		defaultDB = "sqlite"
	case "cloud":
		defaultDB = "postgres"
	default:
		return fmt.Errorf("unsupported BUILD_TARGET: %s", c.BuildTarget)
	}

	if c.DBDriver == "" || c.DBDriver == "auto" {
		c.DBDriver = defaultDB
	}

	allowedDB := map[string]bool{"sqlite": true, "postgres": true}
	if !allowedDB[c.DBDriver] {
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.DBDriver == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("PLANNER_POSTGRES_DSN is required for the postgres driver")
	}
	return nil
}

// New creates a new Config by parsing environment variables.
// Environment variables should be prefixed with PLANNER_
// Example: PLANNER_HTTP_PORT, PLANNER_POSTGRES_DSN
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("PLANNER", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Str("ai_base_url", cfg.AIBaseURL).
		Str("ai_model", cfg.AIModel).
		Bool("auth_enabled", cfg.AuthEnabled).
		Str("postgres_dsn_present", func() string {
			if cfg.PostgresDSN != "" {
				return "true"
			}
			return "false"
		}()).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing
func NewForTesting() *Config {
	cfg := &Config{
		Environment: EnvTesting,
	}

	cfg.HTTPPort = 8080
	cfg.BuildTarget = "local"
	cfg.DBDriver = "auto"
	cfg.SQLitePath = ":memory:"

	cfg.AIBaseURL = "http://localhost:11434/v1"
	cfg.AIModel = "llama3.1"

	cfg.HealthIntervalSeconds = 30
	cfg.HealthProbeTimeoutSeconds = 2
	cfg.EventBufferSize = 64

	return cfg
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// IsDevMode returns true when the service runs without a real auth provider.
func (c *Config) IsDevMode() bool {
	return !c.IsProduction()
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
