// Package config defines configuration parsing and helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
)

// Config holds all application configuration parsed from environment variables.
// It is shared by the intake CLI and the gateway; each process reads the
// fields relevant to it.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"dev"`

	// APIBaseURL switches the client to direct mode when set. It must then be
	// an absolute URL including scheme and path prefix. Empty selects proxy
	// mode against the fixed /api/v1 relative path.
	APIBaseURL string `env:"API_BASE_URL" validate:"omitempty,url"`
	// Origin is the page origin used to reconstruct attempted URLs in
	// network-failure diagnostics for proxy-mode requests.
	Origin      string        `env:"ORIGIN" envDefault:"http://localhost:5173" validate:"url"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	// ProbeMaxElapsed bounds the backoff retries of the startup connectivity
	// probe. The probe is informational and never gates submissions.
	ProbeMaxElapsed time.Duration `env:"PROBE_MAX_ELAPSED" envDefault:"5s"`

	// Gateway process
	Port                  int           `env:"PORT" envDefault:"5173"`
	BackendURL            string        `env:"BACKEND_URL" envDefault:"http://127.0.0.1:8000" validate:"url"`
	WebDir                string        `env:"WEB_DIR" envDefault:"web"`
	CORSAllowOrigins      string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	RateLimitPerMin       int           `env:"RATE_LIMIT_PER_MIN" envDefault:"30"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`

	// Observability
	OTLPEndpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	OTELServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"eligibility-intake"`
}

// Load parses environment variables into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	return cfg, nil
}

// IsDev reports whether the app is running in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// IsProd reports whether the app is running in production mode.
func (c Config) IsProd() bool { return strings.ToLower(c.AppEnv) == "prod" }
