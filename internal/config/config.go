package config

import (
	"fmt"
	"net/url"

	pkgconfig "github.com/cartedge/coursecart/pkg/config"
)

// Config holds all configuration for the booking edge service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"COURSECART_HTTP_PORT" envDefault:"8080"`

	// Storefront backend
	BackendBaseURL string `env:"BACKEND_BASE_URL" envDefault:"http://localhost:8000"`

	// Redis (guest cart storage)
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Guest cart TTL in hours (default: 30 days)
	GuestCartTTL int `env:"GUEST_CART_TTL_HOURS" envDefault:"720"`

	// Kafka
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"true"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// CORS origins for the browser storefront ("*" allows any, development only)
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`

	// Tracing
	TracingEnabled  bool    `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint    string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TraceSampleRate float64 `env:"TRACE_SAMPLE_RATE" envDefault:"0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load coursecart config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.GuestCartTTL < 1 {
		return fmt.Errorf("guest cart TTL must be positive, got %d", c.GuestCartTTL)
	}
	if _, err := url.ParseRequestURI(c.BackendBaseURL); err != nil {
		return fmt.Errorf("invalid backend base URL %q: %w", c.BackendBaseURL, err)
	}
	return nil
}
