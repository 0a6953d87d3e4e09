package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds service configuration read from the environment.
type Config struct {
	Port            int           `env:"PREDICTOR_PORT"            envDefault:"8085"`
	ModelConfigPath string        `env:"PREDICTOR_MODEL_CONFIG"`
	CORSOrigins     []string      `env:"PREDICTOR_CORS_ORIGINS"    envDefault:"*" envSeparator:","`
	RequestTimeout  time.Duration `env:"PREDICTOR_REQUEST_TIMEOUT" envDefault:"30s"`

	RedisURL      string `env:"PREDICTOR_REDIS_URL"`
	RedisPassword string `env:"PREDICTOR_REDIS_PASSWORD"`
	DatabaseURL   string `env:"PREDICTOR_DATABASE_URL"`

	// Placeholder rates answer every fixture no other source knows about.
	UsePlaceholder    bool    `env:"PREDICTOR_USE_PLACEHOLDER"     envDefault:"true"`
	PlaceholderHomeXG float64 `env:"PREDICTOR_PLACEHOLDER_HOME_XG" envDefault:"1.45"`
	PlaceholderAwayXG float64 `env:"PREDICTOR_PLACEHOLDER_AWAY_XG" envDefault:"1.10"`

	LogLevel  string `env:"PREDICTOR_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"PREDICTOR_LOG_FORMAT" envDefault:"text"`
}

// LoadFromEnv parses the environment into a Config and validates it.
func LoadFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PREDICTOR_PORT %d is out of range [1, 65535]", c.Port)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("PREDICTOR_REQUEST_TIMEOUT must be positive")
	}
	if c.UsePlaceholder && (c.PlaceholderHomeXG <= 0 || c.PlaceholderAwayXG <= 0) {
		return fmt.Errorf("placeholder rates must be positive, got %v/%v", c.PlaceholderHomeXG, c.PlaceholderAwayXG)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("PREDICTOR_LOG_FORMAT %q unknown: want text|json", c.LogFormat)
	}
	return nil
}
