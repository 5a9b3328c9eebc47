// Package config loads process settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings shared by the CLI, HTTP and MCP entry points.
type Config struct {
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"blueprint:"`

	CacheTTL       time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	Workers        int           `env:"WORKERS" envDefault:"4"`
	CohesionWeight float64       `env:"COHESION_WEIGHT" envDefault:"0.5"`
	TemplatesFile  string        `env:"TEMPLATES_FILE"`

	HTTPAddr     string `env:"HTTP_ADDR" envDefault:":8080"`
	OTelEndpoint string `env:"OTEL_ENDPOINT"`
}

// Prefix namespaces every variable, e.g. BLUEPRINT_CACHE_TTL.
const Prefix = "BLUEPRINT_"

// Load reads Config from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from prefixed environment variables.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: Prefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate rejects values the service cannot run with.
func (c Config) Validate() error {
	if c.CacheTTL < 0 {
		return fmt.Errorf("%sCACHE_TTL must not be negative", Prefix)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%sWORKERS must be at least 1", Prefix)
	}
	if c.CohesionWeight < 0 {
		return fmt.Errorf("%sCOHESION_WEIGHT must not be negative", Prefix)
	}
	return nil
}
