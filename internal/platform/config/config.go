// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to the clients, storage and router via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"net/url"

	"github.com/caarlos0/env/v11"
)

// # Storage Backends

const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// # Configuration Schema

// Config holds all runtime configuration for the storefront client.
type Config struct {

	// Backend address
	APIURL string `env:"API_URL" envDefault:"http://localhost:4000"`

	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Debug       bool   `env:"DEBUG"       envDefault:"false"`

	// Durable client-side state
	StateBackend string `env:"STATE_BACKEND" envDefault:"file"`
	StateFile    string `env:"STATE_FILE"    envDefault:"./data/shop-state.json"`
	StatePrefix  string `env:"STATE_PREFIX"  envDefault:"storefront:"`
	RedisURL     string `env:"REDIS_URL"`
	DatabaseURL  string `env:"DATABASE_URL"`

	// Page titles are composed as "<title> | <SiteName>"
	SiteName string `env:"SITE_NAME" envDefault:"購物網站"`

	// Outgoing request limiter. Zero disables it.
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"0"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"1"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate rejects combinations env tags cannot express.
func (c *Config) validate() error {
	parsed, err := url.Parse(c.APIURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: API_URL must be an absolute URL, got %q", c.APIURL)
	}

	switch c.StateBackend {
	case BackendFile:
		if c.StateFile == "" {
			return fmt.Errorf("config: STATE_FILE must not be empty")
		}
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("config: REDIS_URL is required when STATE_BACKEND=redis")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required when STATE_BACKEND=postgres")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("config: unknown STATE_BACKEND %q", c.StateBackend)
	}

	if c.RateLimitRPS < 0 {
		return fmt.Errorf("config: RATE_LIMIT_RPS must be >= 0")
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("config: RATE_LIMIT_BURST must be >= 1")
	}

	return nil
}

// IsDevelopment reports whether the client is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the client is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
