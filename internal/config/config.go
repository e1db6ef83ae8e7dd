// Package config loads tool settings from the environment and an optional
// .env file in the working directory.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the paths and optional integrations shared by the tools.
// Relative paths resolve against Root.
type Config struct {
	Root           string `env:"TRANSIT_ROOT" envDefault:"."`
	DBPath         string `env:"SQLITE_PATH" envDefault:"data/transport.db"`
	SchemaPath     string `env:"TRANSIT_SCHEMA_PATH" envDefault:"data/schema.sql"`
	StopsSeedPath  string `env:"TRANSIT_STOPS_SEED_PATH" envDefault:"data/seed/stops_seed.sql"`
	RoutesSeedPath string `env:"TRANSIT_ROUTES_SEED_PATH" envDefault:"data/seed/routes_seed.sql"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	PathCacheTTL  time.Duration `env:"TRANSIT_PATH_CACHE_TTL" envDefault:"24h"`

	KafkaBrokers   []string `env:"KAFKA_BROKERS" envSeparator:","`
	LifecycleTopic string   `env:"TRANSIT_LIFECYCLE_TOPIC" envDefault:"transit.db.lifecycle"`
	WatchGroup     string   `env:"TRANSIT_WATCH_GROUP" envDefault:"transit-cache-invalidator"`
}

// Load reads .env (if present) and then parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.KafkaBrokers = compact(cfg.KafkaBrokers)
	return cfg, nil
}

// Resolve joins a relative path onto Root and makes it absolute.
func (c Config) Resolve(path string) string {
	if !filepath.IsAbs(path) {
		root := c.Root
		if root == "" {
			root = "."
		}
		path = filepath.Join(root, path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// Database returns the resolved database file path.
func (c Config) Database() string {
	return c.Resolve(c.DBPath)
}

// Inputs returns the resolved schema and seed paths in execution order.
func (c Config) Inputs() []string {
	return []string{
		c.Resolve(c.SchemaPath),
		c.Resolve(c.StopsSeedPath),
		c.Resolve(c.RoutesSeedPath),
	}
}

// CacheEnabled reports whether a Redis path cache is configured.
func (c Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// EventsEnabled reports whether lifecycle events should be published.
func (c Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
