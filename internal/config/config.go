// Package config resolves runtime settings from defaults, an optional
// YAML/JSON file, an optional .env file and TATAMI_* environment variables,
// in that order of precedence (last wins).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Config holds every setting the CLI and servers need.
type Config struct {
	LogLevel string `yaml:"log_level" json:"log_level"`

	// Store selects the sequence/curriculum backend: memory, sqlite or redis.
	Store string `yaml:"store" json:"store"`

	SQLitePath string `yaml:"sqlite_path" json:"sqlite_path"`

	Redis RedisConfig `yaml:"redis" json:"redis"`

	HTTPAddr string `yaml:"http_addr" json:"http_addr"`

	// LibraryDir is an authoring directory of sequence documents (Loam).
	LibraryDir string `yaml:"library_dir" json:"library_dir"`

	// SessionDir holds quiz sessions for the CLI.
	SessionDir string `yaml:"session_dir" json:"session_dir"`

	SessionTTL time.Duration `yaml:"session_ttl" json:"session_ttl"`
}

// RedisConfig configures the redis driver.
type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
	Prefix   string `yaml:"prefix" json:"prefix"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:   "info",
		Store:      DriverMemory,
		SQLitePath: "tatami.db",
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "tatami:",
		},
		HTTPAddr:   ":8080",
		SessionDir: ".tatami/sessions",
		SessionTTL: 24 * time.Hour,
	}
}

// Load resolves the configuration. A missing file is not an error; an
// explicitly named but unreadable one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := readFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	// .env is optional
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate checks driver names and required fields.
func (c Config) Validate() error {
	switch c.Store {
	case DriverMemory:
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("sqlite store requires sqlite_path")
		}
	case DriverRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis store requires redis.addr")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store)
	}
	return nil
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		var raw struct {
			Config
			SessionTTL string `json:"session_ttl"`
		}
		raw.Config = *cfg
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		*cfg = raw.Config
		if raw.SessionTTL != "" {
			d, err := time.ParseDuration(raw.SessionTTL)
			if err != nil {
				return fmt.Errorf("invalid session_ttl: %w", err)
			}
			cfg.SessionTTL = d
		}
		return nil
	}

	// Default to YAML (yaml.v3 parses durations like "12h")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	str("TATAMI_LOG_LEVEL", &cfg.LogLevel)
	str("TATAMI_STORE", &cfg.Store)
	str("TATAMI_SQLITE_PATH", &cfg.SQLitePath)
	str("TATAMI_REDIS_ADDR", &cfg.Redis.Addr)
	str("TATAMI_REDIS_PASSWORD", &cfg.Redis.Password)
	str("TATAMI_REDIS_PREFIX", &cfg.Redis.Prefix)
	str("TATAMI_HTTP_ADDR", &cfg.HTTPAddr)
	str("TATAMI_LIBRARY_DIR", &cfg.LibraryDir)
	str("TATAMI_SESSION_DIR", &cfg.SessionDir)

	if v, ok := os.LookupEnv("TATAMI_REDIS_DB"); ok {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid TATAMI_REDIS_DB: %w", err)
		}
		cfg.Redis.DB = db
	}
	if v, ok := os.LookupEnv("TATAMI_SESSION_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TATAMI_SESSION_TTL: %w", err)
		}
		cfg.SessionTTL = d
	}
	return nil
}
