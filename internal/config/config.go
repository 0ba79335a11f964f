// Package config loads platform configuration from a yaml file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/campuslink/platform/pkg/logger"
)

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	ReadTimeoutSec  int    `yaml:"read_timeout"`
	WriteTimeoutSec int    `yaml:"write_timeout"`
	IdleTimeoutSec  int    `yaml:"idle_timeout"`
}

// DatabaseConfig controls the Postgres connection. An empty DSN selects the
// in-memory store.
type DatabaseConfig struct {
	Driver          string `yaml:"driver"`
	DSN             string `yaml:"dsn"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"`
}

// MailConfig controls outbound email. An empty host selects the logging
// mailer.
type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	TimeoutS int    `yaml:"timeout"`
}

// AuthConfig controls JWT issuance and validation.
type AuthConfig struct {
	Secret        string `yaml:"secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
}

// RateLimitConfig controls the per-client request limiter.
type RateLimitConfig struct {
	RequestsPerSecond int `yaml:"requests_per_second"`
	Burst             int `yaml:"burst"`
}

// Config is the root configuration document.
type Config struct {
	Server    ServerConfig         `yaml:"server"`
	Database  DatabaseConfig       `yaml:"database"`
	Logging   logger.LoggingConfig `yaml:"logging"`
	Mail      MailConfig           `yaml:"mail"`
	Auth      AuthConfig           `yaml:"auth"`
	RateLimit RateLimitConfig      `yaml:"rate_limit"`
}

// Load reads CONFIG_PATH (default config.yaml) when present, then applies
// environment overrides and defaults.
func Load() (*Config, error) {
	cfg := &Config{}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	if cfg.Auth.Secret == "" {
		return nil, fmt.Errorf("auth secret is required (AUTH_SECRET or auth.secret)")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	envString(&cfg.Server.Host, "SERVER_HOST")
	envInt(&cfg.Server.Port, "SERVER_PORT")
	envString(&cfg.Database.Driver, "DATABASE_DRIVER")
	envString(&cfg.Database.DSN, "DATABASE_DSN")
	envString(&cfg.Logging.Level, "LOG_LEVEL")
	envString(&cfg.Logging.Format, "LOG_FORMAT")
	envString(&cfg.Logging.Output, "LOG_OUTPUT")
	envString(&cfg.Mail.Host, "MAIL_HOST")
	envInt(&cfg.Mail.Port, "MAIL_PORT")
	envString(&cfg.Mail.Username, "MAIL_USERNAME")
	envString(&cfg.Mail.Password, "MAIL_PASSWORD")
	envString(&cfg.Mail.From, "MAIL_FROM")
	envString(&cfg.Auth.Secret, "AUTH_SECRET")
	envInt(&cfg.Auth.TokenTTLHours, "AUTH_TOKEN_TTL_HOURS")
	envInt(&cfg.RateLimit.RequestsPerSecond, "RATE_LIMIT_RPS")
	envInt(&cfg.RateLimit.Burst, "RATE_LIMIT_BURST")
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeoutSec == 0 {
		cfg.Server.ReadTimeoutSec = 15
	}
	if cfg.Server.WriteTimeoutSec == 0 {
		cfg.Server.WriteTimeoutSec = 30
	}
	if cfg.Server.IdleTimeoutSec == 0 {
		cfg.Server.IdleTimeoutSec = 60
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Mail.Port == 0 {
		cfg.Mail.Port = 587
	}
	if cfg.Mail.TimeoutS == 0 {
		cfg.Mail.TimeoutS = 10
	}
	if cfg.Auth.TokenTTLHours == 0 {
		cfg.Auth.TokenTTLHours = 24
	}
	if cfg.RateLimit.RequestsPerSecond == 0 {
		cfg.RateLimit.RequestsPerSecond = 20
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 40
	}
}

func envString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
