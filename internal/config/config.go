// Package config defines the configuration structures for druglike. No I/O
// lives here, only plain data types and validation.
package config

import (
	"fmt"
	"time"

	"github.com/turtacn/druglike/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	// MaxBatchSize caps the number of structures accepted per batch request.
	MaxBatchSize int `mapstructure:"max_batch_size"`
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Format      string   `mapstructure:"format"` // "json" | "console"
	OutputPaths []string `mapstructure:"output_paths"`
}

// Logging converts the section into the logger's construction parameters.
func (l LogConfig) Logging() logging.LogConfig {
	return logging.LogConfig{
		Level:       l.Level,
		Format:      l.Format,
		OutputPaths: l.OutputPaths,
	}
}

// RedisConfig holds parameters of the evaluation outcome cache.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	TTL          time.Duration `mapstructure:"ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// MetricsConfig controls the Prometheus registry.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// DepictionConfig controls the grid image written next to a report.
type DepictionConfig struct {
	MolsPerRow int    `mapstructure:"mols_per_row"`
	Width      int    `mapstructure:"width"`
	Height     int    `mapstructure:"height"`
	Output     string `mapstructure:"output"`
	// LegendPrefix labels unnamed molecules "<prefix> 1", "<prefix> 2", ...
	LegendPrefix string `mapstructure:"legend_prefix"`
}

// ReportConfig controls report rendering in the CLI.
type ReportConfig struct {
	Format string `mapstructure:"format"` // "text" | "json"
	Color  string `mapstructure:"color"`  // "auto" | "always" | "never"
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Depiction DepictionConfig `mapstructure:"depiction"`
	Report    ReportConfig    `mapstructure:"report"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of a fully-populated Config and
// returns the first problem found.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	if c.Server.MaxBatchSize < 1 {
		return fmt.Errorf("config: server.max_batch_size must be ≥ 1, got %d", c.Server.MaxBatchSize)
	}
	if c.Server.MaxBodySize < 1 {
		return fmt.Errorf("config: server.max_body_size must be ≥ 1, got %d", c.Server.MaxBodySize)
	}

	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			return fmt.Errorf("config: redis.addr is required when redis.enabled is set")
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
		}
		if c.Redis.TTL < 0 {
			return fmt.Errorf("config: redis.ttl must not be negative, got %s", c.Redis.TTL)
		}
	}

	if c.Depiction.MolsPerRow < 1 {
		return fmt.Errorf("config: depiction.mols_per_row must be ≥ 1, got %d", c.Depiction.MolsPerRow)
	}
	if c.Depiction.Width < 50 || c.Depiction.Height < 50 {
		return fmt.Errorf("config: depiction size %dx%d is below the 50x50 minimum",
			c.Depiction.Width, c.Depiction.Height)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	switch c.Report.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: report.format %q is invalid; expected text|json", c.Report.Format)
	}
	switch c.Report.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("config: report.color %q is invalid; expected auto|always|never", c.Report.Color)
	}

	return nil
}
