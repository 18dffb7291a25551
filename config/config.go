package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file used when CONFIG_PATH is not set.
const DefaultPath = "./config/config.yaml"

// Config represents the overall application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Transfer TransferConfig `yaml:"transfer"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	RateLimitPerSec float64       `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int           `yaml:"rate_limit_burst"`
	CacheTTLSeconds int           `yaml:"cache_ttl_seconds"`
	CacheTTL        time.Duration `yaml:"-"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"` // sqlite | postgres
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogLevel               string `yaml:"log_level"` // silent | error | warn | info
	SlowQueryMillis        int    `yaml:"slow_query_ms"`
}

// LoggingConfig controls the process logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text | json
}

// TransferConfig controls export and import.
type TransferConfig struct {
	ExportFilename   string `yaml:"export_filename"`
	ValidateOnImport *bool  `yaml:"validate_on_import"`
}

// ShouldValidateOnImport reports whether imported records go through field validation.
func (t TransferConfig) ShouldValidateOnImport() bool {
	return t.ValidateOnImport == nil || *t.ValidateOnImport
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadOrDefault loads path, falling back to Default when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		logrus.Warnf("config file %s not found; using defaults", path)
		return Default(), nil
	}
	return cfg, err
}

func (c *Config) applyDefaults() {
	if c.Server.Port <= 0 {
		c.Server.Port = 8080
	}
	if c.Server.RateLimitPerSec <= 0 {
		c.Server.RateLimitPerSec = 10
	}
	if c.Server.RateLimitBurst <= 0 {
		c.Server.RateLimitBurst = 5
	}
	if c.Server.CacheTTLSeconds <= 0 {
		c.Server.CacheTTLSeconds = 60
	}
	c.Server.CacheTTL = time.Duration(c.Server.CacheTTLSeconds) * time.Second

	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.DSN == "" && c.Database.Driver == "sqlite" {
		c.Database.DSN = "robots.db"
	}
	if c.Database.MaxOpenConns <= 0 {
		if c.Database.Driver == "sqlite" {
			logrus.Debug("database.max_open_conns not set; sqlite defaults to a single connection")
			c.Database.MaxOpenConns = 1
		} else {
			c.Database.MaxOpenConns = 10
		}
	}
	if c.Database.MaxIdleConns <= 0 {
		c.Database.MaxIdleConns = c.Database.MaxOpenConns
	}
	if c.Database.LogLevel == "" {
		c.Database.LogLevel = "warn"
	}
	if c.Database.SlowQueryMillis <= 0 {
		c.Database.SlowQueryMillis = 200
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}

	if c.Transfer.ExportFilename == "" {
		c.Transfer.ExportFilename = "robots_export.json"
	}
}
