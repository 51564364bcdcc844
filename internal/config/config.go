package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Hermes     HermesConfig     `yaml:"hermes"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Limits     LimitsConfig     `yaml:"limits"`
	Reporter   ReporterConfig   `yaml:"reporter"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type ServerConfig struct {
	Port        int      `yaml:"port"`
	MetricsPort int      `yaml:"metrics_port"`
	AdminToken  string   `yaml:"admin_token"`
	CORSOrigins []string `yaml:"cors_origins"`
	RateLimit   int      `yaml:"rate_limit_per_minute"`
}

// DatabaseConfig selects the store. An empty URL keeps sets in memory.
type DatabaseConfig struct {
	URL     string `yaml:"url"`
	Migrate bool   `yaml:"migrate"`
}

// HermesConfig points at NATS. An empty URL disables events.
type HermesConfig struct {
	URL string `yaml:"url"`
}

type ClassifierConfig struct {
	Trace bool `yaml:"trace"`
}

type LimitsConfig struct {
	MaxSets        int `yaml:"max_sets"`
	MaxTasksPerSet int `yaml:"max_tasks_per_set"`
}

type ReporterConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) ReportInterval() time.Duration {
	return time.Duration(c.Reporter.IntervalSeconds) * time.Second
}

// SlogLevel maps the configured level name to a slog level. Unknown names
// fall back to info. Tracing forces debug.
func (c *Config) SlogLevel() slog.Level {
	if c.Classifier.Trace {
		return slog.LevelDebug
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
			CORSOrigins: []string{"*"},
			RateLimit:   120,
		},
		Database: DatabaseConfig{
			Migrate: true,
		},
		Limits: LimitsConfig{
			MaxSets:        9,
			MaxTasksPerSet: 10,
		},
		Reporter: ReporterConfig{
			IntervalSeconds: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Limits.MaxSets <= 0 {
		return fmt.Errorf("limits.max_sets must be positive, got %d", c.Limits.MaxSets)
	}
	if c.Limits.MaxTasksPerSet <= 0 {
		return fmt.Errorf("limits.max_tasks_per_set must be positive, got %d", c.Limits.MaxTasksPerSet)
	}
	if c.Reporter.IntervalSeconds <= 0 {
		return fmt.Errorf("reporter.interval_seconds must be positive, got %d", c.Reporter.IntervalSeconds)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format must be json or text, got %q", c.Logging.Format)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ARRANGER_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("ARRANGER_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("ARRANGER_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("ARRANGER_CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("ARRANGER_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("ARRANGER_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("ARRANGER_TRACE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Classifier.Trace = b
		}
	}
	if v := os.Getenv("ARRANGER_MAX_SETS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Limits.MaxSets = n
		}
	}
	if v := os.Getenv("ARRANGER_MAX_TASKS_PER_SET"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Limits.MaxTasksPerSet = n
		}
	}
	if v := os.Getenv("ARRANGER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("ARRANGER_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
