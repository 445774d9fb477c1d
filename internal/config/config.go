package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Catchment/internal/scoring"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Hermes    HermesConfig    `yaml:"hermes"`
	Collector CollectorConfig `yaml:"collector"`
	Snapshots SnapshotsConfig `yaml:"snapshots"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port               int      `yaml:"port"`
	MetricsPort        int      `yaml:"metrics_port"`
	AdminToken         string   `yaml:"admin_token"`
	RateLimitPerMinute int      `yaml:"rate_limit_per_minute"`
	AllowedOrigins     []string `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type HermesConfig struct {
	URL string `yaml:"url"`
}

type CollectorConfig struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
}

// Snapshot sources.
const (
	SourcePostgres = "postgres"
	SourceFile     = "file"
	SourceHTTP     = "http"
)

type SnapshotsConfig struct {
	Source      string `yaml:"source"`
	FixturePath string `yaml:"fixture_path"`
}

type ScoringConfig struct {
	Policy scoring.Policy `yaml:"policy"`
	// DefaultWeights apply when a request carries no weights at all.
	DefaultWeights map[string]float64 `yaml:"default_weights"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:               8600,
			MetricsPort:        8601,
			RateLimitPerMinute: 120,
			AllowedOrigins:     []string{"*"},
		},
		Hermes: HermesConfig{
			URL: "nats://localhost:4222",
		},
		Collector: CollectorConfig{
			URL: "http://localhost:8700",
		},
		Snapshots: SnapshotsConfig{
			Source: SourcePostgres,
		},
		Scoring: ScoringConfig{
			Policy: scoring.DefaultPolicy(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Set after parsing: yaml.v3 merges into a non-nil map, and a file that
	// names its own weights should replace these entirely.
	if cfg.Scoring.DefaultWeights == nil {
		cfg.Scoring.DefaultWeights = map[string]float64{
			"distance":   3,
			"ofsted":     3,
			"clubs":      2,
			"fees":       2,
			"attendance": 1,
			"class_size": 1,
		}
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Snapshots.Source {
	case SourcePostgres, SourceFile, SourceHTTP:
	default:
		return fmt.Errorf("snapshots.source %q: want postgres, file or http", c.Snapshots.Source)
	}
	if c.Snapshots.Source == SourceFile && c.Snapshots.FixturePath == "" {
		return fmt.Errorf("snapshots.fixture_path is required for the file source")
	}
	if err := c.Scoring.Policy.Validate(); err != nil {
		return fmt.Errorf("scoring.policy: %w", err)
	}
	if _, _, err := scoring.WeightsFromMap(c.Scoring.DefaultWeights); err != nil {
		return fmt.Errorf("scoring.default_weights: %w", err)
	}
	return nil
}

// DefaultWeights returns the configured fallback vector. Load has already
// validated it.
func (c *Config) DefaultWeights() scoring.WeightVector {
	w, _, _ := scoring.WeightsFromMap(c.Scoring.DefaultWeights)
	return w
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CATCHMENT_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("CATCHMENT_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("CATCHMENT_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("CATCHMENT_RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.RateLimitPerMinute = n
		}
	}
	if v := os.Getenv("CATCHMENT_ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("CATCHMENT_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("CATCHMENT_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("CATCHMENT_COLLECTOR_URL"); v != "" {
		cfg.Collector.URL = v
	}
	if v := os.Getenv("CATCHMENT_COLLECTOR_TOKEN"); v != "" {
		cfg.Collector.Token = v
	}
	if v := os.Getenv("CATCHMENT_SNAPSHOT_SOURCE"); v != "" {
		cfg.Snapshots.Source = v
	}
	if v := os.Getenv("CATCHMENT_FIXTURE_PATH"); v != "" {
		cfg.Snapshots.FixturePath = v
	}
	if v := os.Getenv("CATCHMENT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("CATCHMENT_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
