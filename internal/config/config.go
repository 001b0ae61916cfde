package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Placement/internal/placement"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Hermes    HermesConfig    `yaml:"hermes"`
	Inventory InventoryConfig `yaml:"inventory"`
	Placement PlacementConfig `yaml:"placement"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
	RateLimit   int    `yaml:"rate_limit"`
}

// DatabaseConfig selects the node store. An empty URL keeps nodes in memory.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type HermesConfig struct {
	URL string `yaml:"url"`
}

// InventoryConfig points at the cluster manager that reports node usage.
// An empty URL disables the sync loop.
type InventoryConfig struct {
	URL            string `yaml:"url"`
	Token          string `yaml:"token"`
	SyncIntervalMs int    `yaml:"sync_interval_ms"`
}

type PlacementConfig struct {
	Weights placement.WeightSet `yaml:"weights"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) SyncInterval() time.Duration {
	return time.Duration(c.Inventory.SyncIntervalMs) * time.Millisecond
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
			RateLimit:   120,
		},
		Hermes: HermesConfig{
			URL: "nats://localhost:4222",
		},
		Inventory: InventoryConfig{
			SyncIntervalMs: 30000,
		},
		Placement: PlacementConfig{
			Weights: placement.DefaultWeights(),
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

	applyEnv(cfg)

	if err := cfg.Placement.Weights.Validate(); err != nil {
		return nil, fmt.Errorf("placement weights: %w", err)
	}
	if cfg.Inventory.SyncIntervalMs <= 0 {
		return nil, fmt.Errorf("inventory sync interval must be positive, got %d", cfg.Inventory.SyncIntervalMs)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PLACEMENT_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("PLACEMENT_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("PLACEMENT_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("PLACEMENT_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("PLACEMENT_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("PLACEMENT_INVENTORY_URL"); v != "" {
		cfg.Inventory.URL = v
	}
	if v := os.Getenv("PLACEMENT_INVENTORY_TOKEN"); v != "" {
		cfg.Inventory.Token = v
	}
	if v := os.Getenv("PLACEMENT_SYNC_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Inventory.SyncIntervalMs = n
		}
	}
	if v := os.Getenv("PLACEMENT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("PLACEMENT_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
