package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all vigil configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Scoring   ScoringConfig
	Lifecycle LifecycleConfig
}

type ServerConfig struct {
	Bind string `env:"VIGIL_BIND"`
	Port int    `env:"VIGIL_PORT"`
}

type DatabaseConfig struct {
	Path string `env:"VIGIL_DB_PATH"`
}

// ScoringConfig is the tunable surface of the relevance blend.
// Defaults are the production constants; tests inject alternates.
type ScoringConfig struct {
	DecayRate       float64 `env:"VIGIL_DECAY_RATE"` // λ, per day
	ImpactCap       float64 `env:"VIGIL_IMPACT_CAP"` // financial impact normalization ceiling
	TemporalWeight  float64 `env:"VIGIL_TEMPORAL_WEIGHT"`
	SeverityWeight  float64 `env:"VIGIL_SEVERITY_WEIGHT"`
	ImpactWeight    float64 `env:"VIGIL_IMPACT_WEIGHT"`
	TopK            int     `env:"VIGIL_TOP_K"`
	HighThreshold   float64 `env:"VIGIL_HIGH_THRESHOLD"`   // risk score strictly above → High
	MediumThreshold float64 `env:"VIGIL_MEDIUM_THRESHOLD"` // risk score strictly above → Medium
}

type LifecycleConfig struct {
	RetentionDays int    `env:"VIGIL_RETENTION_DAYS"` // active issues older than this go dormant
	SweepSchedule string `env:"VIGIL_SWEEP_SCHEDULE"` // cron spec for the background sweep
}

// Default returns a Config with the production constants.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 37800,
		},
		Database: DatabaseConfig{
			Path: "", // resolved at runtime via store.DefaultDBPath()
		},
		Scoring: ScoringConfig{
			DecayRate:       0.02, // half-life ≈ 35 days
			ImpactCap:       100000,
			TemporalWeight:  0.4,
			SeverityWeight:  0.4,
			ImpactWeight:    0.2,
			TopK:            3,
			HighThreshold:   0.75,
			MediumThreshold: 0.5,
		},
		Lifecycle: LifecycleConfig{
			RetentionDays: 365,
			SweepSchedule: "@daily",
		},
	}
}

// Load returns the default config with environment overrides applied.
func Load() (Config, error) {
	cfg := Default()
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
