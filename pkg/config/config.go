// Package config reads the pipeline configuration from CLI flags and
// environment variables, the environment winning when set.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the parameters of one pipeline run.
type Config struct {
	DSN        string `env:"LIFECYCLE_DSN"`
	StartMonth string `env:"LIFECYCLE_START_MONTH"` // MMYYYY, inclusive
	EndMonth   string `env:"LIFECYCLE_END_MONTH"`   // MMYYYY, inclusive
	OutputCSV  string `env:"LIFECYCLE_OUTPUT_CSV"`  // fact table export path, optional
	Verbose    bool   `env:"LIFECYCLE_VERBOSE"`
}

// Resolve overlays environment values onto flag-provided ones and
// checks the required parameters.
func Resolve(cfg *Config) error {
	envCfg := Config{}
	if err := env.Parse(&envCfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if envCfg.DSN != "" {
		cfg.DSN = envCfg.DSN
	}
	if envCfg.StartMonth != "" {
		cfg.StartMonth = envCfg.StartMonth
	}
	if envCfg.EndMonth != "" {
		cfg.EndMonth = envCfg.EndMonth
	}
	if envCfg.OutputCSV != "" {
		cfg.OutputCSV = envCfg.OutputCSV
	}
	if envCfg.Verbose {
		cfg.Verbose = true
	}

	if cfg.DSN == "" {
		return fmt.Errorf("dsn is required (--dsn or LIFECYCLE_DSN)")
	}
	if cfg.StartMonth == "" || cfg.EndMonth == "" {
		return fmt.Errorf("start and end months are required (MMYYYY)")
	}
	return nil
}
