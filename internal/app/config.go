package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/specialistvlad/suitegraph/internal/planner"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	CatalogPaths []string // hcl and yaml files registered up front
	LibraryPaths []string // hcl and yaml files fetched only when a plan needs them
	Variables    map[string]string

	Roots        []string // refs or ids to plan; empty plans everything
	Order        planner.Order
	IgnoreCycles bool
	WaitTimeout  time.Duration
	Watch        bool

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.CatalogPaths) == 0 {
		return nil, errors.New("at least one catalog path is required")
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	if cfg.WaitTimeout < 0 {
		return nil, errors.New("wait timeout must not be negative")
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("invalid healthcheck port %d", cfg.HealthcheckPort)
	}

	return &cfg, nil
}
