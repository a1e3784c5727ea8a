package main

import (
	"errors"

	"github.com/vango-dev/routekit/internal/config"
	rkerrors "github.com/vango-dev/routekit/internal/errors"
)

// loadConfig reads the config in dir, falling back to defaults when there
// is none, then applies environment overrides and validates.
func loadConfig(dir string) (*config.Config, error) {
	cfg, err := config.Load(dir)
	if errors.Is(err, rkerrors.Code("C002")) {
		cfg = config.New()
		err = nil
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
