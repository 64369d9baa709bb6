package main

import (
	"log/slog"

	"github.com/creditdesk/eligibility-intake/internal/client"
	"github.com/creditdesk/eligibility-intake/internal/config"
	"github.com/creditdesk/eligibility-intake/internal/observability"
)

// setup loads configuration and builds the report client shared by all
// commands. The endpoint is resolved exactly once here, at process start.
func setup() (config.Config, *client.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	slog.SetDefault(observability.SetupLogger(cfg))
	return cfg, client.New(cfg), nil
}
