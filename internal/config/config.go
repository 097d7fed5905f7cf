// Package config contains the configuration of the PCC tracker service.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config contains the runtime parameters of the service.
type Config struct {
	RunAddress string `env:"RUN_ADDRESS"`
	DataDir    string `env:"DATA_DIR"`
	LogLevel   string `env:"LOG_LEVEL"`
}

// Parse reads the configuration from command-line flags and environment
// variables. Environment values win over flags.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDataDir := cfg.DataDir
	envLogLevel := cfg.LogLevel

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.DataDir, "d", "data", "storage directory for JSON documents")
	flag.StringVar(&cfg.LogLevel, "l", "info", "log level")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDataDir != "" {
		cfg.DataDir = envDataDir
	}
	if envLogLevel != "" {
		cfg.LogLevel = envLogLevel
	}

	return cfg, nil
}
