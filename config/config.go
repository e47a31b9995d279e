// Package config reads CLI defaults from CS_* environment variables.
// Command-line flags take precedence over everything loaded here.
package config

import "github.com/kelseyhightower/envconfig"

// Prefix is prepended to every variable name.
const Prefix = "cs"

// Config holds environment-driven defaults for the cs commands.
type Config struct {
	LogLevel  string   `envconfig:"LOG" default:"error"`
	Width     int      `envconfig:"WIDTH"` // 0 detects the terminal width
	Redact    bool     `envconfig:"REDACT" default:"true"`
	PII       bool     `envconfig:"PII"`
	Allowlist []string `envconfig:"REDACT_ALLOW"`
	Compact   bool     `envconfig:"COMPACT"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
