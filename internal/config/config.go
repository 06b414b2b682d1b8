// Package config loads runtime configuration from the environment.
package config

import "github.com/caarlos0/env/v11"

// Config holds the settings forgelint reads from environment variables.
// Command line flags take precedence where both exist.
type Config struct {
	// GithubToken authenticates remote workflow fetching. Optional; without
	// it only public repositories are reachable, at a lower rate limit.
	GithubToken string `env:"GITHUB_TOKEN"`
	// Format selects the default output format.
	Format string `env:"FORGELINT_FORMAT" envDefault:"text"`
	// NoColor disables colored output. Any non-empty value counts, per the
	// NO_COLOR convention.
	NoColor string `env:"NO_COLOR"`
	// Debug enables debug logging.
	Debug bool `env:"FORGELINT_DEBUG"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
