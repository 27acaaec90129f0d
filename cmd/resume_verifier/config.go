package main

import (
	"fmt"
	"os"

	"github.com/jonathan/resume-verifier/internal/config"
)

// loadConfig loads the optional JSON config file and fills credentials from
// the environment. Flag overrides are applied by each command after this.
func loadConfig(path string) (config.Config, error) {
	var cfg config.Config
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
	}

	// Environment fills credentials the file left out
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.GitHubToken == "" {
		cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	}

	cfg = cfg.MergeWithDefaults(config.Config{})
	return cfg, nil
}
