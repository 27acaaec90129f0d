// Package config provides configuration loading and validation for the verifier.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-verifier/internal/risk"
)

// Config represents the verifier configuration that can be loaded from a JSON
// file. All fields are optional; missing values use defaults or come from CLI
// flags and environment variables.
type Config struct {
	// Server
	Port        int    `json:"port,omitempty"`         // HTTP listen port
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL; empty runs the in-memory store

	// External lookups
	GitHubToken    string `json:"github_token,omitempty"`           // optional, raises the GitHub API rate limit
	GeminiAPIKey   string `json:"gemini_api_key,omitempty"`         // chat assistant; empty disables the LLM path
	VerifyTimeout  int    `json:"verify_timeout_seconds,omitempty"` // per-lookup timeout
	CacheTTL       int    `json:"cache_ttl_seconds,omitempty"`      // company verification cache lifetime
	UseBrowser     bool   `json:"use_browser,omitempty"`            // render JS-heavy pages with a headless browser
	MaxUploadBytes int64  `json:"max_upload_bytes,omitempty"`       // resume upload size cap

	// Scoring. Nil means the built-in rule and penalty tables.
	Risk *risk.Config `json:"risk,omitempty"`

	// Parsing vocabulary. Empty means the built-in skill list.
	SkillVocabulary []string `json:"skill_vocabulary,omitempty"`

	// Logging
	LogJSON bool `json:"log_json,omitempty"` // JSON log encoding for collectors
	Verbose bool `json:"verbose,omitempty"`  // debug-level logging
}

// Defaults used when neither the config file nor flags provide a value.
const (
	DefaultPort           = 8080
	DefaultVerifyTimeout  = 10
	DefaultCacheTTL       = 3600
	DefaultMaxUploadBytes = 10 << 20
)

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values. Required fields
// are not checked here; the CLI enforces those after merging.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be within 0-65535")
	}
	if c.VerifyTimeout < 0 {
		return fmt.Errorf("config error: 'verify_timeout_seconds' must be non-negative")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("config error: 'cache_ttl_seconds' must be non-negative")
	}
	if c.MaxUploadBytes < 0 {
		return fmt.Errorf("config error: 'max_upload_bytes' must be non-negative")
	}
	if c.Risk != nil {
		if err := c.Risk.Validate(); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from
// defaults. This applies config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.GitHubToken == "" {
		result.GitHubToken = defaults.GitHubToken
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.Port == 0 {
		result.Port = DefaultPort
	}
	if result.VerifyTimeout == 0 {
		result.VerifyTimeout = defaults.VerifyTimeout
	}
	if result.VerifyTimeout == 0 {
		result.VerifyTimeout = DefaultVerifyTimeout
	}
	if result.CacheTTL == 0 {
		result.CacheTTL = defaults.CacheTTL
	}
	if result.CacheTTL == 0 {
		result.CacheTTL = DefaultCacheTTL
	}
	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = defaults.MaxUploadBytes
	}
	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = DefaultMaxUploadBytes
	}

	if result.Risk == nil {
		result.Risk = defaults.Risk
	}
	if len(result.SkillVocabulary) == 0 {
		result.SkillVocabulary = defaults.SkillVocabulary
	}

	// Bool fields cannot distinguish unset from false, so flags always win.

	return result
}

// RiskConfig returns the scoring configuration, falling back to the engine
// defaults when the file did not override it.
func (c *Config) RiskConfig() risk.Config {
	if c.Risk != nil {
		return *c.Risk
	}
	return risk.DefaultConfig()
}
