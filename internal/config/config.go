// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/thought-capture/internal/review"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Crossref string `json:"crossref,omitempty"` // Path to the crossref registry file

	// Behavior
	ReviewThreshold float64 `json:"review_threshold,omitempty"` // Confidence below which captures need review (0.0-1.0)
	ForceContext    string  `json:"force_context,omitempty"`    // Default forced context for captures
	Verbose         bool    `json:"verbose,omitempty"`          // Print detailed routing information

	// Integrations
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	DatabaseURL string `json:"database_url,omitempty"` // Optional PostgreSQL capture-log URL
}

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

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.ReviewThreshold < 0 || c.ReviewThreshold > 1 {
		return fmt.Errorf("config error: 'review_threshold' must be between 0 and 1")
	}

	if c.Crossref != "" {
		if _, err := os.Stat(c.Crossref); os.IsNotExist(err) {
			return fmt.Errorf("config error: crossref file not found: %s", c.Crossref)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Crossref == "" {
		result.Crossref = defaults.Crossref
	}
	if result.ForceContext == "" {
		result.ForceContext = defaults.ForceContext
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	if result.ReviewThreshold == 0 {
		if defaults.ReviewThreshold > 0 {
			result.ReviewThreshold = defaults.ReviewThreshold
		} else {
			result.ReviewThreshold = review.DefaultThreshold
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
