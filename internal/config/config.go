// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Thresholds consolidates every decision constant used by the classifier and
// the learning engine, so threshold changes are single-sourced.
type Thresholds struct {
	// Classifier
	AmbiguityGap      int `json:"ambiguity_gap,omitempty"`       // confidence-point gap under which the top two categories are ambiguous
	LowConfidence     int `json:"low_confidence,omitempty"`      // confidence floor below which the result is flagged
	HybridMinScore    int `json:"hybrid_min_score,omitempty"`    // minimum confidence for both halves of a hybrid pattern
	EmergingFrequency int `json:"emerging_frequency,omitempty"`  // occurrences needed before a term is surfaced as emerging
	MaxEmergingTerms  int `json:"max_emerging_terms,omitempty"`  // cap on emerging terms reported per job

	// Learning engine
	MinSupport           int     `json:"min_support,omitempty"`            // distinct supporting jobs required before a keyword can be suggested
	SuggestionConfidence float64 `json:"suggestion_confidence,omitempty"`  // confidence bar for recording a pending suggestion
	AutoApplyConfidence  float64 `json:"auto_apply_confidence,omitempty"`  // confidence bar for committing a suggestion to the taxonomy
	CoreTierConfidence   float64 `json:"core_tier_confidence,omitempty"`   // confidence bar for placing an applied keyword in the core tier
}

// DefaultThresholds returns the policy defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		AmbiguityGap:      10,
		LowConfidence:     40,
		HybridMinScore:    25,
		EmergingFrequency: 2,
		MaxEmergingTerms:  10,

		MinSupport:           3,
		SuggestionConfidence: 0.70,
		AutoApplyConfidence:  0.80,
		CoreTierConfidence:   0.90,
	}
}

// Validate checks that the threshold values are internally consistent.
func (t Thresholds) Validate() error {
	if t.AmbiguityGap < 0 || t.AmbiguityGap > 100 {
		return fmt.Errorf("config error: 'ambiguity_gap' must be within [0,100]")
	}
	if t.LowConfidence < 0 || t.LowConfidence > 100 {
		return fmt.Errorf("config error: 'low_confidence' must be within [0,100]")
	}
	if t.MinSupport < 1 {
		return fmt.Errorf("config error: 'min_support' must be at least 1")
	}
	if t.SuggestionConfidence < 0 || t.SuggestionConfidence > 1 {
		return fmt.Errorf("config error: 'suggestion_confidence' must be within [0,1]")
	}
	if t.AutoApplyConfidence < t.SuggestionConfidence {
		return fmt.Errorf("config error: 'auto_apply_confidence' must not be below 'suggestion_confidence'")
	}
	if t.AutoApplyConfidence > 1 {
		return fmt.Errorf("config error: 'auto_apply_confidence' must be within [0,1]")
	}
	if t.CoreTierConfidence < t.AutoApplyConfidence || t.CoreTierConfidence > 1 {
		return fmt.Errorf("config error: 'core_tier_confidence' must be within [auto_apply_confidence,1]")
	}
	return nil
}

// Config represents the tool configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Persistence
	DatabaseURL   string `json:"database_url,omitempty"`   // PostgreSQL connection URL for the remote correction store
	LocalDBPath   string `json:"local_db_path,omitempty"`  // SQLite path for the local fallback correction store
	TaxonomyFile  string `json:"taxonomy_file,omitempty"`  // optional taxonomy snapshot to load instead of the embedded seed

	// Server
	Port         int    `json:"port,omitempty"`
	AdminSecret  string `json:"admin_secret,omitempty"`  // HMAC secret for admin bearer tokens
	SyncSchedule string `json:"sync_schedule,omitempty"` // cron expression for replaying local corrections to the remote store

	// Notifications
	SlackToken   string `json:"slack_token,omitempty"`
	SlackChannel string `json:"slack_channel,omitempty"`

	// Behavior
	Verbose    bool       `json:"verbose,omitempty"`
	Thresholds Thresholds `json:"thresholds,omitempty"`
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
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be a valid TCP port")
	}
	if c.TaxonomyFile != "" {
		if _, err := os.Stat(c.TaxonomyFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: taxonomy file not found: %s", c.TaxonomyFile)
		}
	}
	return c.Thresholds.Validate()
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.LocalDBPath == "" {
		result.LocalDBPath = defaults.LocalDBPath
	}
	if result.TaxonomyFile == "" {
		result.TaxonomyFile = defaults.TaxonomyFile
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.AdminSecret == "" {
		result.AdminSecret = defaults.AdminSecret
	}
	if result.SyncSchedule == "" {
		result.SyncSchedule = defaults.SyncSchedule
	}
	if result.SlackToken == "" {
		result.SlackToken = defaults.SlackToken
	}
	if result.SlackChannel == "" {
		result.SlackChannel = defaults.SlackChannel
	}

	zero := Thresholds{}
	if result.Thresholds == zero {
		result.Thresholds = defaults.Thresholds
	}

	return result
}

// FromEnv fills unset persistence and notification fields from environment
// variables. Environment values never override explicit configuration.
func (c *Config) FromEnv() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.AdminSecret == "" {
		c.AdminSecret = os.Getenv("JOBSECTOR_ADMIN_SECRET")
	}
	if c.SlackToken == "" {
		c.SlackToken = os.Getenv("SLACK_BOT_TOKEN")
	}
	if c.SlackChannel == "" {
		c.SlackChannel = os.Getenv("SLACK_CHANNEL")
	}
}
