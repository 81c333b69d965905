package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	GitHub  GitHubConfig  `mapstructure:"github"`
	Sync    SyncConfig    `mapstructure:"sync"`
	Safety  SafetyConfig  `mapstructure:"safety"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// GitHubConfig holds GitHub API connection details
type GitHubConfig struct {
	Token      string        `mapstructure:"token"`
	APIURL     string        `mapstructure:"api_url"`
	APIVersion string        `mapstructure:"api_version"`
	PerPage    int           `mapstructure:"per_page"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// SyncConfig controls which candidates are offered
type SyncConfig struct {
	// Exclude is an expression matching accounts that are never offered
	Exclude string `mapstructure:"exclude"`
}

// SafetyConfig contains safety-related settings
type SafetyConfig struct {
	DryRun     bool `mapstructure:"dry_run"`
	ConfirmAll bool `mapstructure:"confirm_all"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
