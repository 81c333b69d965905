package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ErrMissingToken is returned when no token is found in any source
var ErrMissingToken = errors.New("TOKEN not found. Create a .env with TOKEN=your_pat or export TOKEN")

const (
	// DotEnvFile is read from the working directory when present
	DotEnvFile = ".env"

	envPrefix = "FOLLOWSYNC"
	appDir    = "followsync"
)

// Load loads the configuration. The config file is optional; the token may
// come from the environment, a .env file, or the config file.
func Load(configPath string) (*Config, error) {
	var searchPaths []string
	if configPath == "" {
		// Check current directory first
		searchPaths = append(searchPaths, ".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			searchPaths = append(searchPaths, filepath.Join(home, "."+appDir))
		}

		// Check /etc
		searchPaths = append(searchPaths, filepath.Join("/etc", appDir))
	}

	return load(configPath, DotEnvFile, searchPaths)
}

func load(configPath, dotEnvPath string, searchPaths []string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// FOLLOWSYNC_LOGGING_LEVEL and friends
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("github.token", "TOKEN", "GITHUB_TOKEN"); err != nil {
		return nil, fmt.Errorf("error binding environment: %w", err)
	}

	if err := readConfigFile(v, configPath, searchPaths); err != nil {
		return nil, err
	}

	if err := loadDotEnv(v, dotEnvPath); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.GitHub.Token = strings.TrimSpace(cfg.GitHub.Token)
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// readConfigFile reads an explicit config file, or the first config.yaml
// found in searchPaths. Only an explicit file is required to exist.
func readConfigFile(v *viper.Viper, configPath string, searchPaths []string) error {
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config: %w", err)
		}
		return nil
	}

	if len(searchPaths) == 0 {
		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config: %w", err)
	}
	return nil
}

// loadDotEnv fills the token from a dotenv file. Real environment variables
// and the config file take precedence.
func loadDotEnv(v *viper.Viper, path string) error {
	if path == "" || v.GetString("github.token") != "" {
		return nil
	}

	dot := viper.New()
	dot.SetConfigFile(path)
	dot.SetConfigType("env")
	if err := dot.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading %s: %w", path, err)
	}

	for _, key := range []string{"token", "github_token"} {
		if token := strings.TrimSpace(dot.GetString(key)); token != "" {
			v.Set("github.token", token)
			return nil
		}
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// GitHub defaults
	v.SetDefault("github.token", "")
	v.SetDefault("github.api_url", "https://api.github.com")
	v.SetDefault("github.api_version", "2022-11-28")
	v.SetDefault("github.per_page", 100)
	v.SetDefault("github.timeout", "30s")

	// Sync defaults
	v.SetDefault("sync.exclude", "")

	// Safety defaults
	v.SetDefault("safety.dry_run", false)
	v.SetDefault("safety.confirm_all", true)

	// Logging defaults
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.GitHub.Token == "" {
		return ErrMissingToken
	}

	if cfg.GitHub.APIURL == "" {
		return fmt.Errorf("github.api_url is required")
	}
	if u, err := url.Parse(cfg.GitHub.APIURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid github.api_url: %s", cfg.GitHub.APIURL)
	}

	if cfg.GitHub.PerPage < 1 || cfg.GitHub.PerPage > 100 {
		return fmt.Errorf("invalid github.per_page: %d (must be between 1 and 100)", cfg.GitHub.PerPage)
	}

	if cfg.GitHub.Timeout < 0 {
		return fmt.Errorf("invalid github.timeout: %s", cfg.GitHub.Timeout)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
