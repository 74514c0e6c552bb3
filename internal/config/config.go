package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration.
// Follows Single Responsibility - only holds configuration data.
type Config struct {
	// Username is the code-hosting account whose activity is summarized.
	Username string `yaml:"username"`

	// Timezone is the IANA timezone name used for the rendered date.
	Timezone string `yaml:"timezone"`

	// RecencyWindowDays: repository updates strictly fewer than this many
	// days old count as recent activity.
	RecencyWindowDays int `yaml:"recency_window_days"`

	// MaxReposListed caps how many repositories the digest mentions.
	MaxReposListed int `yaml:"max_repos_listed"`

	// ReadmePath is the templated document rewritten in place.
	ReadmePath string `yaml:"readme_path"`

	// GitHub configuration
	GitHubURL   string `yaml:"github_url"`
	GitHubToken string `yaml:"-"`

	// CacheDurationSeconds is the TTL for cached API responses.
	// Zero disables the caching layer.
	CacheDurationSeconds int `yaml:"cache_duration_seconds"`

	// Daemon mode configuration
	Port                   int `yaml:"port"`
	RefreshIntervalMinutes int `yaml:"refresh_interval_minutes"`

	// Information holds the static placeholder values substituted into
	// the document alongside the generated ones (name, city, contact, ...).
	Information map[string]string `yaml:"information"`
}

// Load loads configuration from the optional YAML file at path, with
// environment variables taking precedence over file values.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if cfg.Username == "" {
		return nil, fmt.Errorf("username is required (set 'username' in the config file or GITHUB_USER)")
	}

	return cfg, nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// CacheDuration returns the API cache TTL as a duration.
func (c *Config) CacheDuration() time.Duration {
	return time.Duration(c.CacheDurationSeconds) * time.Second
}

// RefreshInterval returns the daemon refresh interval as a duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalMinutes) * time.Minute
}

func defaults() *Config {
	return &Config{
		Timezone:               "UTC",
		RecencyWindowDays:      14,
		MaxReposListed:         5,
		ReadmePath:             "README.md",
		GitHubURL:              "https://api.github.com",
		CacheDurationSeconds:   300,
		Port:                   8080,
		RefreshIntervalMinutes: 60,
	}
}

// applyEnv overlays environment variables on top of the loaded config.
// Invalid numeric values fall back to whatever was configured before.
func applyEnv(cfg *Config) {
	cfg.Username = getEnvOrDefault("GITHUB_USER", cfg.Username)
	cfg.Timezone = getEnvOrDefault("TIMEZONE", cfg.Timezone)
	cfg.ReadmePath = getEnvOrDefault("README_PATH", cfg.ReadmePath)
	cfg.GitHubURL = getEnvOrDefault("GITHUB_URL", cfg.GitHubURL)
	cfg.GitHubToken = getEnvOrDefault("GITHUB_TOKEN", cfg.GitHubToken)

	cfg.RecencyWindowDays = getEnvIntOrDefault("RECENCY_WINDOW_DAYS", cfg.RecencyWindowDays)
	cfg.MaxReposListed = getEnvIntOrDefault("MAX_REPOS_LISTED", cfg.MaxReposListed)
	cfg.CacheDurationSeconds = getEnvIntOrDefault("CACHE_DURATION_SECONDS", cfg.CacheDurationSeconds)
	cfg.Port = getEnvIntOrDefault("PORT", cfg.Port)
	cfg.RefreshIntervalMinutes = getEnvIntOrDefault("REFRESH_INTERVAL_MINUTES", cfg.RefreshIntervalMinutes)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
