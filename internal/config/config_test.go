package config

import (
	"os"
	"path/filepath"
	"testing"
)

// clearEnv blanks every variable the loader reads, so ambient CI
// environment never leaks into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GITHUB_USER", "TIMEZONE", "README_PATH", "GITHUB_URL", "GITHUB_TOKEN",
		"RECENCY_WINDOW_DAYS", "MAX_REPOS_LISTED", "CACHE_DURATION_SECONDS",
		"PORT", "REFRESH_INTERVAL_MINUTES",
	} {
		t.Setenv(key, "")
	}
}

// TestLoad_Defaults tests loading config with default values.
// Follows AAA (Arrange, Act, Assert) pattern.
func TestLoad_Defaults(t *testing.T) {
	// Arrange
	clearEnv(t)
	t.Setenv("GITHUB_USER", "nicojahn")

	// Act
	cfg, err := Load("")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Username != "nicojahn" {
		t.Errorf("expected username 'nicojahn', got %q", cfg.Username)
	}

	if cfg.RecencyWindowDays != 14 {
		t.Errorf("expected default recency window 14, got %d", cfg.RecencyWindowDays)
	}

	if cfg.MaxReposListed != 5 {
		t.Errorf("expected default listing cap 5, got %d", cfg.MaxReposListed)
	}

	if cfg.ReadmePath != "README.md" {
		t.Errorf("expected default readme path 'README.md', got %q", cfg.ReadmePath)
	}

	if cfg.GitHubURL != "https://api.github.com" {
		t.Errorf("expected default GitHub URL, got %q", cfg.GitHubURL)
	}

	if cfg.Timezone != "UTC" {
		t.Errorf("expected default timezone UTC, got %q", cfg.Timezone)
	}
}

// TestLoad_MissingUsername tests that a username is required.
func TestLoad_MissingUsername(t *testing.T) {
	// Arrange
	clearEnv(t)

	// Act
	cfg, err := Load("")

	// Assert
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if cfg != nil {
		t.Errorf("expected nil config on error, got %v", cfg)
	}
}

// TestLoad_EnvOverrides tests environment variables taking effect.
func TestLoad_EnvOverrides(t *testing.T) {
	// Arrange
	clearEnv(t)
	t.Setenv("GITHUB_USER", "someone")
	t.Setenv("TIMEZONE", "Europe/Berlin")
	t.Setenv("RECENCY_WINDOW_DAYS", "7")
	t.Setenv("MAX_REPOS_LISTED", "3")
	t.Setenv("GITHUB_TOKEN", "secret-token")

	// Act
	cfg, err := Load("")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Timezone != "Europe/Berlin" {
		t.Errorf("expected timezone Europe/Berlin, got %q", cfg.Timezone)
	}

	if cfg.RecencyWindowDays != 7 {
		t.Errorf("expected recency window 7, got %d", cfg.RecencyWindowDays)
	}

	if cfg.MaxReposListed != 3 {
		t.Errorf("expected listing cap 3, got %d", cfg.MaxReposListed)
	}

	if cfg.GitHubToken != "secret-token" {
		t.Errorf("expected token from environment, got %q", cfg.GitHubToken)
	}
}

// TestLoad_InvalidInt tests that invalid numeric values fall back to
// defaults.
func TestLoad_InvalidInt(t *testing.T) {
	// Arrange
	clearEnv(t)
	t.Setenv("GITHUB_USER", "someone")
	t.Setenv("RECENCY_WINDOW_DAYS", "not-a-number")

	// Act
	cfg, err := Load("")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.RecencyWindowDays != 14 {
		t.Errorf("expected default recency window 14 for invalid input, got %d", cfg.RecencyWindowDays)
	}
}

// TestLoad_YAMLFile tests loading from a YAML configuration file.
func TestLoad_YAMLFile(t *testing.T) {
	// Arrange
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "readme-refresh.yaml")
	content := `username: nicojahn
timezone: Europe/Berlin
max_repos_listed: 2
readme_path: docs/README.md
information:
  name: Nico Jahn
  city: Berlin
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	// Act
	cfg, err := Load(path)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Username != "nicojahn" {
		t.Errorf("expected username from file, got %q", cfg.Username)
	}

	if cfg.MaxReposListed != 2 {
		t.Errorf("expected listing cap 2 from file, got %d", cfg.MaxReposListed)
	}

	if cfg.ReadmePath != "docs/README.md" {
		t.Errorf("expected readme path from file, got %q", cfg.ReadmePath)
	}

	if cfg.Information["city"] != "Berlin" {
		t.Errorf("expected information map from file, got %v", cfg.Information)
	}

	// File values not mentioned keep their defaults
	if cfg.RecencyWindowDays != 14 {
		t.Errorf("expected default recency window 14, got %d", cfg.RecencyWindowDays)
	}
}

// TestLoad_EnvBeatsFile tests environment precedence over the file.
func TestLoad_EnvBeatsFile(t *testing.T) {
	// Arrange
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "readme-refresh.yaml")
	if err := os.WriteFile(path, []byte("username: from-file\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("GITHUB_USER", "from-env")

	// Act
	cfg, err := Load(path)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Username != "from-env" {
		t.Errorf("expected env to win, got %q", cfg.Username)
	}
}

// TestLoad_MissingFile tests that a nonexistent config file is fine when
// the environment carries the required values.
func TestLoad_MissingFile(t *testing.T) {
	// Arrange
	clearEnv(t)
	t.Setenv("GITHUB_USER", "someone")

	// Act
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Username != "someone" {
		t.Errorf("expected username from env, got %q", cfg.Username)
	}
}

// TestLoad_MalformedFile tests that broken YAML surfaces as an error.
func TestLoad_MalformedFile(t *testing.T) {
	// Arrange
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "readme-refresh.yaml")
	if err := os.WriteFile(path, []byte("username: [unclosed\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	// Act
	_, err := Load(path)

	// Assert
	if err == nil {
		t.Fatal("expected error for malformed YAML, got nil")
	}
}

// TestConfig_Location tests timezone resolution.
func TestConfig_Location(t *testing.T) {
	// Arrange
	cfg := &Config{Timezone: "Europe/Berlin"}

	// Act
	loc, err := cfg.Location()

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if loc.String() != "Europe/Berlin" {
		t.Errorf("expected Europe/Berlin, got %s", loc)
	}
}
