package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.API.BaseURL != "http://localhost:5000" {
			t.Errorf("expected api base_url http://localhost:5000, got %s", config.API.BaseURL)
		}

		if config.API.Timeout() != 10*time.Second {
			t.Errorf("expected api timeout 10s, got %v", config.API.Timeout())
		}

		if config.API.ReconnectDelay() != 5*time.Second {
			t.Errorf("expected reconnect delay 5s, got %v", config.API.ReconnectDelay())
		}

		if config.Database.Path != "./soundpost.db" {
			t.Errorf("expected database path ./soundpost.db, got %s", config.Database.Path)
		}

		if config.Likes.RateLimit != 5.0 {
			t.Errorf("expected like rate limit 5.0, got %f", config.Likes.RateLimit)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[api]
base_url = "https://soundpost.example.com"
timeout_seconds = 3
reconnect_seconds = 1

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[likes]
rate_limit = 2.5
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.BaseURL != "https://soundpost.example.com" {
			t.Errorf("expected base_url https://soundpost.example.com, got %s", config.API.BaseURL)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Likes.RateLimit != 2.5 {
			t.Errorf("expected like rate limit 2.5, got %f", config.Likes.RateLimit)
		}
	})

	t.Run("Environment Overrides", func(t *testing.T) {
		t.Setenv("SOUNDPOST_API_URL", "http://10.0.0.2:5000")
		t.Setenv("SOUNDPOST_DB_PATH", "/tmp/override.db")

		config := DefaultConfig()

		if config.API.BaseURL != "http://10.0.0.2:5000" {
			t.Errorf("expected env override for base_url, got %s", config.API.BaseURL)
		}
		if config.Database.Path != "/tmp/override.db" {
			t.Errorf("expected env override for db path, got %s", config.Database.Path)
		}
	})
}
