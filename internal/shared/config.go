package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	Database DatabaseConfig `toml:"database"`
	Likes    LikesConfig    `toml:"likes"`
}

// APIConfig contains backend connection settings.
type APIConfig struct {
	BaseURL          string `toml:"base_url"`
	TimeoutSeconds   int    `toml:"timeout_seconds"`
	ReconnectSeconds int    `toml:"reconnect_seconds"`
}

// Timeout returns the per-request timeout as a [time.Duration].
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// ReconnectDelay returns the push-channel reconnect delay as a [time.Duration].
func (a APIConfig) ReconnectDelay() time.Duration {
	return time.Duration(a.ReconnectSeconds) * time.Second
}

// DatabaseConfig contains local database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LikesConfig contains pacing settings for like checks and toggles.
type LikesConfig struct {
	RateLimit float64 `toml:"rate_limit"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// A .env file in the working directory (if any) is loaded first; the
// SOUNDPOST_API_URL and SOUNDPOST_DB_PATH variables override the file values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyEnv()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

// applyEnv overlays environment variables onto the config. Missing .env
// files are not an error; explicit environment always wins over the file.
func (c *Config) applyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("SOUNDPOST_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("SOUNDPOST_DB_PATH"); v != "" {
		c.Database.Path = v
	}
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
