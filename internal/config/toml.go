// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Environment variables consulted for the service origin.
const (
	EnvAPIURL = "DOCQUIZ_API_URL"
	EnvHost   = "DOCQUIZ_HOST"
)

// DefaultAPIPort is used when the origin is derived from the host.
const DefaultAPIPort = 5000

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Session SessionConfig `toml:"session"`
	API     APIConfig     `toml:"api"`
}

// SessionConfig maps upload-stage settings.
type SessionConfig struct {
	Mode       *string `toml:"mode"`
	Questions  *int    `toml:"questions"`
	Difficulty *string `toml:"difficulty"`
	Lang       *string `toml:"lang"`
	Timer      *bool   `toml:"timer"`
	TimeLimit  *int    `toml:"time-limit"`
}

// APIConfig maps service settings.
type APIConfig struct {
	URL     *string `toml:"url"`
	Timeout *string `toml:"timeout"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// ParseTimeout parses the configured request timeout. A nil or empty value
// returns zero.
func (c APIConfig) ParseTimeout() (time.Duration, error) {
	if c.Timeout == nil || strings.TrimSpace(*c.Timeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(*c.Timeout))
	if err != nil {
		return 0, fmt.Errorf("invalid api timeout %q: %w", *c.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid api timeout %q: must not be negative", *c.Timeout)
	}
	return d, nil
}

// ResolveBaseURL picks the service origin: the flag value, then
// DOCQUIZ_API_URL, then the config file, then http://<host>:5000 with host
// from DOCQUIZ_HOST or localhost.
func ResolveBaseURL(flagValue string, fileCfg APIConfig) string {
	if v := strings.TrimSpace(flagValue); v != "" {
		return strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		return strings.TrimRight(v, "/")
	}
	if fileCfg.URL != nil {
		if v := strings.TrimSpace(*fileCfg.URL); v != "" {
			return strings.TrimRight(v, "/")
		}
	}
	host := strings.TrimSpace(os.Getenv(EnvHost))
	if host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, DefaultAPIPort)
}
