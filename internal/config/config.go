// Package config loads the assessment tool's settings from an
// optional YAML file with environment-variable overrides on top.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all tool settings. Construct one in Go code, or place
// an assess.yaml next to the binary and call Load().
type Config struct {
	// BackendURL is the base URL of the assessment service.
	BackendURL string `yaml:"backend_url"`

	// DBPath is the SQLite file holding session state and history.
	DBPath string `yaml:"db_path"`

	// RequestTimeoutSec bounds individual service calls.
	RequestTimeoutSec int `yaml:"request_timeout_sec"`

	// PollIntervalSec is the readiness check cadence.
	PollIntervalSec int `yaml:"poll_interval_sec"`

	// Locale selects the UI language ("de" or "en").
	Locale string `yaml:"locale"`

	// Offline skips the service catalog fetch and uses the embedded
	// catalog.
	Offline bool `yaml:"offline"`
}

// Default returns the built-in configuration.
// Env overrides: GOVASSESS_BACKEND_URL, GOVASSESS_DB,
// GOVASSESS_TIMEOUT, GOVASSESS_LOCALE, GOVASSESS_OFFLINE.
func Default() Config {
	cfg := Config{
		BackendURL:        "http://localhost:8000",
		DBPath:            "assess.db",
		RequestTimeoutSec: 30,
		PollIntervalSec:   15,
		Locale:            "de",
	}
	cfg.applyEnv()
	return cfg
}

// Load reads a YAML file, applies defaults for unset fields, then env
// overrides. A missing file is not an error; the defaults apply.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg, nil
}

// RequestTimeout returns the service call timeout as a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// PollInterval returns the readiness poll cadence as a duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSec) * time.Second
}

func (c *Config) applyDefaults() {
	if c.BackendURL == "" {
		c.BackendURL = "http://localhost:8000"
	}
	if c.DBPath == "" {
		c.DBPath = "assess.db"
	}
	if c.RequestTimeoutSec == 0 {
		c.RequestTimeoutSec = 30
	}
	if c.PollIntervalSec == 0 {
		c.PollIntervalSec = 15
	}
	if c.Locale == "" {
		c.Locale = "de"
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("GOVASSESS_BACKEND_URL"); v != "" {
		c.BackendURL = v
	}
	if v := os.Getenv("GOVASSESS_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("GOVASSESS_TIMEOUT"); v != "" {
		if sec, err := strconv.Atoi(v); err == nil && sec > 0 {
			c.RequestTimeoutSec = sec
		}
	}
	if v := os.Getenv("GOVASSESS_LOCALE"); v != "" {
		c.Locale = v
	}
	if v := os.Getenv("GOVASSESS_OFFLINE"); v != "" {
		c.Offline = v == "true" || v == "1"
	}
}
