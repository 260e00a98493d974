// Package config loads the intake service configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Phone format variants. The form-level and server-level schemas this
// system replaces disagreed on the canonical phone rule, so it is a
// deployment decision.
const (
	PhoneLocal         = "local"         // leading zero, at least 10 digits
	PhoneInternational = "international" // leading plus, 10-15 digits
)

// Endpoint configures the remote persistence endpoint.
type Endpoint struct {
	// BaseURL is the endpoint root; the submit path is appended to it.
	BaseURL string `yaml:"base_url"`

	// Token, when set, is sent as a bearer token on submissions.
	Token string `yaml:"token,omitempty"`

	// Timeout bounds one submission request end to end.
	Timeout time.Duration `yaml:"timeout"`
}

// Log configures logging output.
type Log struct {
	Level string `yaml:"level"` // debug, info, warn, error
	JSON  bool   `yaml:"json"`
}

// Draft configures the in-memory draft store.
type Draft struct {
	// TTL is how long an abandoned draft survives before sweeping.
	TTL time.Duration `yaml:"ttl"`
}

// Config is the full service configuration.
type Config struct {
	// Listen is the HTTP listen address for the web form.
	Listen string `yaml:"listen"`

	// PhoneFormat selects the phone validation variant: "local" or
	// "international".
	PhoneFormat string `yaml:"phone_format"`

	Endpoint Endpoint `yaml:"endpoint"`
	Log      Log      `yaml:"log"`
	Draft    Draft    `yaml:"draft"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Listen:      ":3000",
		PhoneFormat: PhoneLocal,
		Endpoint: Endpoint{
			BaseURL: "http://localhost:8080",
			Timeout: 30 * time.Second,
		},
		Log:   Log{Level: "info"},
		Draft: Draft{TTL: 24 * time.Hour},
	}
}

// Load reads configuration from path, applying defaults for anything not
// set. A missing file is not an error; defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for values that cannot work.
func (c Config) Validate() error {
	if c.Listen == "" {
		return errors.New("config: listen address is empty")
	}
	if c.PhoneFormat != PhoneLocal && c.PhoneFormat != PhoneInternational {
		return fmt.Errorf("config: phone_format must be %q or %q, got %q",
			PhoneLocal, PhoneInternational, c.PhoneFormat)
	}
	if _, err := url.ParseRequestURI(c.Endpoint.BaseURL); err != nil {
		return fmt.Errorf("config: endpoint base_url: %w", err)
	}
	if c.Endpoint.Timeout <= 0 {
		return errors.New("config: endpoint timeout must be positive")
	}
	if c.Draft.TTL <= 0 {
		return errors.New("config: draft ttl must be positive")
	}
	return nil
}
