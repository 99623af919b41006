package cli

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the optional bindery configuration file.
//
//	database: sqlite:/var/lib/bindery/pub.db
//	trusted_publishers:
//	  - archive-bot
type Config struct {
	// Database overrides the --db flag when set.
	Database string `yaml:"database,omitempty"`

	// TrustedPublishers lists publisher ids whose submissions skip
	// acceptance gating and commit immediately.
	TrustedPublishers []string `yaml:"trusted_publishers,omitempty"`
}

// LoadConfig reads a config YAML file. Unknown fields are rejected.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// IsTrusted reports whether the publisher is in the trusted list.
func (c *Config) IsTrusted(publisher string) bool {
	if c == nil {
		return false
	}
	for _, p := range c.TrustedPublishers {
		if p == publisher {
			return true
		}
	}
	return false
}

// resolveConfig loads the config named by --config, or returns an empty
// config when the flag is unset.
func resolveConfig(opts *RootOptions) (*Config, error) {
	if opts.Config == "" {
		return &Config{}, nil
	}
	return LoadConfig(opts.Config)
}

// resolveDatabase picks the database target: config file over flag default.
func resolveDatabase(opts *RootOptions, cfg *Config) string {
	if cfg != nil && cfg.Database != "" {
		return cfg.Database
	}
	return opts.Database
}
