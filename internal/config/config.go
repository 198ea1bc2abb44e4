// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zoneboard Contributors

// Package config loads Zoneboard configuration from an optional YAML file
// overlaid with command-line flags.
package config

import (
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config holds the serve command configuration.
type Config struct {
	// ListenAddr is the API/web listen address.
	ListenAddr string `koanf:"listen_addr"`

	// MetricsAddr is the metrics/health listen address. Empty disables
	// the observability server.
	MetricsAddr string `koanf:"metrics_addr"`

	// DatabaseURL is the PostgreSQL connection string. The connecting
	// role needs CREATEROLE and ADMIN OPTION on the reader role so
	// signups can provision principals.
	DatabaseURL string `koanf:"database_url"`

	// ReaderRole is the fixed privilege group granted to every
	// provisioned login role.
	ReaderRole string `koanf:"reader_role"`

	// StaticDir serves the web frontend when non-empty.
	StaticDir string `koanf:"static_dir"`

	// LogFormat is "json" or "text".
	LogFormat string `koanf:"log_format"`

	// CORSOrigins lists origin prefixes allowed to make credentialed
	// cross-origin requests.
	CORSOrigins []string `koanf:"cors_origins"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ListenAddr:  ":8000",
		MetricsAddr: "127.0.0.1:9100",
		ReaderRole:  "housing_reader",
		LogFormat:   "json",
		CORSOrigins: []string{"http://localhost", "https://localhost"},
	}
}

// Load builds a Config from defaults, an optional YAML file, and a flag
// set, in ascending precedence.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("listen_addr is required")
	}
	if c.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database_url is required")
	}
	if c.ReaderRole == "" {
		return oops.Code("CONFIG_INVALID").Errorf("reader_role is required")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return oops.Code("CONFIG_INVALID").
			With("log_format", c.LogFormat).
			Errorf("log_format must be 'json' or 'text'")
	}
	return nil
}
