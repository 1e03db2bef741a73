// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/impa-org/config.yaml",
	"/etc/impa-org/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix is the prefix for impa-org environment variables.
const envPrefix = "IMPA_"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8085,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CanonicalHosts:  []string{},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Intranet: IntranetConfig{
			BaseURL:         "",
			LoginTimeout:    15 * time.Second,
			ProfileTimeout:  10 * time.Second,
			ChurchesTimeout: 20 * time.Second,
		},
		Database: DatabaseConfig{
			Path: "/data/impa-org",
		},
		Session: SessionConfig{
			CookieName:      "impa_session",
			TTL:             12 * time.Hour,
			CleanupInterval: 15 * time.Minute,
			CookieSecure:    true,
		},
		Uploads: UploadsConfig{
			Dir:              "/data/media/church_site_uploads",
			PublicBase:       "/media/church_site_uploads",
			MaxSizeMB:        5,
			MaxImagesPerPage: 5,
		},
		Stream: StreamConfig{
			StatusURLs: []string{},
			PublicBase: "/stream",
			Timeout:    8 * time.Second,
			CacheTTL:   30 * time.Second,
		},
		Security: SecurityConfig{
			CORSOrigins:            []string{},
			RateLimitRequests:      100,
			RateLimitWindow:        time.Minute,
			LoginRateLimitRequests: 5,
			LoginRateLimitWindow:   5 * time.Minute,
			RateLimitDisabled:      false,
		},
		Admin: AdminConfig{},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in sensible defaults
//  2. Config file: optional YAML file (if it exists)
//  3. Environment variables: IMPA_*-prefixed overrides
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	// IMPA_INTRANET_BASE_URL -> intranet.base_url
	// IMPA_SERVER_PORT       -> server.port
	envProvider := env.Provider(envPrefix, ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Comma-separated env values for slice fields
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envTransformFunc transforms environment variable names to koanf config paths.
// The section name is the first underscore-delimited token after the prefix;
// the rest of the name keeps its underscores:
//
//	IMPA_INTRANET_BASE_URL -> intranet.base_url
//	IMPA_SESSION_COOKIE_NAME -> session.cookie_name
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))

	parts := strings.SplitN(key, "_", 2)
	if len(parts) < 2 {
		return key
	}
	return parts[0] + "." + parts[1]
}

// sliceConfigPaths defines which config paths should be parsed as
// comma-separated slices when they arrive from env vars as strings.
var sliceConfigPaths = []string{
	"server.canonical_hosts",
	"security.cors_origins",
	"stream.status_urls",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Values loaded from YAML are already slices and are
// left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}
