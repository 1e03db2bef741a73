// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

// Package config provides layered configuration for impa-org using Koanf v2.
// Precedence (highest wins): environment variables > config file > defaults.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config is the root configuration for the impa-org server.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
	Intranet IntranetConfig `koanf:"intranet"`
	Database DatabaseConfig `koanf:"database"`
	Session  SessionConfig  `koanf:"session"`
	Uploads  UploadsConfig  `koanf:"uploads"`
	Stream   StreamConfig   `koanf:"stream"`
	Security SecurityConfig `koanf:"security"`
	Admin    AdminConfig    `koanf:"admin"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// CanonicalHosts are hosts for which X-Forwarded-Proto is forced to
	// https. The site is always served over TLS on these domains; a proxy
	// that omits or mangles the header would otherwise produce http:// URLs
	// and Mixed Content errors.
	CanonicalHosts []string `koanf:"canonical_hosts"`
}

// Addr returns the listen address in host:port form.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IntranetConfig holds settings for the remote intranet identity API.
type IntranetConfig struct {
	// BaseURL is the root of the intranet API, e.g. https://intranet.example.org.
	// Empty disables the whole auth feature (surfaced as a user-facing
	// message, never a crash).
	BaseURL string `koanf:"base_url"`

	LoginTimeout   time.Duration `koanf:"login_timeout"`
	ProfileTimeout time.Duration `koanf:"profile_timeout"`

	// ChurchesURL is the public churches feed used by the directory sync.
	// Empty derives {base_url}/api/v1/public/churches.
	ChurchesURL string `koanf:"churches_url"`

	// APIKey is sent as X-API-Key on the churches feed when set.
	APIKey string `koanf:"api_key"`

	ChurchesTimeout time.Duration `koanf:"churches_timeout"`
}

// Enabled reports whether the intranet auth bridge is configured.
func (c *IntranetConfig) Enabled() bool {
	return strings.TrimSpace(c.BaseURL) != ""
}

// ChurchesEndpoint returns the churches feed URL, deriving the default
// path from BaseURL when churches_url is not set. Empty when the
// intranet is not configured at all.
func (c *IntranetConfig) ChurchesEndpoint() string {
	if u := strings.TrimSpace(c.ChurchesURL); u != "" {
		return u
	}
	if !c.Enabled() {
		return ""
	}
	return strings.TrimRight(c.BaseURL, "/") + "/api/v1/public/churches"
}

// DatabaseConfig holds BadgerDB settings.
type DatabaseConfig struct {
	// Path is the BadgerDB directory. Empty means in-memory (tests, dev).
	Path string `koanf:"path"`
}

// SessionConfig holds intranet session settings.
type SessionConfig struct {
	// CookieName is the session cookie name.
	CookieName string `koanf:"cookie_name"`

	// TTL bounds how long a cached identity can outlive a revoked intranet
	// token (a failed refresh never clears a cached identity).
	TTL time.Duration `koanf:"ttl"`

	// CleanupInterval is how often expired sessions are purged.
	CleanupInterval time.Duration `koanf:"cleanup_interval"`

	CookieSecure bool `koanf:"cookie_secure"`
}

// UploadsConfig holds church site photo upload settings.
type UploadsConfig struct {
	// Dir is the local directory where uploads are written.
	Dir string `koanf:"dir"`

	// PublicBase is the URL prefix under which uploads are served.
	PublicBase string `koanf:"public_base"`

	// MaxSizeMB is the per-file size limit.
	MaxSizeMB int64 `koanf:"max_size_mb"`

	// MaxImagesPerPage caps embedded images in a church site body.
	MaxImagesPerPage int `koanf:"max_images_per_page"`
}

// StreamConfig holds Icecast radio status settings.
type StreamConfig struct {
	// StatusURLs are candidate status page URLs, tried in order
	// (internal address first, then the public one).
	StatusURLs []string `koanf:"status_urls"`

	// PublicBase is the same-domain path prefix used for play links.
	PublicBase string `koanf:"public_base"`

	Timeout  time.Duration `koanf:"timeout"`
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// SecurityConfig holds CORS and rate limit settings.
type SecurityConfig struct {
	CORSOrigins []string `koanf:"cors_origins"`

	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`

	// Login attempts get a much stricter budget (brute force prevention).
	LoginRateLimitRequests int           `koanf:"login_rate_limit_requests"`
	LoginRateLimitWindow   time.Duration `koanf:"login_rate_limit_window"`

	RateLimitDisabled bool `koanf:"rate_limit_disabled"`
}

// AdminConfig holds local admin credentials for maintenance endpoints
// (content seeding). The password hash is a bcrypt hash; plaintext
// passwords are never stored in config.
type AdminConfig struct {
	Username     string `koanf:"username"`
	PasswordHash string `koanf:"password_hash"`
}

// Enabled reports whether admin maintenance endpoints are configured.
func (c *AdminConfig) Enabled() bool {
	return c.Username != "" && c.PasswordHash != ""
}

// Validate checks configuration consistency and returns actionable errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Intranet.Enabled() {
		u, err := url.Parse(c.Intranet.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("intranet.base_url must be an absolute URL, got %q", c.Intranet.BaseURL)
		}
		if c.Intranet.LoginTimeout <= 0 {
			return fmt.Errorf("intranet.login_timeout must be positive")
		}
		if c.Intranet.ProfileTimeout <= 0 {
			return fmt.Errorf("intranet.profile_timeout must be positive")
		}
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("session.cookie_name must not be empty")
	}

	if c.Uploads.MaxSizeMB <= 0 {
		return fmt.Errorf("uploads.max_size_mb must be positive")
	}
	if c.Uploads.MaxImagesPerPage <= 0 {
		return fmt.Errorf("uploads.max_images_per_page must be positive")
	}

	for _, raw := range c.Stream.StatusURLs {
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("stream.status_urls entry must be an absolute URL, got %q", raw)
		}
	}

	return nil
}
