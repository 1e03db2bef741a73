// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

package intranet

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/joacoabe/impa-org/internal/config"
	"github.com/joacoabe/impa-org/internal/logging"
	"github.com/joacoabe/impa-org/internal/metrics"
)

const (
	loginPath   = "/api/v1/auth/login"
	profilePath = "/api/v1/public/me"
)

// maxBodySize limits how much of a response body is read. Identity payloads
// are small; anything larger is hostile or broken.
const maxBodySize = 64 * 1024

// API is the surface the rest of the application consumes. Implemented by
// Client and by the circuit-breaker wrapper.
type API interface {
	// Login authenticates against the intranet. On success it returns the
	// bearer token and the user payload embedded in the login response.
	// Every failure is an *Error with a tagged reason; raw transport errors
	// never escape.
	Login(ctx context.Context, username, password string) (string, *UserPayload, error)

	// FetchProfile fetches the full identity for a token. Returns nil on
	// any non-200 status or transport failure (logged, never raised).
	FetchProfile(ctx context.Context, token string) *Identity
}

// Client is the HTTP client for the intranet identity API.
//
// Thread safety: safe for concurrent use; each call builds its own request.
type Client struct {
	baseURL        string
	loginTimeout   time.Duration
	profileTimeout time.Duration
	httpClient     *http.Client
}

// NewClient creates an intranet API client from configuration.
// An empty base URL is allowed: every call then fails with a
// not-configured error instead of panicking at startup, so the rest of the
// site keeps working without the auth feature.
func NewClient(cfg *config.IntranetConfig) *Client {
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		loginTimeout:   cfg.LoginTimeout,
		profileTimeout: cfg.ProfileTimeout,
		httpClient:     &http.Client{},
	}
}

// loginResponse is the wire shape of POST /api/v1/auth/login.
type loginResponse struct {
	AccessToken string       `json:"access_token"`
	User        *UserPayload `json:"user"`
	Error       string       `json:"error"`
}

// Login implements API.
func (c *Client) Login(ctx context.Context, username, password string) (string, *UserPayload, error) {
	if c.baseURL == "" {
		return "", nil, ErrNotConfigured()
	}

	start := time.Now()

	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return "", nil, &Error{Reason: FailureRejected, Message: msgLoginUnexpected, cause: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.loginTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginPath, bytes.NewReader(body))
	if err != nil {
		return "", nil, &Error{Reason: FailureRejected, Message: msgLoginUnexpected, cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("url", c.baseURL+loginPath).Msg("Intranet login request failed")
		metrics.RecordIntranetRequest("login", "transport_error", time.Since(start))
		return "", nil, &Error{Reason: FailureTransport, Message: msgCannotConnect, cause: err}
	}
	defer resp.Body.Close()

	var payload loginResponse
	if isJSON(resp) {
		// Decode errors are tolerated: a non-200 with a broken body still
		// gets the generic rejection message below.
		_ = json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&payload)
	}

	if resp.StatusCode != http.StatusOK {
		message := strings.TrimSpace(payload.Error)
		if message == "" {
			message = msgBadCredentials
		}
		logging.Ctx(ctx).Warn().Int("status", resp.StatusCode).Str("user", username).Msg("Intranet rejected login")
		metrics.RecordIntranetRequest("login", "rejected", time.Since(start))
		return "", nil, &Error{Reason: FailureRejected, Message: message}
	}

	token := strings.TrimSpace(payload.AccessToken)
	if token == "" {
		metrics.RecordIntranetRequest("login", "rejected", time.Since(start))
		return "", nil, &Error{Reason: FailureNoToken, Message: msgNoToken}
	}

	metrics.RecordIntranetRequest("login", "success", time.Since(start))
	return token, payload.User, nil
}

// FetchProfile implements API.
func (c *Client) FetchProfile(ctx context.Context, token string) *Identity {
	if c.baseURL == "" {
		return nil
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}

	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.profileTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+profilePath, http.NoBody)
	if err != nil {
		return nil
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("url", c.baseURL+profilePath).Msg("Intranet profile request failed")
		metrics.RecordIntranetRequest("profile", "transport_error", time.Since(start))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logging.Ctx(ctx).Warn().Int("status", resp.StatusCode).Str("url", c.baseURL+profilePath).Msg("Intranet profile fetch rejected")
		metrics.RecordIntranetRequest("profile", "rejected", time.Since(start))
		return nil
	}

	var payload UserPayload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&payload); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Intranet profile response decode failed")
		metrics.RecordIntranetRequest("profile", "transport_error", time.Since(start))
		return nil
	}

	metrics.RecordIntranetRequest("profile", "success", time.Since(start))
	return IdentityFromPayload(&payload)
}

// isJSON reports whether the response declares a JSON body.
func isJSON(resp *http.Response) bool {
	return strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json")
}
