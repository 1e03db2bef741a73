// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

package intranet

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/joacoabe/impa-org/internal/config"
	"github.com/joacoabe/impa-org/internal/logging"
	"github.com/joacoabe/impa-org/internal/metrics"
)

// maxChurchesBodySize bounds the churches feed response. The national
// directory is ~120 churches; 4 MB leaves generous headroom.
const maxChurchesBodySize = 4 * 1024 * 1024

// PersonName is how the feed reports a pastor or pastora.
type PersonName struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// String joins first and last name, dropping empty parts.
func (p *PersonName) String() string {
	if p == nil {
		return ""
	}
	parts := make([]string, 0, 2)
	if s := strings.TrimSpace(p.FirstName); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(p.LastName); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

// ChurchRecord is one church row from GET /api/v1/public/churches.
type ChurchRecord struct {
	ID        int         `json:"id"`
	Name      string      `json:"name"`
	Latitude  *float64    `json:"latitude"`
	Longitude *float64    `json:"longitude"`
	Province  string      `json:"province"`
	Address   string      `json:"address"`
	City      string      `json:"city"`
	Pastor    *PersonName `json:"pastor"`
	Pastora   *PersonName `json:"pastora"`
}

// PastorText renders the pastoral couple as a single display string,
// "pastor / pastora" when both are present.
func (r *ChurchRecord) PastorText() string {
	parts := make([]string, 0, 2)
	if s := r.Pastor.String(); s != "" {
		parts = append(parts, s)
	}
	if s := r.Pastora.String(); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, " / ")
}

// churchesResponse is the feed's wire envelope.
type churchesResponse struct {
	Data []ChurchRecord `json:"data"`
}

// ChurchesClient fetches the intranet's public church directory feed.
// Unlike the identity API it returns errors to the caller: the sync runs
// from an operator-triggered endpoint where a visible failure is wanted.
type ChurchesClient struct {
	endpoint   string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

// NewChurchesClient builds a feed client from configuration.
func NewChurchesClient(cfg *config.IntranetConfig) *ChurchesClient {
	return &ChurchesClient{
		endpoint:   cfg.ChurchesEndpoint(),
		apiKey:     cfg.APIKey,
		timeout:    cfg.ChurchesTimeout,
		httpClient: &http.Client{},
	}
}

// FetchChurches returns every church in the feed.
func (c *ChurchesClient) FetchChurches(ctx context.Context) ([]ChurchRecord, error) {
	if c.endpoint == "" {
		return nil, ErrNotConfigured()
	}

	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build churches request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("url", c.endpoint).Msg("Intranet churches request failed")
		metrics.RecordIntranetRequest("churches", "transport_error", time.Since(start))
		return nil, &Error{Reason: FailureTransport, Message: msgCannotConnect, cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logging.Ctx(ctx).Warn().Int("status", resp.StatusCode).Str("url", c.endpoint).Msg("Intranet churches fetch rejected")
		metrics.RecordIntranetRequest("churches", "rejected", time.Since(start))
		return nil, &Error{
			Reason:  FailureRejected,
			Message: fmt.Sprintf("el directorio de iglesias respondió %d", resp.StatusCode),
		}
	}

	var payload churchesResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxChurchesBodySize)).Decode(&payload); err != nil {
		metrics.RecordIntranetRequest("churches", "transport_error", time.Since(start))
		return nil, fmt.Errorf("decode churches response: %w", err)
	}

	metrics.RecordIntranetRequest("churches", "success", time.Since(start))
	return payload.Data, nil
}
