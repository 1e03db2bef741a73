// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

// Package radios lists the congregation's radio streams by scraping the
// Icecast status page. The status page's HTML fragment format is small
// and stable, so regexp extraction over the known markup is enough; a
// short-TTL cache keeps the listing from hitting Icecast per request.
package radios

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/joacoabe/impa-org/internal/config"
	"github.com/joacoabe/impa-org/internal/logging"
	"github.com/joacoabe/impa-org/internal/metrics"
)

// userAgent identifies the fetcher to the Icecast server.
const userAgent = "IMPA-Radios-Fetcher/1.0"

// maxStatusBodySize bounds the status page read. A real Icecast status
// page is a few KB.
const maxStatusBodySize = 1 * 1024 * 1024

// Stream is one Icecast mount point with its status fields. Numeric
// fields stay strings because they are display-only and Icecast's
// formatting varies between versions.
type Stream struct {
	MountPoint       string `json:"mount_point"`
	StreamURL        string `json:"stream_url"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Bitrate          string `json:"bitrate,omitempty"`
	ListenersCurrent string `json:"listeners_current,omitempty"`
	ListenersPeak    string `json:"listeners_peak,omitempty"`
	CurrentlyPlaying string `json:"currently_playing,omitempty"`
	Genre            string `json:"genre,omitempty"`
	StreamStarted    string `json:"stream_started,omitempty"`
}

// displayName turns a mount point into a listing title: /centro.mp3
// becomes Centro.
func displayName(mountPoint string) string {
	base := strings.TrimSuffix(strings.Trim(mountPoint, "/"), ".mp3")
	if base == "" {
		return ""
	}
	return strings.ToUpper(base[:1]) + base[1:]
}

var (
	mountPattern = regexp.MustCompile(`(?i)<h3\s+class="mount">Mount Point\s+([^<]+)</h3>`)

	// fieldPatterns extract the labelled status table cells per block.
	fieldPatterns = map[string]*regexp.Regexp{
		"description":       statusFieldPattern("Stream Description:"),
		"bitrate":           statusFieldPattern("Bitrate:"),
		"listeners_current": statusFieldPattern(`Listeners \(current\):`),
		"listeners_peak":    statusFieldPattern(`Listeners \(peak\):`),
		"currently_playing": statusFieldPattern("Currently playing:"),
		"genre":             statusFieldPattern("Genre:"),
		"stream_started":    statusFieldPattern("Stream started:"),
	}
)

func statusFieldPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)<td>\s*` + label + `\s*</td>\s*<td[^>]*>([^<]*)</td>`)
}

func extractField(block, name string) string {
	if m := fieldPatterns[name].FindStringSubmatch(block); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// ParseStatusPage extracts the streams from the Icecast status HTML.
// Each "roundbox" div is one mount point; blocks without a recognizable
// mount heading are skipped. Play URLs are built under publicBase so
// listeners always get the same-domain public path.
func ParseStatusPage(html, publicBase string) []Stream {
	publicBase = strings.TrimRight(publicBase, "/")

	blocks := strings.Split(html, `<div class="roundbox">`)
	if len(blocks) < 2 {
		return nil
	}

	var streams []Stream
	for _, block := range blocks[1:] {
		m := mountPattern.FindStringSubmatch(block)
		if m == nil {
			continue
		}

		mountPoint := strings.TrimSpace(m[1])
		if !strings.HasPrefix(mountPoint, "/") {
			mountPoint = "/" + mountPoint
		}

		description := extractField(block, "description")
		if description == "" {
			description = "Sin descripción"
		}

		streams = append(streams, Stream{
			MountPoint:       mountPoint,
			StreamURL:        publicBase + mountPoint,
			Name:             displayName(mountPoint),
			Description:      description,
			Bitrate:          extractField(block, "bitrate"),
			ListenersCurrent: extractField(block, "listeners_current"),
			ListenersPeak:    extractField(block, "listeners_peak"),
			CurrentlyPlaying: extractField(block, "currently_playing"),
			Genre:            extractField(block, "genre"),
			StreamStarted:    extractField(block, "stream_started"),
		})
	}
	return streams
}

// Lister fetches and caches the stream listing.
//
// Thread safety: safe for concurrent use; the cache is guarded by a
// mutex and at most one fetch runs at a time.
type Lister struct {
	statusURLs []string
	publicBase string
	timeout    time.Duration
	cacheTTL   time.Duration
	httpClient *http.Client

	mu        sync.Mutex
	cached    []Stream
	fetchedAt time.Time
}

// NewLister builds a Lister from configuration.
func NewLister(cfg *config.StreamConfig) *Lister {
	return &Lister{
		statusURLs: cfg.StatusURLs,
		publicBase: cfg.PublicBase,
		timeout:    cfg.Timeout,
		cacheTTL:   cfg.CacheTTL,
		httpClient: &http.Client{},
	}
}

// List returns the current streams, from cache when fresh. A failed
// refresh degrades to an empty list with a logged warning; listeners
// see "no radios right now" rather than an error page.
func (l *Lister) List(ctx context.Context) []Stream {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cached != nil && time.Since(l.fetchedAt) < l.cacheTTL {
		return l.cached
	}

	streams, err := l.fetch(ctx)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Radio stream status fetch failed")
		metrics.RadioScrapes.WithLabelValues("failure").Inc()
		// Serve stale data if we have it.
		if l.cached != nil {
			return l.cached
		}
		return []Stream{}
	}

	metrics.RadioScrapes.WithLabelValues("success").Inc()
	metrics.RadioStreamsListed.Set(float64(len(streams)))

	l.cached = streams
	l.fetchedAt = time.Now()
	return streams
}

// fetch tries the candidate status URLs in order (internal address
// first, then the public one) and parses the first page retrieved.
func (l *Lister) fetch(ctx context.Context) ([]Stream, error) {
	if len(l.statusURLs) == 0 {
		return nil, fmt.Errorf("no stream status URLs configured")
	}

	var lastErr error
	for _, base := range l.statusURLs {
		url := strings.TrimRight(base, "/") + "/"

		html, err := l.fetchOne(ctx, url)
		if err != nil {
			lastErr = err
			continue
		}
		return ParseStatusPage(html, l.publicBase), nil
	}
	return nil, lastErr
}

func (l *Lister) fetchOne(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxStatusBodySize))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", url, err)
	}
	return string(body), nil
}
