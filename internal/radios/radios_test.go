// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

package radios

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/joacoabe/impa-org/internal/config"
)

// statusPageFixture mimics the Icecast2 status page markup the parser
// was written against: one roundbox div per mount point.
const statusPageFixture = `
<html><body>
<div class="roundbox">
<h3 class="mount">Mount Point /centro.mp3</h3>
<table>
<tr><td>Stream Description:</td><td class="streamdata">Radio IMPA Centro</td></tr>
<tr><td>Bitrate:</td><td class="streamdata">128</td></tr>
<tr><td>Listeners (current):</td><td class="streamdata">12</td></tr>
<tr><td>Listeners (peak):</td><td class="streamdata">40</td></tr>
<tr><td>Currently playing:</td><td class="streamdata">Culto dominical</td></tr>
<tr><td>Genre:</td><td class="streamdata">Gospel</td></tr>
<tr><td>Stream started:</td><td class="streamdata">Sun, 01 Mar 2026 10:00:00 -0300</td></tr>
</table>
</div>
<div class="roundbox">
<h3 class="mount">Mount Point /sur.mp3</h3>
<table>
<tr><td>Bitrate:</td><td class="streamdata">96</td></tr>
</table>
</div>
<div class="roundbox">
<p>Server status block without a mount heading</p>
</div>
</body></html>`

func TestParseStatusPage(t *testing.T) {
	streams := ParseStatusPage(statusPageFixture, "/stream")

	if len(streams) != 2 {
		t.Fatalf("got %d streams, want 2", len(streams))
	}

	centro := streams[0]
	if centro.MountPoint != "/centro.mp3" {
		t.Errorf("MountPoint = %q, want /centro.mp3", centro.MountPoint)
	}
	if centro.StreamURL != "/stream/centro.mp3" {
		t.Errorf("StreamURL = %q, want /stream/centro.mp3", centro.StreamURL)
	}
	if centro.Name != "Centro" {
		t.Errorf("Name = %q, want Centro", centro.Name)
	}
	if centro.Description != "Radio IMPA Centro" {
		t.Errorf("Description = %q", centro.Description)
	}
	if centro.Bitrate != "128" || centro.ListenersCurrent != "12" || centro.ListenersPeak != "40" {
		t.Errorf("status fields mismatch: %+v", centro)
	}
	if centro.CurrentlyPlaying != "Culto dominical" {
		t.Errorf("CurrentlyPlaying = %q", centro.CurrentlyPlaying)
	}

	sur := streams[1]
	if sur.Description != "Sin descripción" {
		t.Errorf("missing description should fall back, got %q", sur.Description)
	}
	if sur.Bitrate != "96" {
		t.Errorf("Bitrate = %q, want 96", sur.Bitrate)
	}
}

func TestParseStatusPage_NoBlocks(t *testing.T) {
	if streams := ParseStatusPage("<html><body>vacío</body></html>", "/stream"); len(streams) != 0 {
		t.Errorf("got %d streams from empty page, want 0", len(streams))
	}
}

func TestParseStatusPage_MountWithoutSlash(t *testing.T) {
	html := `<div class="roundbox"><h3 class="mount">Mount Point norte.mp3</h3>`
	streams := ParseStatusPage(html, "/stream")
	if len(streams) != 1 {
		t.Fatalf("got %d streams, want 1", len(streams))
	}
	if streams[0].MountPoint != "/norte.mp3" {
		t.Errorf("MountPoint = %q, want /norte.mp3", streams[0].MountPoint)
	}
}

func testStreamConfig(urls []string) *config.StreamConfig {
	return &config.StreamConfig{
		StatusURLs: urls,
		PublicBase: "/stream",
		Timeout:    2 * time.Second,
		CacheTTL:   time.Minute,
	}
}

func TestLister_FetchAndCache(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if got := r.Header.Get("User-Agent"); got != userAgent {
			t.Errorf("User-Agent = %q, want %q", got, userAgent)
		}
		w.Write([]byte(statusPageFixture))
	}))
	defer server.Close()

	lister := NewLister(testStreamConfig([]string{server.URL}))

	streams := lister.List(context.Background())
	if len(streams) != 2 {
		t.Fatalf("got %d streams, want 2", len(streams))
	}

	// Second call within the TTL is served from cache.
	lister.List(context.Background())
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1 (cache)", hits.Load())
	}
}

func TestLister_FallsBackToNextCandidate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(statusPageFixture))
	}))
	defer server.Close()

	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer dead.Close()

	lister := NewLister(testStreamConfig([]string{dead.URL, server.URL}))

	streams := lister.List(context.Background())
	if len(streams) != 2 {
		t.Errorf("got %d streams via fallback URL, want 2", len(streams))
	}
}

func TestLister_DegradesToEmptyList(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	dead.Close() // connection refused from here on

	lister := NewLister(testStreamConfig([]string{dead.URL}))

	streams := lister.List(context.Background())
	if streams == nil {
		t.Fatal("List should return an empty slice, not nil")
	}
	if len(streams) != 0 {
		t.Errorf("got %d streams from dead server, want 0", len(streams))
	}
}

func TestLister_ServesStaleOnFailure(t *testing.T) {
	var fail atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(statusPageFixture))
	}))
	defer server.Close()

	cfg := testStreamConfig([]string{server.URL})
	cfg.CacheTTL = 0 // every List refetches
	lister := NewLister(cfg)

	if got := len(lister.List(context.Background())); got != 2 {
		t.Fatalf("initial fetch got %d streams, want 2", got)
	}

	fail.Store(true)
	if got := len(lister.List(context.Background())); got != 2 {
		t.Errorf("stale cache not served on failure, got %d streams", got)
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		mount string
		want  string
	}{
		{"/centro.mp3", "Centro"},
		{"/sur.mp3", "Sur"},
		{"/vivo", "Vivo"},
		{"/", ""},
	}
	for _, tt := range tests {
		if got := displayName(tt.mount); got != tt.want {
			t.Errorf("displayName(%q) = %q, want %q", tt.mount, got, tt.want)
		}
	}
}
