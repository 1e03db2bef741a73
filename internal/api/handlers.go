// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/joacoabe/impa-org/internal/auth"
	"github.com/joacoabe/impa-org/internal/config"
	"github.com/joacoabe/impa-org/internal/content"
	"github.com/joacoabe/impa-org/internal/intranet"
	"github.com/joacoabe/impa-org/internal/radios"
	"github.com/joacoabe/impa-org/internal/uploads"
)

// loginEntryPath is where unauthenticated edit requests are redirected.
const loginEntryPath = "/auth/intranet"

// ChurchFetcher fetches the intranet's public church directory feed.
// Implemented by intranet.ChurchesClient; faked in tests.
type ChurchFetcher interface {
	FetchChurches(ctx context.Context) ([]intranet.ChurchRecord, error)
}

// Handler carries the dependencies for all HTTP handlers.
type Handler struct {
	cfg       *config.Config
	store     *content.Store
	sessions  *auth.SessionManager
	refresher *auth.Refresher
	intranet  intranet.API
	churches  ChurchFetcher
	radios    *radios.Lister
	saver     *uploads.Saver

	startedAt time.Time
}

// NewHandler creates the handler set.
func NewHandler(
	cfg *config.Config,
	store *content.Store,
	sessions *auth.SessionManager,
	refresher *auth.Refresher,
	intranetAPI intranet.API,
	churches ChurchFetcher,
	radioLister *radios.Lister,
	saver *uploads.Saver,
) *Handler {
	return &Handler{
		cfg:       cfg,
		store:     store,
		sessions:  sessions,
		refresher: refresher,
		intranet:  intranetAPI,
		churches:  churches,
		radios:    radioLister,
		saver:     saver,
		startedAt: time.Now(),
	}
}

// safeNext sanitizes a continuation URL: only same-site absolute paths
// are honored, anything else falls back to "/". Keeps the login
// redirect from becoming an open redirect.
func safeNext(raw string) string {
	if raw == "" {
		return "/"
	}
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return "/"
	}
	return raw
}

// nextParam extracts the continuation URL from query or form.
func nextParam(r *http.Request) string {
	if next := r.URL.Query().Get("next"); next != "" {
		return safeNext(next)
	}
	if next := r.PostFormValue("next"); next != "" {
		return safeNext(next)
	}
	return "/"
}

// loginRedirectURL builds the login entry URL carrying the originally
// requested path as the continuation parameter.
func loginRedirectURL(requested string) string {
	return loginEntryPath + "?next=" + url.QueryEscape(requested)
}
