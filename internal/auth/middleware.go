// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/joacoabe/impa-org/internal/config"
	"github.com/joacoabe/impa-org/internal/metrics"
)

type contextKey string

// sessionContextKey is the context key under which the resolved session is
// stored for downstream handlers.
const sessionContextKey contextKey = "intranet_session"

// SessionManager resolves and manipulates the session cookie for HTTP
// requests.
type SessionManager struct {
	store SessionStore
	cfg   config.SessionConfig
}

// NewSessionManager creates a SessionManager over the given store.
func NewSessionManager(store SessionStore, cfg config.SessionConfig) *SessionManager {
	return &SessionManager{store: store, cfg: cfg}
}

// Store exposes the underlying session store.
func (m *SessionManager) Store() SessionStore {
	return m.store
}

// TTL returns the configured session lifetime.
func (m *SessionManager) TTL() time.Duration {
	return m.cfg.TTL
}

// Middleware resolves the session cookie on every request and, when a live
// session exists, attaches it to the request context. Requests without a
// session pass through untouched: viewing is public, only editing needs
// identity.
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(m.cfg.CookieName)
		if err == nil && cookie.Value != "" {
			session, err := m.store.Get(r.Context(), cookie.Value)
			if err == nil {
				r = r.WithContext(WithSession(r.Context(), session))
			} else if errors.Is(err, ErrSessionExpired) {
				m.ClearCookie(w)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// StartSession creates and persists a session and sets the cookie on the
// response.
func (m *SessionManager) StartSession(ctx context.Context, w http.ResponseWriter, session *Session) error {
	if err := m.store.Create(ctx, session); err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   m.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	metrics.SessionsActive.Inc()
	return nil
}

// EndSession deletes the request's session (if any) and clears the cookie.
func (m *SessionManager) EndSession(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if session := SessionFromContext(r.Context()); session != nil {
		//nolint:errcheck // Best effort: an orphaned record expires on its own
		m.store.Delete(ctx, session.ID)
		metrics.SessionsActive.Dec()
	} else if cookie, err := r.Cookie(m.cfg.CookieName); err == nil && cookie.Value != "" {
		//nolint:errcheck // Same as above
		m.store.Delete(ctx, cookie.Value)
	}
	m.ClearCookie(w)
}

// ClearCookie expires the session cookie on the response.
func (m *SessionManager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// WithSession returns a context carrying the given session.
func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// SessionFromContext returns the request's session, or nil.
func SessionFromContext(ctx context.Context) *Session {
	if session, ok := ctx.Value(sessionContextKey).(*Session); ok {
		return session
	}
	return nil
}
