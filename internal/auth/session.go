// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

// Package auth provides intranet session management and the church site
// authorization rule.
//
// Sessions are server-side: the browser holds an opaque cookie ID, the
// store holds the intranet bearer token and the cached identity. Nothing
// here touches a database beyond the session store itself; identity is
// purely transport-session state.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/joacoabe/impa-org/internal/intranet"
	"github.com/joacoabe/impa-org/internal/logging"
	"github.com/joacoabe/impa-org/internal/metrics"
)

// Session-related errors
var (
	// ErrSessionNotFound is returned when a session is not found in the store.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExpired is returned when trying to access an expired session.
	ErrSessionExpired = errors.New("session expired")
)

// Session is one caller's intranet credential: the bearer token issued by
// the intranet plus the cached identity built from it.
type Session struct {
	// ID is the unique session identifier (opaque cookie value).
	ID string `json:"id"`

	// AccessToken is the bearer token issued by the intranet API.
	AccessToken string `json:"access_token"`

	// Identity is the cached intranet identity. May be nil when a session
	// was created from a bare token whose profile could not be fetched.
	Identity *intranet.Identity `json:"identity,omitempty"`

	CreatedAt      time.Time `json:"created_at"`
	ExpiresAt      time.Time `json:"expires_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// NewSession creates a session for a token and (possibly nil) identity.
func NewSession(token string, identity *intranet.Identity, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:             generateSessionID(),
		AccessToken:    token,
		Identity:       identity,
		CreatedAt:      now,
		ExpiresAt:      now.Add(ttl),
		LastAccessedAt: now,
	}
}

// generateSessionID generates a cryptographically secure session ID.
func generateSessionID() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to a less secure but still random ID
		return hex.EncodeToString([]byte(time.Now().String()))
	}
	return hex.EncodeToString(bytes)
}

// SessionStore defines the interface for session storage backends.
type SessionStore interface {
	// Create stores a new session.
	Create(ctx context.Context, session *Session) error

	// Get retrieves a session by ID.
	// Returns ErrSessionNotFound if not found.
	// Returns ErrSessionExpired if the session exists but is expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Update updates an existing session.
	// Returns ErrSessionNotFound if not found.
	Update(ctx context.Context, session *Session) error

	// Delete removes a session by ID.
	// Does not return an error if the session doesn't exist.
	Delete(ctx context.Context, id string) error

	// CleanupExpired removes all expired sessions.
	// Returns the count of deleted sessions.
	CleanupExpired(ctx context.Context) (int, error)
}

// MemorySessionStore is an in-memory implementation of SessionStore.
// Suitable for development and testing. Production uses BadgerSessionStore.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]*Session),
	}
}

// Create stores a new session.
func (s *MemorySessionStore) Create(ctx context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = copySession(session)
	return nil
}

// Get retrieves a session by ID.
func (s *MemorySessionStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.IsExpired() {
		return nil, ErrSessionExpired
	}
	return copySession(session), nil
}

// Update updates an existing session.
func (s *MemorySessionStore) Update(ctx context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.ID]; !ok {
		return ErrSessionNotFound
	}
	s.sessions[session.ID] = copySession(session)
	return nil
}

// Delete removes a session by ID.
func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// CleanupExpired removes all expired sessions.
func (s *MemorySessionStore) CleanupExpired(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for id, session := range s.sessions {
		if session.IsExpired() {
			delete(s.sessions, id)
			count++
		}
	}
	return count, nil
}

// copySession deep-copies a session so callers cannot mutate stored state.
func copySession(session *Session) *Session {
	copied := *session
	if session.Identity != nil {
		identity := *session.Identity
		if session.Identity.Roles != nil {
			identity.Roles = make([]intranet.Role, len(session.Identity.Roles))
			copy(identity.Roles, session.Identity.Roles)
		}
		if session.Identity.RawRoles != nil {
			identity.RawRoles = make([]string, len(session.Identity.RawRoles))
			copy(identity.RawRoles, session.Identity.RawRoles)
		}
		if session.Identity.ChurchID != nil {
			churchID := *session.Identity.ChurchID
			identity.ChurchID = &churchID
		}
		copied.Identity = &identity
	}
	return &copied
}

// StartCleanupRoutine starts a goroutine that periodically purges expired
// sessions from the given store until the context is canceled.
func StartCleanupRoutine(ctx context.Context, store SessionStore, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				count, err := store.CleanupExpired(ctx)
				if err != nil {
					logging.Warn().Err(err).Msg("Session cleanup failed")
					continue
				}
				if count > 0 {
					metrics.SessionsActive.Sub(float64(count))
					logging.Debug().Int("count", count).Msg("Expired sessions purged")
				}
			}
		}
	}()
}
