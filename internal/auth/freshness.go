// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

package auth

import (
	"context"

	"github.com/joacoabe/impa-org/internal/intranet"
	"github.com/joacoabe/impa-org/internal/logging"
)

// Refresher decides when a session's cached identity needs a profile
// refresh and performs it, at most one remote call per invocation.
type Refresher struct {
	client intranet.API
	store  SessionStore
}

// NewRefresher creates a Refresher over the given intranet client and
// session store.
func NewRefresher(client intranet.API, store SessionStore) *Refresher {
	return &Refresher{client: client, store: store}
}

// EnsureFreshIdentity returns the session's identity, refreshing it from
// the profile endpoint first when it is stale. Stale means: no identity
// cached at all, or a pastor identity missing its church_id (the classic
// case where the profile endpoint rejected the freshly issued token and the
// login-payload fallback was used without an assignment).
//
// A failed refresh never downgrades: the previously cached identity
// (possibly nil) is returned unchanged. Safe to call on every request that
// might need authorization.
func (r *Refresher) EnsureFreshIdentity(ctx context.Context, session *Session) *intranet.Identity {
	if session == nil {
		return nil
	}
	if session.AccessToken == "" {
		return session.Identity
	}

	identity := session.Identity
	needRefresh := identity == nil || (identity.IsPastor() && identity.ChurchID == nil)
	if !needRefresh {
		return identity
	}

	fresh := r.client.FetchProfile(ctx, session.AccessToken)
	if fresh == nil {
		// Degrade gracefully: a flapping profile endpoint must not cost the
		// caller a usable cached identity.
		return identity
	}

	session.Identity = fresh
	if err := r.store.Update(ctx, session); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("session", session.ID).Msg("Failed to persist refreshed identity")
	}
	return fresh
}
