// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

// Package intranet talks to the IMPA intranet identity API over HTTPS.
//
// The remote system is the source of record for user accounts and roles.
// It is unreliable in one specific, known way: the profile endpoint
// (/api/v1/public/me) sometimes rejects a token the login endpoint just
// issued, depending on the request origin. The client therefore supports
// two identity construction paths: synthesizing an identity from the login
// payload, and fetching the full profile. Callers never assume a failed
// profile fetch means an invalid token.
package intranet

import "strings"

// Role is a canonical user role. Raw role strings from the intranet arrive
// with inconsistent encodings (accented and unaccented spellings); they are
// normalized here, at the payload boundary, so downstream authorization
// never compares raw strings.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleSecretary     Role = "secretary"
	RolePastor        Role = "pastor"
	RoleMember        Role = "member"
)

// roleAliases maps every spelling the intranet has been observed to emit
// onto the canonical role set.
var roleAliases = map[string]Role{
	"administrador": RoleAdministrator,
	"administrator": RoleAdministrator,
	"admin":         RoleAdministrator,
	"secretaria":    RoleSecretary,
	"secretaría":    RoleSecretary,
	"secretary":     RoleSecretary,
	"pastor":        RolePastor,
	"pastorado":     RolePastor,
	"miembro":       RoleMember,
	"member":        RoleMember,
}

// NormalizeRole maps a raw role string to a canonical Role.
// Unrecognized roles pass through lowercased so they remain visible in
// role sets without granting anything.
func NormalizeRole(raw string) Role {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	if role, ok := roleAliases[cleaned]; ok {
		return role
	}
	return Role(cleaned)
}

// normalizeRoles maps raw role strings to canonical roles, dropping empties.
func normalizeRoles(raw []string) []Role {
	roles := make([]Role, 0, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r) == "" {
			continue
		}
		roles = append(roles, NormalizeRole(r))
	}
	return roles
}

// Identity is the intranet user as cached in a session. Ephemeral: it is
// never persisted outside session storage.
type Identity struct {
	Username  string `json:"username"`
	Role      Role   `json:"role"`
	Roles     []Role `json:"roles"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	// FullName is never empty while the identity exists; it falls back to
	// the username.
	FullName string `json:"full_name"`

	// IsStaff is derived: administrator or secretary.
	IsStaff bool `json:"is_staff"`

	// ChurchID is the intranet ID of the single church this identity
	// administers. Present only for pastor-like roles.
	ChurchID *int `json:"church_id,omitempty"`

	// RawRoles preserves the role strings as the intranet sent them, for
	// display and debugging. Authorization never reads them.
	RawRoles []string `json:"raw_roles,omitempty"`
}

// HasRole reports whether the identity's role set contains the given
// canonical role. Membership, not primary-role equality: the intranet may
// report several simultaneous roles for one account.
func (id *Identity) HasRole(role Role) bool {
	if id == nil {
		return false
	}
	for _, r := range id.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsPastor reports whether the identity carries a pastor-like role.
func (id *Identity) IsPastor() bool {
	return id.HasRole(RolePastor)
}

// UserPayload is the user object shape shared by the login response and the
// profile endpoint.
type UserPayload struct {
	Username  string   `json:"username"`
	Role      string   `json:"role"`
	Roles     []string `json:"roles"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	FullName  string   `json:"full_name"`
	ChurchID  *int     `json:"church_id"`
}

// IdentityFromPayload builds a normalized Identity from a remote user
// payload. Pure transform, no I/O. Returns nil for a nil or empty payload.
//
// Used directly on profile responses, and as the fallback identity source
// from the smaller login payload when the profile endpoint cannot be
// trusted with a freshly issued token.
func IdentityFromPayload(p *UserPayload) *Identity {
	if p == nil || (p.Username == "" && p.Role == "" && len(p.Roles) == 0) {
		return nil
	}

	rawRoles := p.Roles
	if len(rawRoles) == 0 {
		role := strings.TrimSpace(p.Role)
		if role == "" {
			role = string(RoleMember)
		}
		rawRoles = []string{role}
	}

	roles := normalizeRoles(rawRoles)
	primary := RoleMember
	if len(roles) > 0 {
		primary = roles[0]
	}

	first := strings.TrimSpace(p.FirstName)
	last := strings.TrimSpace(p.LastName)
	full := strings.TrimSpace(p.FullName)
	if full == "" {
		full = strings.TrimSpace(first + " " + last)
	}
	username := strings.TrimSpace(p.Username)
	if full == "" {
		full = username
	}

	id := &Identity{
		Username:  username,
		Role:      primary,
		Roles:     roles,
		FirstName: first,
		LastName:  last,
		FullName:  full,
		ChurchID:  p.ChurchID,
		RawRoles:  rawRoles,
	}
	id.IsStaff = id.HasRole(RoleAdministrator) || id.HasRole(RoleSecretary)
	return id
}
