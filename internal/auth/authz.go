// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

package auth

import "github.com/joacoabe/impa-org/internal/intranet"

// CanEditChurch decides whether an intranet identity may edit the site page
// of the church with the given intranet ID. Pure function, no I/O.
//
//   - Secretaries and administrators edit every church.
//   - A pastor edits only the church whose intranet ID equals their
//     assigned church_id; both sides must be present.
//   - Role sets are checked by membership: the intranet may report several
//     roles for one account.
func CanEditChurch(churchIntranetID *int, identity *intranet.Identity) bool {
	if identity == nil {
		return false
	}
	if identity.HasRole(intranet.RoleAdministrator) || identity.HasRole(intranet.RoleSecretary) {
		return true
	}
	if identity.HasRole(intranet.RolePastor) {
		if churchIntranetID != nil && identity.ChurchID != nil && *churchIntranetID == *identity.ChurchID {
			return true
		}
	}
	return false
}
