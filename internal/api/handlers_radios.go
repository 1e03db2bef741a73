// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

package api

import (
	"net/http"
)

// RadioList handles GET /radios: the streams currently mounted on the
// Icecast server. Degrades to an empty list when the server is down, so
// the radios page renders instead of erroring.
func (h *Handler) RadioList(w http.ResponseWriter, r *http.Request) {
	streams := h.radios.List(r.Context())
	WriteSuccess(w, r, map[string]interface{}{
		"streams": streams,
		"count":   len(streams),
	})
}
