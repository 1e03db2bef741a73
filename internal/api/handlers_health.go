// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

package api

import (
	"net/http"
	"time"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// HealthCheck handles GET /health. It touches the content store so a
// wedged database shows up as unhealthy instead of a silent 200.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	churches, err := h.store.CountChurches(r.Context())
	if err != nil {
		NewResponseWriter(w, r).ServiceUnavailable("El servicio no está disponible en este momento.")
		return
	}

	WriteSuccess(w, r, map[string]interface{}{
		"status":   "healthy",
		"version":  Version,
		"uptime":   time.Since(h.startedAt).Round(time.Second).String(),
		"churches": churches,
	})
}
