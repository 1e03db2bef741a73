// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

package api

import (
	"crypto/subtle"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/joacoabe/impa-org/internal/content"
	"github.com/joacoabe/impa-org/internal/logging"
)

// AdminAuth guards maintenance endpoints with HTTP basic auth against
// the configured bcrypt hash. Returns 404 rather than 401 when no admin
// account is configured, so the endpoints do not advertise themselves.
func (h *Handler) AdminAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.cfg.Admin.Enabled() {
			NewResponseWriter(w, r).NotFound("No encontrado")
			return
		}

		username, password, ok := r.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(username), []byte(h.cfg.Admin.Username)) != 1 ||
			bcrypt.CompareHashAndPassword([]byte(h.cfg.Admin.PasswordHash), []byte(password)) != nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="impa-admin"`)
			NewResponseWriter(w, r).Unauthorized("Credenciales de administración inválidas.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// AdminSeed handles POST /api/v1/admin/seed: loads the initial content
// set. A no-op when churches already exist.
func (h *Handler) AdminSeed(w http.ResponseWriter, r *http.Request) {
	created, err := h.store.Seed(r.Context())
	if err != nil {
		NewResponseWriter(w, r).StorageError(err)
		return
	}
	WriteSuccess(w, r, map[string]interface{}{
		"churches_created": created,
		"seeded":           created > 0,
	})
}

// AdminSyncChurches handles POST /api/v1/admin/sync-churches: pulls the
// intranet's public church feed and reconciles the local directory.
// Existing churches are matched by intranet ID, so slugs and manually
// maintained fields survive the sync.
func (h *Handler) AdminSyncChurches(w http.ResponseWriter, r *http.Request) {
	if h.churches == nil {
		NewResponseWriter(w, r).ServiceUnavailable("La sincronización con la intranet no está configurada.")
		return
	}

	records, err := h.churches.FetchChurches(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Church feed fetch failed")
		NewResponseWriter(w, r).ServiceUnavailable("No se pudo consultar el directorio de iglesias de la intranet.")
		return
	}

	syncRecords := make([]content.SyncRecord, 0, len(records))
	for _, rec := range records {
		syncRecords = append(syncRecords, content.SyncRecord{
			IntranetID: rec.ID,
			Name:       rec.Name,
			Province:   rec.Province,
			Address:    rec.Address,
			City:       rec.City,
			PastorText: rec.PastorText(),
			Lat:        rec.Latitude,
			Lng:        rec.Longitude,
		})
	}

	created, updated, err := h.store.SyncChurches(r.Context(), syncRecords)
	if err != nil {
		NewResponseWriter(w, r).StorageError(err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Int("fetched", len(records)).
		Int("created", created).
		Int("updated", updated).
		Msg("Church directory synced")

	WriteSuccess(w, r, map[string]interface{}{
		"fetched": len(records),
		"created": created,
		"updated": updated,
	})
}

// AdminContactMessages handles GET /api/v1/admin/contact-messages:
// received contact form submissions, newest first.
func (h *Handler) AdminContactMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.store.ListContactMessages(r.Context())
	if err != nil {
		NewResponseWriter(w, r).StorageError(err)
		return
	}
	WriteSuccess(w, r, map[string]interface{}{
		"messages": messages,
		"count":    len(messages),
	})
}
