// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/joacoabe/impa-org/internal/content"
	"github.com/joacoabe/impa-org/internal/logging"
	"github.com/joacoabe/impa-org/internal/validation"
)

const (
	msgNewsNotFound     = "Noticia no encontrada"
	msgPageNotFound     = "Página no encontrada"
	msgResourceNotFound = "Recurso no encontrado"
	msgContactReceived  = "¡Gracias por escribirnos! Te vamos a responder a la brevedad."
)

// NewsList handles GET /noticias. An optional ?limit= trims the list,
// which the home page uses for its latest-news strip.
func (h *Handler) NewsList(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			NewResponseWriter(w, r).BadRequest("El parámetro limit debe ser un número mayor a cero.")
			return
		}
		items, err := h.store.LatestNews(r.Context(), n)
		if err != nil {
			NewResponseWriter(w, r).StorageError(err)
			return
		}
		WriteSuccess(w, r, items)
		return
	}

	items, err := h.store.ListNews(r.Context())
	if err != nil {
		NewResponseWriter(w, r).StorageError(err)
		return
	}
	WriteSuccess(w, r, items)
}

// NewsDetail handles GET /noticias/{slug}.
func (h *Handler) NewsDetail(w http.ResponseWriter, r *http.Request) {
	item, err := h.store.GetNews(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			NewResponseWriter(w, r).NotFound(msgNewsNotFound)
		} else {
			NewResponseWriter(w, r).StorageError(err)
		}
		return
	}
	WriteSuccess(w, r, item)
}

// ResourceList handles GET /recursos. An optional ?tipo= filters by
// kind (document, audio, video, link).
func (h *Handler) ResourceList(w http.ResponseWriter, r *http.Request) {
	resources, err := h.store.ListResources(r.Context())
	if err != nil {
		NewResponseWriter(w, r).StorageError(err)
		return
	}

	if kind := r.URL.Query().Get("tipo"); kind != "" {
		filtered := resources[:0]
		for _, res := range resources {
			if res.Kind == kind {
				filtered = append(filtered, res)
			}
		}
		resources = filtered
	}
	WriteSuccess(w, r, resources)
}

// ResourceDetail handles GET /recursos/{slug}.
func (h *Handler) ResourceDetail(w http.ResponseWriter, r *http.Request) {
	res, err := h.store.GetResource(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			NewResponseWriter(w, r).NotFound(msgResourceNotFound)
		} else {
			NewResponseWriter(w, r).StorageError(err)
		}
		return
	}
	WriteSuccess(w, r, res)
}

// InstitutionalPage handles GET /institucional/{slug}: historia,
// vision, doctrina, autoridades. The autoridades page also carries the
// list of bishops so the client renders it in one request.
func (h *Handler) InstitutionalPage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	page, err := h.store.GetPage(r.Context(), slug)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			NewResponseWriter(w, r).NotFound(msgPageNotFound)
		} else {
			NewResponseWriter(w, r).StorageError(err)
		}
		return
	}

	if slug != "autoridades" {
		WriteSuccess(w, r, page)
		return
	}

	authorities, err := h.store.ListAuthorities(r.Context())
	if err != nil {
		NewResponseWriter(w, r).StorageError(err)
		return
	}
	WriteSuccess(w, r, struct {
		*content.InstitutionalPage
		Authorities []content.Authority `json:"authorities"`
	}{page, authorities})
}

// ContactSubmit handles POST /contacto.
func (h *Handler) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	req, err := decodeContactRequest(r)
	if err != nil {
		NewResponseWriter(w, r).BadRequest("No se pudo leer el formulario.")
		return
	}

	if verr := validation.ValidateStruct(req); verr != nil {
		apiErr := verr.ToAPIError()
		NewResponseWriter(w, r).ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	msg := &content.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := h.store.SaveContactMessage(r.Context(), msg); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to save contact message")
		NewResponseWriter(w, r).InternalError("No se pudo enviar el mensaje. Probá de nuevo en unos minutos.")
		return
	}

	logging.Ctx(r.Context()).Info().Str("id", msg.ID).Msg("Contact message received")
	NewResponseWriter(w, r).Created(map[string]string{
		"id":      msg.ID,
		"message": msgContactReceived,
	})
}
