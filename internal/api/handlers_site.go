// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/joacoabe/impa-org/internal/auth"
	"github.com/joacoabe/impa-org/internal/content"
	"github.com/joacoabe/impa-org/internal/intranet"
	"github.com/joacoabe/impa-org/internal/logging"
	"github.com/joacoabe/impa-org/internal/uploads"
)

const (
	msgChurchNotFound  = "Iglesia no encontrada"
	msgLoginForUpload  = "Tenés que iniciar sesión con la intranet para subir fotos. Entrá por «Entrar» y elegí «Sitio de las iglesias»."
	msgWrongChurch     = "No tenés permiso para editar el sitio de esta iglesia. Si sos el pastor, cerrá sesión y volvé a entrar desde «Entrar»."
	msgCannotEditPage  = "No tenés permiso para editar esta página."
	msgNoFileUploaded  = "No se envió ninguna imagen"
	msgFileTooLarge    = "Cada foto puede pesar hasta 5 MB. Esta pesa demasiado."
	msgBadImageType    = "Solo se permiten imágenes (JPG, PNG, GIF, WebP)."
	msgNotAValidImage  = "El archivo no es una imagen válida"
	msgTooManyImages   = "La página puede tener como máximo %d fotos. Actualmente tenés %d. Eliminá algunas y guardá de nuevo."
	msgSiteSaveFailure = "No se pudo guardar la página. Probá de nuevo en unos minutos."
)

// sitePage is the public view of a church site page.
type sitePage struct {
	ChurchSlug  string    `json:"church_slug"`
	ChurchTitle string    `json:"church_title"`
	Body        string    `json:"body"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
	CanEdit     bool      `json:"can_edit"`
}

// siteEditPage is the editor view: the page body plus the identity the
// editor is acting as, so the client can show who is signed in.
type siteEditPage struct {
	ChurchSlug  string `json:"church_slug"`
	ChurchTitle string `json:"church_title"`
	Body        string `json:"body"`
	ImageCount  int    `json:"image_count"`
	MaxImages   int    `json:"max_images"`
	EditorName  string `json:"editor_name"`
	EditorRole  string `json:"editor_role"`
}

// SiteView handles GET /iglesias/{slug}/sitio. Public; edited content
// must show immediately so proxies are told not to cache.
func (h *Handler) SiteView(w http.ResponseWriter, r *http.Request) {
	church, ok := h.churchFromURL(w, r)
	if !ok {
		return
	}

	page := sitePage{
		ChurchSlug:  church.Slug,
		ChurchTitle: church.Title,
	}
	if site, err := h.store.GetSiteContent(r.Context(), church.Slug); err == nil {
		page.Body = site.Body
		page.UpdatedAt = site.UpdatedAt
	} else if !errors.Is(err, content.ErrNotFound) {
		NewResponseWriter(w, r).StorageError(err)
		return
	}

	if session := auth.SessionFromContext(r.Context()); session != nil {
		identity := h.refresher.EnsureFreshIdentity(r.Context(), session)
		page.CanEdit = auth.CanEditChurch(church.IntranetID, identity)
	}

	w.Header().Set("Cache-Control", "no-store")
	WriteSuccess(w, r, page)
}

// SiteEdit handles GET /iglesias/{slug}/sitio/editar.
func (h *Handler) SiteEdit(w http.ResponseWriter, r *http.Request) {
	church, identity, ok := h.requireEditor(w, r)
	if !ok {
		return
	}

	page := siteEditPage{
		ChurchSlug:  church.Slug,
		ChurchTitle: church.Title,
		MaxImages:   h.cfg.Uploads.MaxImagesPerPage,
		EditorName:  identity.FullName,
		EditorRole:  string(identity.Role),
	}
	if site, err := h.store.GetSiteContent(r.Context(), church.Slug); err == nil {
		page.Body = site.Body
		page.ImageCount = content.CountEmbeddedImages(site.Body)
	} else if !errors.Is(err, content.ErrNotFound) {
		NewResponseWriter(w, r).StorageError(err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	WriteSuccess(w, r, page)
}

// SiteEditSubmit handles POST /iglesias/{slug}/sitio/editar.
//
// A body exceeding the embedded-image cap is rejected without
// persisting anything; the submitted body is echoed back so the person
// does not lose their work. The cap counts <img> tags in the body, not
// uploaded files: an upload only becomes visible once its URL is
// embedded.
func (h *Handler) SiteEditSubmit(w http.ResponseWriter, r *http.Request) {
	church, identity, ok := h.requireEditor(w, r)
	if !ok {
		return
	}

	req, err := decodeSiteEditRequest(r)
	if err != nil {
		NewResponseWriter(w, r).BadRequest("No se pudo leer el formulario.")
		return
	}

	maxImages := h.cfg.Uploads.MaxImagesPerPage
	if count := content.CountEmbeddedImages(req.Body); count > maxImages {
		NewResponseWriter(w, r).BadRequestWithDetails(
			fmt.Sprintf(msgTooManyImages, maxImages, count),
			map[string]interface{}{
				"body":        req.Body,
				"image_count": count,
				"max_images":  maxImages,
			},
		)
		return
	}

	site := &content.SiteContent{
		ChurchSlug: church.Slug,
		Body:       req.Body,
		UpdatedBy:  identity.Username,
	}
	if err := h.store.PutSiteContent(r.Context(), site); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("church", church.Slug).Msg("Failed to save site page")
		NewResponseWriter(w, r).InternalError(msgSiteSaveFailure)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("church", church.Slug).
		Str("user", identity.Username).
		Int("images", content.CountEmbeddedImages(req.Body)).
		Msg("Site page saved")

	// The timestamp query busts any intermediary cache of the view page.
	target := "/iglesias/" + church.Slug + "/sitio?_=" + strconv.FormatInt(time.Now().Unix(), 10)
	http.Redirect(w, r, target, http.StatusFound)
}

// SitePhotoUpload handles POST /iglesias/{slug}/sitio/subir-foto.
//
// Responds with a bare {"url": ...} or {"error": ...} object rather than
// the usual envelope; the editor widget consuming it predates the API.
func (h *Handler) SitePhotoUpload(w http.ResponseWriter, r *http.Request) {
	church, err := h.store.GetChurch(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			writeUploadError(w, http.StatusNotFound, msgChurchNotFound)
			return
		}
		writeUploadError(w, http.StatusInternalServerError, msgSiteSaveFailure)
		return
	}

	session := auth.SessionFromContext(r.Context())
	if session == nil {
		writeUploadError(w, http.StatusForbidden, msgLoginForUpload)
		return
	}
	identity := h.refresher.EnsureFreshIdentity(r.Context(), session)
	if !auth.CanEditChurch(church.IntranetID, identity) {
		writeUploadError(w, http.StatusForbidden, msgWrongChurch)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.saver.MaxBytes()+formOverhead)
	if err := r.ParseMultipartForm(h.saver.MaxBytes()); err != nil {
		writeUploadError(w, http.StatusBadRequest, msgFileTooLarge)
		return
	}

	file, header, err := r.FormFile("foto")
	if err != nil {
		file, header, err = r.FormFile("file")
	}
	if err != nil {
		writeUploadError(w, http.StatusBadRequest, msgNoFileUploaded)
		return
	}
	defer file.Close()

	url, err := h.saver.SavePhoto(header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		status, message := uploadErrorMessage(err)
		writeUploadError(w, status, message)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("church", church.Slug).
		Str("user", identity.Username).
		Str("url", url).
		Msg("Site photo uploaded")

	writeUploadJSON(w, http.StatusOK, map[string]string{"url": url})
}

// formOverhead covers multipart boundaries and form fields beyond the
// file itself when sizing MaxBytesReader.
const formOverhead = 64 << 10

func uploadErrorMessage(err error) (int, string) {
	switch {
	case errors.Is(err, uploads.ErrNoFile):
		return http.StatusBadRequest, msgNoFileUploaded
	case errors.Is(err, uploads.ErrTooLarge):
		return http.StatusBadRequest, msgFileTooLarge
	case errors.Is(err, uploads.ErrBadExtension):
		return http.StatusBadRequest, msgBadImageType
	case errors.Is(err, uploads.ErrNotImage):
		return http.StatusBadRequest, msgNotAValidImage
	default:
		return http.StatusInternalServerError, msgSiteSaveFailure
	}
}

func writeUploadError(w http.ResponseWriter, status int, message string) {
	writeUploadJSON(w, status, map[string]string{"error": message})
}

func writeUploadJSON(w http.ResponseWriter, status int, payload map[string]string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error().Err(err).Msg("Failed to encode upload response")
	}
}

// churchFromURL resolves the {slug} URL parameter to a church, writing
// the 404 itself when it does not exist.
func (h *Handler) churchFromURL(w http.ResponseWriter, r *http.Request) (*content.Church, bool) {
	church, err := h.store.GetChurch(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			NewResponseWriter(w, r).NotFound(msgChurchNotFound)
		} else {
			NewResponseWriter(w, r).StorageError(err)
		}
		return nil, false
	}
	return church, true
}

// requireEditor resolves the church and enforces the editing rule:
// anonymous visitors are redirected to the login entry point with the
// current path as continuation, authenticated visitors without
// permission get a 403. The identity is refreshed first so a pastor
// whose church assignment landed after login can still edit.
func (h *Handler) requireEditor(w http.ResponseWriter, r *http.Request) (*content.Church, *intranet.Identity, bool) {
	church, ok := h.churchFromURL(w, r)
	if !ok {
		return nil, nil, false
	}

	session := auth.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, loginRedirectURL(r.URL.Path), http.StatusFound)
		return nil, nil, false
	}

	identity := h.refresher.EnsureFreshIdentity(r.Context(), session)
	if !auth.CanEditChurch(church.IntranetID, identity) {
		message := msgCannotEditPage
		if identity != nil && identity.IsPastor() {
			message = msgWrongChurch
		}
		NewResponseWriter(w, r).Forbidden(message)
		return nil, nil, false
	}
	return church, identity, true
}
