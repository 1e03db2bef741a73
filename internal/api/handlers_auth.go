// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

package api

import (
	"net/http"

	"github.com/joacoabe/impa-org/internal/auth"
	"github.com/joacoabe/impa-org/internal/intranet"
	"github.com/joacoabe/impa-org/internal/logging"
	"github.com/joacoabe/impa-org/internal/metrics"
)

// Login error messages shown to the person on the form.
const (
	msgMissingCredentials = "Ingresá tu usuario y contraseña de la intranet, o pegá el token de acceso."
	msgTokenInvalid       = "Token inválido o expirado. Volvé a iniciar sesión en la intranet."
	msgProfileUnavailable = "Entraste bien, pero no pudimos obtener tu perfil de la intranet. Probá de nuevo en unos minutos."
)

// loginState is what the login entry point returns on a plain GET.
type loginState struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
	FullName      string `json:"full_name,omitempty"`
	Next          string `json:"next"`
	Error         string `json:"error,omitempty"`
}

// LoginPage handles GET /auth/intranet.
//
// With ?token= (pre-authenticated redirect from the intranet) it
// validates the token against the profile endpoint, starts a session
// and redirects to the continuation URL. Without a token it reports the
// current login state so the client can render the form.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	next := nextParam(r)

	if token := r.URL.Query().Get("token"); token != "" {
		identity := h.intranet.FetchProfile(r.Context(), token)
		if identity == nil {
			NewResponseWriter(w, r).UnauthorizedWithDetails(msgTokenInvalid, loginState{Next: next, Error: msgTokenInvalid})
			return
		}
		if err := h.startSession(w, r, token, identity, "token"); err != nil {
			NewResponseWriter(w, r).InternalError("No se pudo iniciar la sesión. Probá de nuevo.")
			return
		}
		http.Redirect(w, r, next, http.StatusFound)
		return
	}

	state := loginState{Next: next}
	if session := auth.SessionFromContext(r.Context()); session != nil && session.Identity != nil {
		state.Authenticated = true
		state.Username = session.Identity.Username
		state.FullName = session.Identity.FullName
	}
	WriteSuccess(w, r, state)
}

// LoginSubmit handles POST /auth/intranet.
//
// Credentials path: authenticates against the intranet and prefers the
// identity synthesized from the login payload over a fresh profile
// fetch. The profile endpoint is known to sometimes reject a token the
// login endpoint just issued, depending on request origin; synthesizing
// avoids failing a login the intranet itself accepted.
//
// Token path: a pre-issued token is validated against the profile
// endpoint before a session starts.
//
// On failure the error and the submitted username are returned so the
// form can repopulate; the password never is.
func (h *Handler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	req, err := decodeLoginRequest(r)
	if err != nil {
		NewResponseWriter(w, r).BadRequest("No se pudo leer el formulario.")
		return
	}
	next := safeNext(req.Next)
	if next == "/" {
		next = nextParam(r)
	}

	var (
		token    string
		identity *intranet.Identity
		method   string
	)

	switch {
	case req.Username != "" && req.Password != "":
		method = "credentials"
		loginToken, loginUser, err := h.intranet.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			message := err.Error()
			NewResponseWriter(w, r).UnauthorizedWithDetails(message, loginState{
				Next:     next,
				Username: req.Username,
				Error:    message,
			})
			return
		}
		token = loginToken
		identity = intranet.IdentityFromPayload(loginUser)
		if identity == nil {
			// Login responses normally embed the user; fall back to the
			// profile endpoint when one does not.
			identity = h.intranet.FetchProfile(r.Context(), token)
		}

	case req.BearerToken() != "":
		method = "token"
		token = req.BearerToken()
		identity = h.intranet.FetchProfile(r.Context(), token)

	default:
		NewResponseWriter(w, r).BadRequestWithDetails(msgMissingCredentials, loginState{
			Next:     next,
			Username: req.Username,
			Error:    msgMissingCredentials,
		})
		return
	}

	if identity == nil {
		// On the token path a nil identity means the token was bad. On the
		// credentials path the password was just accepted; the profile
		// simply could not be assembled, and saying "token inválido" to
		// someone who never pasted a token would mislead them.
		message := msgTokenInvalid
		if method == "credentials" {
			message = msgProfileUnavailable
		}
		NewResponseWriter(w, r).UnauthorizedWithDetails(message, loginState{
			Next:     next,
			Username: req.Username,
			Error:    message,
		})
		return
	}

	if err := h.startSession(w, r, token, identity, method); err != nil {
		NewResponseWriter(w, r).InternalError("No se pudo iniciar la sesión. Probá de nuevo.")
		return
	}

	http.Redirect(w, r, next, http.StatusFound)
}

// Logout handles GET and POST /auth/intranet/logout: clears the session
// and redirects to the continuation URL.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.EndSession(r.Context(), w, r)
	http.Redirect(w, r, nextParam(r), http.StatusFound)
}

// startSession creates and persists a session and sets the cookie.
func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, token string, identity *intranet.Identity, method string) error {
	session := auth.NewSession(token, identity, h.sessions.TTL())
	if err := h.sessions.StartSession(r.Context(), w, session); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to persist session")
		return err
	}

	metrics.SessionsCreated.WithLabelValues(method).Inc()
	logging.Ctx(r.Context()).Info().
		Str("user", identity.Username).
		Str("role", string(identity.Role)).
		Str("method", method).
		Msg("Intranet session started")
	return nil
}
