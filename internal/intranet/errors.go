// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

package intranet

// FailureReason tags a login failure so callers can distinguish "could not
// determine" from "definitely rejected" instead of guessing from message
// text.
type FailureReason string

const (
	// FailureNotConfigured means the intranet base URL is unset. Fatal for
	// the auth feature, not for the process.
	FailureNotConfigured FailureReason = "not_configured"

	// FailureTransport means the remote API could not be reached
	// (DNS, TLS, timeout, connection refused).
	FailureTransport FailureReason = "transport"

	// FailureRejected means the remote API answered with a non-200 status
	// and (possibly) a structured error body.
	FailureRejected FailureReason = "rejected"

	// FailureNoToken means the remote API answered 200 but the token was
	// empty or absent.
	FailureNoToken FailureReason = "no_token"
)

// Error is a typed intranet client failure. Message is safe to show to an
// end user; the wrapped cause, when present, is for operators only.
type Error struct {
	Reason  FailureReason
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// User-facing messages. The site is Spanish-facing; operator-facing logs
// stay in English.
const (
	msgNotConfigured   = "No está configurada la URL de la intranet (IMPA_INTRANET_BASE_URL)."
	msgCannotConnect   = "No se pudo conectar con la intranet. Intentá nuevamente en unos minutos."
	msgBadCredentials  = "Credenciales inválidas. Por favor intentá nuevamente."
	msgNoToken         = "La intranet no devolvió token."
	msgLoginUnexpected = "Error al iniciar sesión. Intentá de nuevo."
)

// ErrNotConfigured is returned when the intranet base URL is unset.
func ErrNotConfigured() *Error {
	return &Error{Reason: FailureNotConfigured, Message: msgNotConfigured}
}
