// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

// Chi middleware factories built on the production-hardened Chi
// ecosystem packages (go-chi/cors, go-chi/httprate).
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/joacoabe/impa-org/internal/config"
)

// ChiMiddleware provides Chi-compatible middleware factories.
type ChiMiddleware struct {
	cfg  *config.SecurityConfig
	cors func(http.Handler) http.Handler
}

// NewChiMiddleware creates the middleware factory from security config.
// CORS origins default to empty, requiring explicit configuration; this
// prevents accidental deployment with wildcard CORS.
func NewChiMiddleware(cfg *config.SecurityConfig) *ChiMiddleware {
	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		AllowCredentials: true, // session cookie
		MaxAge:           86400,
	})

	return &ChiMiddleware{
		cfg:  cfg,
		cors: corsHandler,
	}
}

// CORS returns the CORS middleware. It must be applied globally so
// OPTIONS preflight requests are handled on every route.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit returns the general per-IP rate limiter.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	return m.limit(m.cfg.RateLimitRequests, m.cfg.RateLimitWindow)
}

// RateLimitLogin returns the much stricter login rate limiter
// (brute force prevention).
func (m *ChiMiddleware) RateLimitLogin() func(http.Handler) http.Handler {
	return m.limit(m.cfg.LoginRateLimitRequests, m.cfg.LoginRateLimitWindow)
}

func (m *ChiMiddleware) limit(requests int, window time.Duration) func(http.Handler) http.Handler {
	if m.cfg.RateLimitDisabled {
		return passthrough
	}

	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			WriteError(w, r, http.StatusTooManyRequests, ErrCodeTooManyRequests,
				"Demasiados intentos. Esperá unos minutos y probá de nuevo.")
		}),
	)
}

// passthrough is the no-op middleware used when rate limiting is disabled.
func passthrough(next http.Handler) http.Handler {
	return next
}

// SecurityHeaders sets the standard security headers on API responses.
func SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			next.ServeHTTP(w, r)
		})
	}
}
