// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

// Package api provides HTTP routing using Chi router.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joacoabe/impa-org/internal/config"
	"github.com/joacoabe/impa-org/internal/middleware"
)

// Router wires handlers, middleware, and routes together.
type Router struct {
	cfg           *config.Config
	handler       *Handler
	chiMiddleware *ChiMiddleware
	uploadsDir    string
}

// NewRouter creates the router. uploadsDir is served under /media/ so
// uploaded site photos resolve without a separate web server.
func NewRouter(cfg *config.Config, handler *Handler, uploadsDir string) *Router {
	return &Router{
		cfg:           cfg,
		handler:       handler,
		chiMiddleware: NewChiMiddleware(&cfg.Security),
		uploadsDir:    uploadsDir,
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(middleware.HostNormalizer(router.cfg.Server.CanonicalHosts))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(SecurityHeaders())
	r.Use(middleware.PrometheusMetrics)
	r.Use(router.handler.sessions.Middleware)

	// Operational endpoints. No rate limit on /metrics, the scraper is
	// internal.
	r.Get("/health", router.handler.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	// Intranet authentication bridge.
	r.Route("/auth/intranet", func(r chi.Router) {
		r.Get("/", router.handler.LoginPage)
		r.With(router.chiMiddleware.RateLimitLogin()).Post("/", router.handler.LoginSubmit)
		r.Get("/logout", router.handler.Logout)
		r.Post("/logout", router.handler.Logout)
	})

	// Public site, rate limited as a group.
	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())

		r.Route("/iglesias", func(r chi.Router) {
			r.Get("/", router.handler.ChurchList)
			r.Get("/mapa", router.handler.ChurchMap)
			r.Route("/{slug}", func(r chi.Router) {
				r.Get("/", router.handler.ChurchDetail)
				r.Get("/sitio", router.handler.SiteView)
				r.Get("/sitio/editar", router.handler.SiteEdit)
				r.Post("/sitio/editar", router.handler.SiteEditSubmit)
				r.Post("/sitio/subir-foto", router.handler.SitePhotoUpload)
			})
		})

		r.Route("/noticias", func(r chi.Router) {
			r.Get("/", router.handler.NewsList)
			r.Get("/{slug}", router.handler.NewsDetail)
		})

		r.Route("/recursos", func(r chi.Router) {
			r.Get("/", router.handler.ResourceList)
			r.Get("/{slug}", router.handler.ResourceDetail)
		})

		r.Get("/institucional/{slug}", router.handler.InstitutionalPage)
		r.Get("/radios", router.handler.RadioList)
		r.Post("/contacto", router.handler.ContactSubmit)

		// The same surface under the API prefix for clients that prefer
		// versioned paths.
		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/churches", router.handler.ChurchList)
			r.Get("/churches/map", router.handler.ChurchMap)
			r.Get("/churches/{slug}", router.handler.ChurchDetail)
			r.Get("/churches/{slug}/site", router.handler.SiteView)
			r.Get("/news", router.handler.NewsList)
			r.Get("/news/{slug}", router.handler.NewsDetail)
			r.Get("/resources", router.handler.ResourceList)
			r.Get("/resources/{slug}", router.handler.ResourceDetail)
			r.Get("/pages/{slug}", router.handler.InstitutionalPage)
			r.Get("/radios", router.handler.RadioList)
			r.Post("/contact", router.handler.ContactSubmit)
		})
	})

	// Maintenance endpoints behind basic auth.
	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(router.handler.AdminAuth)
		r.Post("/seed", router.handler.AdminSeed)
		r.Post("/sync-churches", router.handler.AdminSyncChurches)
		r.Get("/contact-messages", router.handler.AdminContactMessages)
	})

	// Uploaded site photos.
	if router.uploadsDir != "" {
		fs := http.StripPrefix("/media/", http.FileServer(http.Dir(router.uploadsDir)))
		r.Handle("/media/*", fs)
	}

	return r
}
