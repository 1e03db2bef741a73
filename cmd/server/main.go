// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

// Package main is the entry point for the IMPA Org server.
//
// The server backs imparg.org: a church directory with geolocation, news
// and resources, Icecast radio stream listings, institutional pages, a
// contact form, and per-church "site" pages edited by pastors and
// secretaries who authenticate against the denomination's intranet.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: environment variables and config file (Koanf v2)
//  2. Storage: BadgerDB for content and sessions
//  3. Intranet client: identity API behind a circuit breaker
//  4. HTTP server: Chi router with the public site and versioned API
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables with the IMPA_ prefix
//   - Config file (config.yaml)
//   - Built-in defaults
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: the HTTP
// server drains in-flight requests, then the database closes.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgraph-io/badger/v4"

	"github.com/joacoabe/impa-org/internal/api"
	"github.com/joacoabe/impa-org/internal/auth"
	"github.com/joacoabe/impa-org/internal/config"
	"github.com/joacoabe/impa-org/internal/content"
	"github.com/joacoabe/impa-org/internal/intranet"
	"github.com/joacoabe/impa-org/internal/logging"
	"github.com/joacoabe/impa-org/internal/radios"
	"github.com/joacoabe/impa-org/internal/uploads"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", api.Version).
		Str("addr", cfg.Server.Addr()).
		Msg("Starting IMPA Org server")

	db, err := openDatabase(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	store := content.NewStore(db)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := store.Seed(ctx); err != nil {
		return err
	}

	sessionStore := auth.NewBadgerSessionStore(db)
	sessions := auth.NewSessionManager(sessionStore, cfg.Session)
	auth.StartCleanupRoutine(ctx, sessionStore, cfg.Session.CleanupInterval)

	var (
		intranetAPI intranet.API
		churchFeed  api.ChurchFetcher
	)
	if cfg.Intranet.Enabled() {
		intranetAPI = intranet.NewBreakerClient(intranet.NewClient(&cfg.Intranet))
		churchFeed = intranet.NewChurchesClient(&cfg.Intranet)
	} else {
		logging.Warn().Msg("Intranet is not configured; login and church sync are disabled")
		intranetAPI = intranet.NewClient(&cfg.Intranet)
	}
	refresher := auth.NewRefresher(intranetAPI, sessionStore)

	handler := api.NewHandler(
		cfg,
		store,
		sessions,
		refresher,
		intranetAPI,
		churchFeed,
		radios.NewLister(&cfg.Stream),
		uploads.NewSaver(&cfg.Uploads),
	)
	router := api.NewRouter(cfg, handler, cfg.Uploads.Dir)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	return nil
}

// openDatabase opens BadgerDB at the configured path, or in memory when
// no path is set (development).
func openDatabase(cfg *config.DatabaseConfig) (*badger.DB, error) {
	var opts badger.Options
	if cfg.Path == "" {
		logging.Warn().Msg("No database path configured; using in-memory storage")
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts.Logger = badgerLogger{}
	return badger.Open(opts)
}

// badgerLogger routes BadgerDB's logger to zerolog.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{})   { logging.Error().Msgf(format, args...) }
func (badgerLogger) Warningf(format string, args ...interface{}) { logging.Warn().Msgf(format, args...) }
func (badgerLogger) Infof(format string, args ...interface{})    { logging.Debug().Msgf(format, args...) }
func (badgerLogger) Debugf(format string, args ...interface{})   { logging.Debug().Msgf(format, args...) }
