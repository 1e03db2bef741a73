// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

// Package metrics provides Prometheus instrumentation for impa-org:
// API latency and throughput, intranet client outcomes, circuit breaker
// state, sessions, uploads and radio status scrapes.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "impa_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "impa_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "impa_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// Intranet identity API client metrics
	IntranetRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "impa_intranet_requests_total",
			Help: "Total number of intranet identity API calls",
		},
		[]string{"operation", "outcome"}, // operation: "login", "profile"; outcome: "success", "rejected", "transport_error"
	)

	IntranetRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "impa_intranet_request_duration_seconds",
			Help:    "Duration of intranet identity API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "impa_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "impa_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "impa_circuit_breaker_requests_total",
			Help: "Total number of requests through the circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	// Session Metrics
	SessionsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "impa_sessions_created_total",
			Help: "Total number of intranet sessions created",
		},
		[]string{"method"}, // "credentials", "token"
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "impa_sessions_active",
			Help: "Current number of live intranet sessions",
		},
	)

	// Upload Metrics
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "impa_uploads_total",
			Help: "Total number of church site photo uploads",
		},
		[]string{"result"}, // "accepted", "rejected"
	)

	UploadBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "impa_upload_bytes_total",
			Help: "Total bytes of accepted photo uploads",
		},
	)

	// Radio status scrape metrics
	RadioScrapes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "impa_radio_scrapes_total",
			Help: "Total number of Icecast status page scrapes",
		},
		[]string{"result"}, // "success", "failure"
	)

	RadioStreamsListed = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "impa_radio_streams",
			Help: "Number of radio streams found on the last successful scrape",
		},
	)
)

// TrackActiveRequest increments or decrements the in-flight request gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordAPIRequest records a completed API request.
func RecordAPIRequest(method, path, status string, duration time.Duration) {
	APIRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
	APIRequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordIntranetRequest records an intranet identity API call.
func RecordIntranetRequest(operation, outcome string, duration time.Duration) {
	IntranetRequests.WithLabelValues(operation, outcome).Inc()
	IntranetRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
