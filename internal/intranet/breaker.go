// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

package intranet

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/joacoabe/impa-org/internal/logging"
	"github.com/joacoabe/impa-org/internal/metrics"
)

// BreakerClient wraps Client with circuit breakers so a flapping intranet
// cannot make every page that checks permissions wait out the full profile
// timeout. Logins go through a breaker too: when its circuit is open the
// user gets the connectivity message immediately.
//
// Login and profile get separate breakers. The profile endpoint is known
// to reject tokens the login endpoint just issued, so sustained profile
// failures say nothing about login health; an open profile circuit must
// never turn away a credentials login the intranet would accept.
//
// The breakers use real time (via sony/gobreaker) for their interval and
// timeout bookkeeping. Tests exercise the wrapped client directly.
type BreakerClient struct {
	client    API
	loginCB   *gobreaker.CircuitBreaker[any]
	profileCB *gobreaker.CircuitBreaker[any]
}

const (
	loginBreakerName   = "intranet-login"
	profileBreakerName = "intranet-profile"
)

// NewBreakerClient wraps an intranet client with circuit breaker
// protection. Each breaker is configured with:
//   - max 3 concurrent requests in half-open state
//   - 1 minute measurement window
//   - 1 minute open period before recovery attempts
//   - opens after 60% failure rate with minimum 6 requests
func NewBreakerClient(client API) *BreakerClient {
	return &BreakerClient{
		client:    client,
		loginCB:   newBreaker(loginBreakerName),
		profileCB: newBreaker(profileBreakerName),
	}
}

func newBreaker(name string) *gobreaker.CircuitBreaker[any] {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0) // 0 = closed

	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 6 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("Circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})
}

// loginResult carries a completed login exchange through the breaker.
// Remote rejections (bad credentials, missing token) ride in err: the
// remote answered, so the circuit stays healthy.
type loginResult struct {
	token string
	user  *UserPayload
	err   error
}

// Login implements API. A rejected login (bad credentials) is not a breaker
// failure; only transport-level trouble counts toward opening the circuit.
func (b *BreakerClient) Login(ctx context.Context, username, password string) (string, *UserPayload, error) {
	result, err := b.loginCB.Execute(func() (any, error) {
		token, user, err := b.client.Login(ctx, username, password)
		var apiErr *Error
		if err != nil {
			if errors.As(err, &apiErr) && apiErr.Reason != FailureTransport {
				return &loginResult{err: err}, nil
			}
			return nil, err
		}
		return &loginResult{token: token, user: user}, nil
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(loginBreakerName, "rejected").Inc()
			return "", nil, &Error{Reason: FailureTransport, Message: msgCannotConnect, cause: err}
		}
		metrics.CircuitBreakerRequests.WithLabelValues(loginBreakerName, "failure").Inc()
		return "", nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(loginBreakerName, "success").Inc()
	lr, ok := result.(*loginResult)
	if !ok {
		return "", nil, &Error{Reason: FailureRejected, Message: msgLoginUnexpected}
	}
	if lr.err != nil {
		return "", nil, lr.err
	}
	return lr.token, lr.user, nil
}

// FetchProfile implements API. Returns nil when the circuit is open, which
// callers already treat as "profile unavailable, keep cached identity".
// Only the profile breaker observes these failures; the login breaker
// stays untouched regardless of how the profile endpoint behaves.
func (b *BreakerClient) FetchProfile(ctx context.Context, token string) *Identity {
	result, err := b.profileCB.Execute(func() (any, error) {
		identity := b.client.FetchProfile(ctx, token)
		// A nil identity covers both rejection and transport failure; both
		// count as breaker failures, which is fine: either way the remote
		// is not serving profiles.
		if identity == nil {
			return nil, errors.New("profile unavailable")
		}
		return identity, nil
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(profileBreakerName, "rejected").Inc()
			logging.Ctx(ctx).Warn().Str("breaker", profileBreakerName).Msg("Profile fetch short-circuited")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(profileBreakerName, "failure").Inc()
		}
		return nil
	}

	metrics.CircuitBreakerRequests.WithLabelValues(profileBreakerName, "success").Inc()
	identity, ok := result.(*Identity)
	if !ok {
		return nil
	}
	return identity
}

// stateToFloat converts circuit breaker state to a numeric value for metrics.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to a string for logging.
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
