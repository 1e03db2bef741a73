// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

package intranet

import (
	"context"
	"errors"
	"testing"
)

// scriptedAPI is a fixed-behavior API with call counters, for observing
// which calls the breaker lets through to the remote.
type scriptedAPI struct {
	token    string
	user     *UserPayload
	loginErr error
	identity *Identity

	loginCalls   int
	profileCalls int
}

func (s *scriptedAPI) Login(context.Context, string, string) (string, *UserPayload, error) {
	s.loginCalls++
	if s.loginErr != nil {
		return "", nil, s.loginErr
	}
	return s.token, s.user, nil
}

func (s *scriptedAPI) FetchProfile(context.Context, string) *Identity {
	s.profileCalls++
	return s.identity
}

func TestBreakerClient_ProfileFailuresDoNotBlockLogin(t *testing.T) {
	remote := &scriptedAPI{
		token: "tok-123",
		user:  &UserPayload{Username: "jdoe"},
		// identity stays nil: every profile fetch fails, as it does when
		// the profile endpoint rejects freshly issued tokens.
	}
	client := NewBreakerClient(remote)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if identity := client.FetchProfile(ctx, "tok-123"); identity != nil {
			t.Fatal("Expected profile fetch to fail")
		}
	}

	token, user, err := client.Login(ctx, "jdoe", "secret")
	if err != nil {
		t.Fatalf("Expected login to succeed despite profile failures, got %v", err)
	}
	if token != "tok-123" {
		t.Errorf("Expected token tok-123, got %q", token)
	}
	if user == nil || user.Username != "jdoe" {
		t.Error("Expected the login payload user")
	}
	if remote.loginCalls != 1 {
		t.Errorf("Expected the login request to reach the remote, got %d calls", remote.loginCalls)
	}
}

func TestBreakerClient_ProfileCircuitOpensAfterFailures(t *testing.T) {
	remote := &scriptedAPI{}
	client := NewBreakerClient(remote)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		client.FetchProfile(ctx, "tok")
	}

	// Once open, fetches short-circuit without touching the remote.
	if remote.profileCalls >= 20 {
		t.Errorf("Expected the profile circuit to open, remote saw all %d calls", remote.profileCalls)
	}
}

func TestBreakerClient_RejectedLoginIsNotABreakerFailure(t *testing.T) {
	remote := &scriptedAPI{
		loginErr: &Error{Reason: FailureRejected, Message: "Credenciales inválidas. Por favor intentá nuevamente."},
	}
	client := NewBreakerClient(remote)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, _, err := client.Login(ctx, "jdoe", "wrong")
		var apiErr *Error
		if !errors.As(err, &apiErr) || apiErr.Reason != FailureRejected {
			t.Fatalf("Expected the rejection to pass through, got %v", err)
		}
	}

	if remote.loginCalls != 10 {
		t.Errorf("Expected every rejected login to reach the remote, got %d calls", remote.loginCalls)
	}
}

func TestBreakerClient_TransportLoginFailuresOpenCircuit(t *testing.T) {
	remote := &scriptedAPI{
		loginErr: &Error{Reason: FailureTransport, Message: "No se pudo conectar con la intranet. Intentá nuevamente en unos minutos."},
	}
	client := NewBreakerClient(remote)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		client.Login(ctx, "jdoe", "secret")
	}

	if remote.loginCalls >= 20 {
		t.Errorf("Expected the login circuit to open, remote saw all %d calls", remote.loginCalls)
	}

	_, _, err := client.Login(ctx, "jdoe", "secret")
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Reason != FailureTransport {
		t.Fatalf("Expected a transport-tagged error while open, got %v", err)
	}
}
