// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

package intranet

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/joacoabe/impa-org/internal/config"
)

func newTestClient(baseURL string) *Client {
	return NewClient(&config.IntranetConfig{
		BaseURL:        baseURL,
		LoginTimeout:   5 * time.Second,
		ProfileTimeout: 5 * time.Second,
	})
}

func TestLogin_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/auth/login" {
			t.Errorf("Unexpected path %q", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("Unexpected method %q", r.Method)
		}

		var creds map[string]string
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Fatalf("Failed to decode credentials: %v", err)
		}
		if creds["username"] != "jdoe" || creds["password"] != "secret" {
			t.Errorf("Unexpected credentials %v", creds)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "tok-123",
			"user": map[string]interface{}{
				"username":  "jdoe",
				"role":      "Pastor",
				"church_id": 7,
			},
		})
	}))
	defer server.Close()

	token, user, err := newTestClient(server.URL).Login(context.Background(), "jdoe", "secret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token != "tok-123" {
		t.Errorf("Expected token tok-123, got %q", token)
	}
	if user == nil || user.Username != "jdoe" || user.ChurchID == nil || *user.ChurchID != 7 {
		t.Errorf("Unexpected user payload %+v", user)
	}
}

func TestLogin_RejectedWithMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Usuario o contraseña incorrectos."})
	}))
	defer server.Close()

	_, _, err := newTestClient(server.URL).Login(context.Background(), "jdoe", "wrong")
	var intranetErr *Error
	if !errors.As(err, &intranetErr) {
		t.Fatalf("Expected an *Error, got %v", err)
	}
	if intranetErr.Reason != FailureRejected {
		t.Errorf("Expected FailureRejected, got %q", intranetErr.Reason)
	}
	if intranetErr.Message != "Usuario o contraseña incorrectos." {
		t.Errorf("Expected the remote message, got %q", intranetErr.Message)
	}
}

func TestLogin_EmptyToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"access_token": ""})
	}))
	defer server.Close()

	_, _, err := newTestClient(server.URL).Login(context.Background(), "jdoe", "secret")
	var intranetErr *Error
	if !errors.As(err, &intranetErr) {
		t.Fatalf("Expected an *Error, got %v", err)
	}
	if intranetErr.Reason != FailureNoToken {
		t.Errorf("Expected FailureNoToken, got %q", intranetErr.Reason)
	}
}

func TestLogin_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, _, err := newTestClient(server.URL).Login(context.Background(), "jdoe", "secret")
	var intranetErr *Error
	if !errors.As(err, &intranetErr) {
		t.Fatalf("Expected an *Error, got %v", err)
	}
	if intranetErr.Reason != FailureTransport {
		t.Errorf("Expected FailureTransport, got %q", intranetErr.Reason)
	}
}

func TestLogin_NotConfigured(t *testing.T) {
	_, _, err := newTestClient("").Login(context.Background(), "jdoe", "secret")
	var intranetErr *Error
	if !errors.As(err, &intranetErr) {
		t.Fatalf("Expected an *Error, got %v", err)
	}
	if intranetErr.Reason != FailureNotConfigured {
		t.Errorf("Expected FailureNotConfigured, got %q", intranetErr.Reason)
	}
}

func TestFetchProfile_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/public/me" {
			t.Errorf("Unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Expected bearer header, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"username":   "jdoe",
			"role":       "Pastor",
			"first_name": "Juan",
			"last_name":  "Dominguez",
			"church_id":  7,
		})
	}))
	defer server.Close()

	id := newTestClient(server.URL).FetchProfile(context.Background(), "tok-123")
	if id == nil {
		t.Fatal("Expected an identity")
	}
	if id.Username != "jdoe" || id.Role != RolePastor {
		t.Errorf("Unexpected identity %+v", id)
	}
	if id.ChurchID == nil || *id.ChurchID != 7 {
		t.Errorf("Expected church 7, got %v", id.ChurchID)
	}
}

func TestFetchProfile_NilOnRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	if id := newTestClient(server.URL).FetchProfile(context.Background(), "tok-123"); id != nil {
		t.Errorf("Expected nil on rejection, got %+v", id)
	}
}

func TestFetchProfile_NilOnEmptyToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("No request should be made without a token")
	}))
	defer server.Close()

	if id := newTestClient(server.URL).FetchProfile(context.Background(), ""); id != nil {
		t.Errorf("Expected nil for an empty token, got %+v", id)
	}
}
