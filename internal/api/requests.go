// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

package api

import (
	"net/http"
	"strings"

	"github.com/goccy/go-json"
)

// LoginRequest is the login form. Either username+password or a
// pre-issued token; the handler decides which path applies.
type LoginRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	AccessToken string `json:"access_token"`
	Token       string `json:"token"`
	Next        string `json:"next"`
}

// BearerToken returns the pre-issued token when one was submitted.
func (r *LoginRequest) BearerToken() string {
	if t := strings.TrimSpace(r.AccessToken); t != "" {
		return t
	}
	return strings.TrimSpace(r.Token)
}

// SiteEditRequest is the church site save form.
type SiteEditRequest struct {
	Body string `json:"body"`
}

// ContactRequest is the public contact form.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Subject string `json:"subject" validate:"omitempty,max=200"`
	Message string `json:"message" validate:"required,max=4000"`
}

// isJSONRequest reports whether the request body is JSON. The classic
// editor posts url-encoded forms; API clients send JSON. Both are
// accepted everywhere a form is read.
func isJSONRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// decodeLoginRequest reads a LoginRequest from JSON or form encoding.
func decodeLoginRequest(r *http.Request) (*LoginRequest, error) {
	req := &LoginRequest{}
	if isJSONRequest(r) {
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			return nil, err
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		req.Username = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")
		req.AccessToken = r.PostFormValue("access_token")
		req.Token = r.PostFormValue("token")
		req.Next = r.PostFormValue("next")
	}
	req.Username = strings.TrimSpace(req.Username)
	return req, nil
}

// decodeSiteEditRequest reads a SiteEditRequest from JSON or form encoding.
func decodeSiteEditRequest(r *http.Request) (*SiteEditRequest, error) {
	req := &SiteEditRequest{}
	if isJSONRequest(r) {
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			return nil, err
		}
		return req, nil
	}
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	req.Body = r.PostFormValue("body")
	return req, nil
}

// decodeContactRequest reads a ContactRequest from JSON or form encoding.
func decodeContactRequest(r *http.Request) (*ContactRequest, error) {
	req := &ContactRequest{}
	if isJSONRequest(r) {
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			return nil, err
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		req.Name = r.PostFormValue("name")
		req.Email = r.PostFormValue("email")
		req.Subject = r.PostFormValue("subject")
		req.Message = r.PostFormValue("message")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	return req, nil
}
