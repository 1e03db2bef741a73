// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

package validation

import (
	"strings"
	"testing"
)

// ===================================================================================================
// Singleton Validator Tests
// ===================================================================================================

func TestGetValidator_Singleton(t *testing.T) {
	// Test that GetValidator returns the same instance
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}

	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

// ===================================================================================================
// ValidateStruct Tests
// ===================================================================================================

// contactForm mirrors the shape of the public contact request.
type contactForm struct {
	Name    string `validate:"required,max=120"`
	Email   string `validate:"required,email"`
	Subject string `validate:"omitempty,max=200"`
	Message string `validate:"required,max=4000"`
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input contactForm
	}{
		{
			name: "all fields set",
			input: contactForm{
				Name:    "María González",
				Email:   "maria@example.com",
				Subject: "Consulta",
				Message: "Quisiera saber los horarios del templo.",
			},
		},
		{
			name: "subject omitted",
			input: contactForm{
				Name:    "Juan",
				Email:   "juan@example.com",
				Message: "Hola",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if err != nil {
				t.Errorf("ValidateStruct() returned unexpected error: %v", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		input     contactForm
		wantField string
		wantTag   string
	}{
		{
			name: "missing name",
			input: contactForm{
				Email:   "x@example.com",
				Message: "hola",
			},
			wantField: "Name",
			wantTag:   "required",
		},
		{
			name: "invalid email",
			input: contactForm{
				Name:    "Juan",
				Email:   "not-an-email",
				Message: "hola",
			},
			wantField: "Email",
			wantTag:   "email",
		},
		{
			name: "missing message",
			input: contactForm{
				Name:  "Juan",
				Email: "juan@example.com",
			},
			wantField: "Message",
			wantTag:   "required",
		},
		{
			name: "message too long",
			input: contactForm{
				Name:    "Juan",
				Email:   "juan@example.com",
				Message: strings.Repeat("a", 4001),
			},
			wantField: "Message",
			wantTag:   "max",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if err == nil {
				t.Fatal("ValidateStruct() should have returned an error")
			}

			errs := err.Errors()
			if len(errs) == 0 {
				t.Fatal("ValidationErrors should contain at least one error")
			}

			found := false
			for _, e := range errs {
				if e.Field() == tt.wantField && e.Tag() == tt.wantTag {
					found = true
					break
				}
			}

			if !found {
				t.Errorf("Expected error on field %s with tag %s, got: %v", tt.wantField, tt.wantTag, errs)
			}
		})
	}
}

// ===================================================================================================
// ToAPIError Tests
// ===================================================================================================

func TestToAPIError_SingleError(t *testing.T) {
	input := contactForm{
		Name:    "", // required field missing
		Email:   "x@example.com",
		Message: "hola",
	}

	err := ValidateStruct(&input)
	if err == nil {
		t.Fatal("Expected validation error")
	}

	apiErr := err.ToAPIError()

	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected code VALIDATION_ERROR, got %s", apiErr.Code)
	}

	if apiErr.Message == "" {
		t.Error("Expected non-empty message")
	}

	if apiErr.Details == nil {
		t.Error("Expected details to be set")
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	input := contactForm{} // everything required is missing

	err := ValidateStruct(&input)
	if err == nil {
		t.Fatal("Expected validation error")
	}

	apiErr := err.ToAPIError()

	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected code VALIDATION_ERROR, got %s", apiErr.Code)
	}

	if apiErr.Details == nil {
		t.Fatal("Expected details to contain field information")
	}

	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("Expected details to contain 'fields' key")
	}
}

// ===================================================================================================
// Custom Validator Tests - Slug
// ===================================================================================================

type slugStruct struct {
	Slug string `validate:"omitempty,slug"`
}

func TestSlugValidation_Valid(t *testing.T) {
	tests := []struct {
		name string
		slug string
	}{
		{"empty slug", ""},
		{"single word", "almagro"},
		{"with hyphens", "villa-maria-del-parque"},
		{"with digits", "iglesia-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := slugStruct{Slug: tt.slug}
			err := ValidateStruct(&input)
			if err != nil {
				t.Errorf("ValidateStruct() returned unexpected error for slug %q: %v", tt.slug, err)
			}
		})
	}
}

func TestSlugValidation_Invalid(t *testing.T) {
	tests := []struct {
		name string
		slug string
	}{
		{"uppercase", "Almagro"},
		{"spaces", "villa maria"},
		{"accented", "martínez"},
		{"leading hyphen", "-almagro"},
		{"trailing hyphen", "almagro-"},
		{"double hyphen", "villa--maria"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := slugStruct{Slug: tt.slug}
			err := ValidateStruct(&input)
			if err == nil {
				t.Errorf("ValidateStruct() should have returned error for slug %q", tt.slug)
			}
		})
	}
}

// ===================================================================================================
// Latitude/Longitude Validation Tests
// ===================================================================================================

type coordinatesStruct struct {
	Lat float64 `validate:"latitude"`
	Lng float64 `validate:"longitude"`
}

func TestCoordinateValidation_Valid(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		lng  float64
	}{
		{"origin", 0, 0},
		{"buenos aires", -34.6037, -58.3816},
		{"cordoba", -31.4201, -64.1888},
		{"max lat", 90, 0},
		{"min lat", -90, 0},
		{"max lng", 0, 180},
		{"min lng", 0, -180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := coordinatesStruct{Lat: tt.lat, Lng: tt.lng}
			err := ValidateStruct(&input)
			if err != nil {
				t.Errorf("ValidateStruct() returned unexpected error for lat=%f, lng=%f: %v", tt.lat, tt.lng, err)
			}
		})
	}
}

func TestCoordinateValidation_Invalid(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		lng  float64
	}{
		{"lat too high", 91, 0},
		{"lat too low", -91, 0},
		{"lng too high", 0, 181},
		{"lng too low", 0, -181},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := coordinatesStruct{Lat: tt.lat, Lng: tt.lng}
			err := ValidateStruct(&input)
			if err == nil {
				t.Errorf("ValidateStruct() should have returned error for lat=%f, lng=%f", tt.lat, tt.lng)
			}
		})
	}
}

// ===================================================================================================
// Oneof Validation Tests
// ===================================================================================================

type resourceKindStruct struct {
	Kind string `validate:"omitempty,oneof=document audio video link"`
}

func TestOneofValidation_Valid(t *testing.T) {
	for _, kind := range []string{"", "document", "audio", "video", "link"} {
		input := resourceKindStruct{Kind: kind}
		if err := ValidateStruct(&input); err != nil {
			t.Errorf("ValidateStruct() returned unexpected error for kind %q: %v", kind, err)
		}
	}
}

func TestOneofValidation_Invalid(t *testing.T) {
	for _, kind := range []string{"invalid", "Document", "audiox"} {
		input := resourceKindStruct{Kind: kind}
		if err := ValidateStruct(&input); err == nil {
			t.Errorf("ValidateStruct() should have returned error for kind %q", kind)
		}
	}
}

// ===================================================================================================
// Error Message Translation Tests
// ===================================================================================================

func TestErrorMessages_Spanish(t *testing.T) {
	input := contactForm{
		Email:   "x@example.com",
		Message: "hola",
	}

	err := ValidateStruct(&input)
	if err == nil {
		t.Fatal("Expected validation error")
	}

	msg := err.Error()
	if msg == "" {
		t.Error("Error message should not be empty")
	}

	if !strings.Contains(msg, "Name") {
		t.Errorf("Error message should reference failed field: %s", msg)
	}

	if !strings.Contains(msg, "obligatorio") {
		t.Errorf("Error message should be in Spanish: %s", msg)
	}
}
