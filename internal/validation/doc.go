// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

// Package validation provides struct validation using go-playground/validator v10.
//
// This package wraps the go-playground/validator library to provide a thread-safe
// singleton validator instance with custom validators and Spanish-language error
// messages. It integrates with the API's error envelope for consistent error
// responses.
//
// # Overview
//
// The package provides:
//   - Thread-safe singleton validator (initialized once, cached struct info)
//   - Custom "slug" validator for church and page identifiers
//   - Error translation to human-readable Spanish messages
//   - APIError conversion matching the application's error format
//
// # Quick Start
//
//	type ContactRequest struct {
//	    Name    string `validate:"required,max=120"`
//	    Email   string `validate:"required,email"`
//	    Message string `validate:"required,max=4000"`
//	}
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    var req ContactRequest
//	    if err := json.Decode(r.Body, &req); err != nil {
//	        // handle decode error
//	    }
//
//	    if verr := validation.ValidateStruct(&req); verr != nil {
//	        apiErr := verr.ToAPIError()
//	        respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	        return
//	    }
//
//	    // proceed with valid request
//	}
//
// # Common Validation Tags
//
// String validations:
//   - required: Field must not be empty
//   - min=n: Minimum length n characters
//   - max=n: Maximum length n characters
//   - email: Valid email format
//   - url: Valid URL format
//   - slug: Lowercase URL slug (letters, digits, hyphens)
//
// Numeric validations:
//   - gte=n / lte=n / gt=n / lt=n: Range comparisons
//   - min=n / max=n: Minimum and maximum value
//
// Enum validations:
//   - oneof=a b c: Must be one of the specified values
//
// Coordinate validations:
//   - latitude: Valid latitude (-90 to 90)
//   - longitude: Valid longitude (-180 to 180)
//
// # API Error Integration
//
// The ToAPIError method produces errors matching the application format:
//
//	// Single field error
//	{
//	    "code": "VALIDATION_ERROR",
//	    "message": "Email debe ser una dirección de correo válida",
//	    "details": {"field": "Email", "tag": "email", "value": "invalid"}
//	}
//
//	// Multiple field errors
//	{
//	    "code": "VALIDATION_ERROR",
//	    "message": "Name: Name es obligatorio; Email: Email es obligatorio",
//	    "details": {
//	        "fields": [
//	            {"field": "Name", "tag": "required", "message": "..."},
//	            {"field": "Email", "tag": "required", "message": "..."}
//	        ]
//	    }
//	}
//
// Messages are Spanish because validation failures are shown to site
// visitors; operator-facing logs remain English.
//
// # Thread Safety
//
// The singleton validator is initialized once and safe for concurrent use:
//
//	validate := validation.GetValidator()  // Thread-safe
//	err := validation.ValidateStruct(&req) // Thread-safe
//
// # See Also
//
//   - internal/api: Request handlers using validation
//   - github.com/go-playground/validator/v10: Underlying library
package validation
