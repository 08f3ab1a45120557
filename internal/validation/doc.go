// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

// Package validation provides struct validation using go-playground/validator v10.
//
// This package wraps the go-playground/validator library to provide a thread-safe
// singleton validator instance with league-specific tags and user-friendly error
// messages. API request bodies are validated here before they reach the league
// service, which repeats the checks that depend on stored data.
//
// # Overview
//
// The package provides:
//   - Thread-safe singleton validator (initialized once, cached struct info)
//   - Field names reported by their json tag, so errors match the request body
//   - Custom tags: position, slug, oddseries, seriesrounds
//   - Error translation to the API's VALIDATION_FAILED error format
//
// # Custom Tags
//
//	position      one of C, LW, RW, D, G
//	slug          lower-case words joined by single hyphens ("opening-night")
//	oddseries     an odd integer >= 1, the length of a best-of series
//	seriesrounds  every element of an []int is an odd integer >= 1
//
// The built-in hexcolor, email, oneof, min and max tags cover the rest.
//
// # Quick Start
//
//	type ClubRequest struct {
//	    Name      string `json:"name" validate:"required,max=60"`
//	    ShortName string `json:"short_name" validate:"required,min=2,max=5"`
//	    Primary   string `json:"primary" validate:"omitempty,hexcolor"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
//
// # Thread Safety
//
// GetValidator and ValidateStruct are safe for concurrent use.
package validation
