// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/rinkside/internal/backup"
	"github.com/tomtom215/rinkside/internal/league"
	"github.com/tomtom215/rinkside/internal/logging"
	"github.com/tomtom215/rinkside/internal/playoffs"
	"github.com/tomtom215/rinkside/internal/store"
	"github.com/tomtom215/rinkside/internal/uploads"
	"github.com/tomtom215/rinkside/internal/validation"
)

var (
	// ErrBackupsDisabled is returned by backup endpoints when no manager is wired.
	ErrBackupsDisabled = errors.New("backups are disabled")

	// ErrUploadsDisabled is returned by upload endpoints when no store is wired.
	ErrUploadsDisabled = errors.New("uploads are disabled")

	// ErrAuthDisabled is returned by login when auth mode is "none".
	ErrAuthDisabled = errors.New("authentication is disabled")
)

// statusFor maps an error to an HTTP status and error code.
func statusFor(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge
	}

	switch {
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, uploads.ErrNotFound),
		errors.Is(err, backup.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound

	case errors.Is(err, store.ErrConflict),
		errors.Is(err, league.ErrReferenced):
		return http.StatusConflict, ErrCodeConflict

	case errors.Is(err, errBadBody),
		errors.Is(err, league.ErrInvalid),
		errors.Is(err, store.ErrInvalid),
		errors.Is(err, league.ErrUnknownCategory),
		errors.Is(err, playoffs.ErrTooFewTeams),
		errors.Is(err, playoffs.ErrDuplicateSeed),
		errors.Is(err, playoffs.ErrInvalidSeriesLength),
		errors.Is(err, uploads.ErrEmpty),
		errors.Is(err, uploads.ErrUnsupportedType),
		errors.Is(err, uploads.ErrInvalidName),
		errors.Is(err, backup.ErrInvalidName):
		return http.StatusBadRequest, ErrCodeBadRequest

	case errors.Is(err, uploads.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge

	case errors.Is(err, league.ErrForbidden),
		errors.Is(err, league.ErrRegistrationClosed):
		return http.StatusForbidden, ErrCodeForbidden

	case errors.Is(err, league.ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrCodeUnauthorized

	case errors.Is(err, store.ErrClosed),
		errors.Is(err, ErrBackupsDisabled),
		errors.Is(err, ErrUploadsDisabled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable
	}
	return http.StatusInternalServerError, ErrCodeInternalError
}

// respondErr writes err as an envelope. Validation errors carry field
// details; 5xx errors are logged and their text is not exposed.
func respondErr(w http.ResponseWriter, r *http.Request, err error) {
	rw := NewResponseWriter(w, r)

	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().Err(err).
			Str("method", r.Method).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Msg("Request failed")
		if status == http.StatusInternalServerError {
			rw.Error(status, code, "An internal error occurred")
			return
		}
	}
	rw.Error(status, code, err.Error())
}
