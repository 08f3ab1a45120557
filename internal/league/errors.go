// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package league

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalid wraps every input validation failure.
	ErrInvalid = errors.New("invalid input")

	// ErrReferenced is returned when deleting a document other documents point at.
	ErrReferenced = errors.New("still referenced")

	// ErrForbidden is returned when the actor may not change the target.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidCredentials is returned for a bad username, password or a disabled account.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrRegistrationClosed is returned by Register when self sign-up is off.
	ErrRegistrationClosed = errors.New("registration is disabled")

	// ErrUnknownCategory is returned by Leaders for an unsupported category.
	ErrUnknownCategory = errors.New("unknown leader category")
)

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func referencedf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrReferenced, fmt.Sprintf(format, args...))
}
