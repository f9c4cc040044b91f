// Package common defines shared constants and sentinel errors used across
// client layers of the admin console. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// HTTP failure classes. Pipeline errors match these through errors.Is.
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrServerFault  = errors.New("server error")
	ErrUnavailable  = errors.New("server unavailable")

	// Auth flow errors.
	ErrInvalidLoginResponse = errors.New("invalid login response")
	ErrInvalidToken         = errors.New("invalid token")

	// Navigation errors.
	ErrTooManyRedirects = errors.New("too many redirects")
)
