// Package common defines shared constants and sentinel errors used across
// the provisioning service and its CLI. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")

	// Validation errors.
	ErrorEmptyUserID       = errors.New("empty user id")
	ErrorUnknownPlatform   = errors.New("unknown platform")
	ErrorNoRowsAffected    = errors.New("no rows affected")
	ErrorUnexpectedPayload = errors.New("unexpected payload")

	// Token errors.
	ErrorInvalidToken = errors.New("invalid token")
	ErrorTokenExpired = errors.New("token expired")
)
