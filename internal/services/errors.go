// Package services defines the business logic for access gating, API-key
// management, and usage reporting. This file centralizes common service-level
// error values so that they can be consistently returned by service methods
// and checked by callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the
// handler layer.
package services

import "errors"

// Access-gate errors, one per terminal DENIED reason.
var (
	// ErrMissingKey is returned when no API key accompanied the request.
	ErrMissingKey = errors.New("api key required")

	// ErrInvalidKeyFormat is returned when the presented key does not carry
	// the "sk_" prefix.
	ErrInvalidKeyFormat = errors.New("invalid api key format")

	// ErrInvalidKey is returned when the key is unknown, inactive, or the
	// store lookup failed (the gate fails closed on lookup errors).
	ErrInvalidKey = errors.New("invalid api key")

	// ErrQuotaExceeded is returned when the owning user's lifetime call count
	// has reached the plan's monthly cap.
	ErrQuotaExceeded = errors.New("monthly quota exceeded")

	// ErrRateLimited is returned when the trailing-minute window for the key
	// has reached the tier threshold.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// Key-management errors.
var (
	// ErrKeyNotFound indicates that the requested key does not exist or is
	// not accessible to the current user.
	ErrKeyNotFound = errors.New("api key not found")

	// ErrEmptyKeyName is returned when a key is issued without a usable name.
	ErrEmptyKeyName = errors.New("key name is empty")
)
