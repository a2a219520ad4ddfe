// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP responses
// (via the `fail()` helper in this package). These codes provide clients with a stable,
// machine-readable error taxonomy that supplements human-readable messages.
//
// Conventions:
//   - Codes are UPPER_SNAKE_CASE and stable across releases.
//   - Generic codes (e.g., BAD_REQUEST, NOT_FOUND) mirror common HTTP status
//     semantics to aid interoperability.
//   - Domain-specific codes (e.g., MISSING_CAPTION, RATE_LIMIT_EXCEEDED) are
//     reserved for business errors that cannot be conveyed by status alone.
//   - All error responses must include both an HTTP status and one of these codes.
//
// Usage:
//   - Handlers select the most specific matching code and pass it to `fail()` along
//     with the corresponding HTTP status and message.
//   - Clients are expected to branch on these codes for programmatic error handling.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "CAPTION_TOO_LONG",
//	  "message": "caption exceeds 2200 characters"
//	}
package handlers

const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeInternal         = "INTERNAL_ERROR"

	// Access gate (also emitted by the APIKeyGate middleware):
	ErrCodeMissingAPIKey = "MISSING_API_KEY"
	ErrCodeInvalidAPIKey = "INVALID_API_KEY"
	ErrCodeMonthlyLimit  = "MONTHLY_LIMIT_EXCEEDED"
	ErrCodeRateLimited   = "RATE_LIMIT_EXCEEDED"

	// Validation endpoint:
	ErrCodeMissingCaption = "MISSING_CAPTION"
	ErrCodeCaptionTooLong = "CAPTION_TOO_LONG"

	// Billing:
	ErrCodeUnknownPlan      = "UNKNOWN_PLAN"
	ErrCodeUnknownProvider  = "UNKNOWN_PROVIDER"
	ErrCodeInvalidSignature = "INVALID_SIGNATURE"
	ErrCodeProviderError    = "PAYMENT_PROVIDER_ERROR"
)
