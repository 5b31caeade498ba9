package smarthome

import "errors"

// Domain errors for the smarthome package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, smarthome.ErrValidation) {
//	    // response violated the event schema
//	}
var (
	// ErrMalformedRequest is returned when a required field is missing from
	// the inbound request and no fallback applies.
	ErrMalformedRequest = errors.New("smarthome: malformed request")

	// ErrUnsupportedDirective marks an outcome that was answered with an
	// unsupported-directive error envelope. Dispatch never returns it.
	ErrUnsupportedDirective = errors.New("smarthome: unsupported directive")

	// ErrLookupFailed is returned when the identity lookup fails for a
	// reason other than an unknown token.
	ErrLookupFailed = errors.New("smarthome: identity lookup failed")

	// ErrValidation is returned when the validator rejects a response.
	ErrValidation = errors.New("smarthome: response validation failed")
)

// ErrorType is the payload.type of an ErrorResponse event.
type ErrorType string

// Error types used in ErrorResponse events.
const (
	ErrorInvalidDirective      ErrorType = "INVALID_DIRECTIVE"
	ErrorNoSuchEndpoint        ErrorType = "NO_SUCH_ENDPOINT"
	ErrorInvalidAuthCredential ErrorType = "INVALID_AUTHORIZATION_CREDENTIAL"
	ErrorInternal              ErrorType = "INTERNAL_ERROR"
)
