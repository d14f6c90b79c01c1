package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unsupported provider, file or MIME type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrNotConnected indicates no connected credential exists for the
	// requested (organization, provider) pair.
	ErrNotConnected = errors.New("integration not connected")

	// ErrAuthExpired indicates the stored authorization is no longer usable
	// and refresh failed. Callers should re-trigger the OAuth flow rather
	// than retry.
	ErrAuthExpired = errors.New("authorization expired")

	// ErrTokenRefreshFailed indicates a token refresh call failed.
	ErrTokenRefreshFailed = errors.New("token refresh failed")

	// ErrConversionFailed indicates a document body could not be converted
	// to HTML. For legacy word-processor formats this is swallowed and
	// replaced with a placeholder; for everything else it propagates.
	ErrConversionFailed = errors.New("content conversion failed")
)
