package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrItemNotFound indicates the requested title does not exist in the catalog
	ErrItemNotFound = errors.New("title not found")

	// ErrBackendOffline indicates the backend or catalog API is unreachable
	ErrBackendOffline = errors.New("backend is unreachable")

	// ErrAuthFailed indicates the session token is missing or invalid
	ErrAuthFailed = errors.New("authentication token is invalid")

	// ErrNotSignedIn indicates no account session exists
	ErrNotSignedIn = errors.New("not signed in")

	// ErrNoActiveProfile indicates no viewing profile has been selected
	ErrNoActiveProfile = errors.New("no active profile selected")

	// ErrContinuationNotFound indicates no continuation row exists for the pair
	ErrContinuationNotFound = errors.New("continuation not found")
)
