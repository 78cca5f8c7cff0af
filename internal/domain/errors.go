package domain

import "errors"

// Sentinel errors surfaced across layers. Handlers translate these into
// HTTP status codes at the boundary; everything else maps to a generic 500.
var (
	// ErrDuplicateEmail is returned when signup hits the unique email constraint
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrUserNotFound is returned when no user matches the lookup
	ErrUserNotFound = errors.New("user not found")

	// ErrEmptyQuery is returned when a token search is blank after trimming
	ErrEmptyQuery = errors.New("empty search query")

	// ErrTokenNotFound is returned when the signal API has no data for a symbol
	ErrTokenNotFound = errors.New("token not found")
)
