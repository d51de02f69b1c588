package identity

import "errors"

// Sentinel errors surfaced by patron writes. Read lookups never use these:
// absence is reported as a nil Patron, not an error.
var (
	// ErrDuplicateNationalID is returned when a patron with the same
	// national id already exists. The caller's input was wrong; nothing
	// was inserted.
	ErrDuplicateNationalID = errors.New("national id already registered")

	// ErrUsernameTaken is returned by stores when an insert loses the
	// allocation race. Directory retries on it; callers should never see
	// it escape.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidInput is returned when a required field is empty.
	ErrInvalidInput = errors.New("invalid patron input")
)
