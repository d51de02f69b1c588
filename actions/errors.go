package actions

import "errors"

// ValidationError reports bad or missing user input, caught before any
// remote call leaves the client. Its Reason is already user-facing.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

var (
	// ErrUnknownPatron is returned when a resolution mode points at a
	// patron the local directory does not hold.
	ErrUnknownPatron = errors.New("patron not found locally")

	// errEmptyBook marks a lookup that answered OK without a usable record.
	errEmptyBook = errors.New("catalog returned an empty book record")
)
