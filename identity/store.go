package identity

import "context"

// Store persists patrons. Implementations must enforce uniqueness of both
// national_id and username at the storage level and report violations with
// ErrDuplicateNationalID / ErrUsernameTaken; the constraint, not the
// caller's read, is authoritative.
//
// Implementations:
//   - store/sqlite: production store (one shared handle, many operations)
//   - identity/store: in-memory store for tests
type Store interface {
	// EnsureSchema creates the patron table and indexes if absent, seeding
	// one fixture patron on first-ever creation. Idempotent and safe to
	// call on every startup, including concurrently.
	EnsureSchema(ctx context.Context) error

	// UsernamesWithPrefix returns every stored username beginning with
	// prefix, in no particular order.
	UsernamesWithPrefix(ctx context.Context, prefix string) ([]string, error)

	// Insert writes a new patron and returns its assigned surrogate id.
	Insert(ctx context.Context, p Patron) (int64, error)

	// ByNationalID returns the patron with that national id, nil when
	// absent.
	ByNationalID(ctx context.Context, nationalID string) (*Patron, error)

	// ByUsername returns the patron with that username, nil when absent.
	ByUsername(ctx context.Context, username string) (*Patron, error)

	// All returns every patron, for diagnostic inspection.
	All(ctx context.Context) ([]Patron, error)
}
