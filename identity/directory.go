/*
directory.go - Patron creation and lookup over a Store

RACE PROTECTION:
  Allocation is scan-then-insert: read the highest suffix under a prefix,
  insert prefix+(max+1). Two concurrent creations for the same prefix can
  read the same maximum and collide on insert. Directory closes the window
  twice over:

  1. A single-writer mutex serializes every CreatePatron in this process.
  2. The store's unique constraint on username stays authoritative: if an
     insert still collides (another process on the same database), the
     suffix is recomputed and the insert retried.

SEE ALSO:
  - types.go: Prefix and suffix rules
  - store.go: Store contract
*/
package identity

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
)

// allocRetries bounds recompute-and-retry on username collisions from
// writers outside this process.
const allocRetries = 5

// Directory issues usernames and answers patron lookups.
type Directory struct {
	store Store

	mu sync.Mutex // serializes the scan-then-insert write path
}

// NewDirectory wraps a Store.
func NewDirectory(store Store) *Directory {
	return &Directory{store: store}
}

// EnsureSchema initializes the underlying store. Failures are logged and
// swallowed: a pre-existing valid schema keeps the app usable even when
// initialization cannot run.
func (d *Directory) EnsureSchema(ctx context.Context) {
	if err := d.store.EnsureSchema(ctx); err != nil {
		log.Printf("identity: schema init failed (continuing): %v", err)
	}
}

// CreatePatron normalizes the input, mints the next free username, and
// inserts the patron. The returned Patron carries the assigned id and
// username.
func (d *Directory) CreatePatron(ctx context.Context, in NewPatron) (*Patron, error) {
	if in.NationalID == "" {
		return nil, fmt.Errorf("%w: national id is required", ErrInvalidInput)
	}
	if in.FirstName == "" {
		return nil, fmt.Errorf("%w: first name is required", ErrInvalidInput)
	}

	role := NormalizeRole(in.Role)
	prefix := UsernamePrefix(role, in.FirstName)

	d.mu.Lock()
	defer d.mu.Unlock()

	for attempt := 0; attempt < allocRetries; attempt++ {
		existing, err := d.store.UsernamesWithPrefix(ctx, prefix)
		if err != nil {
			return nil, fmt.Errorf("scan usernames: %w", err)
		}

		p := Patron{
			NationalID: in.NationalID,
			FirstName:  in.FirstName,
			Phone:      in.Phone,
			Role:       role,
			Username:   prefix + strconv.Itoa(maxSuffix(prefix, existing)+1),
		}

		id, err := d.store.Insert(ctx, p)
		if errors.Is(err, ErrUsernameTaken) {
			// Lost the race to a writer outside this process; recompute.
			continue
		}
		if err != nil {
			return nil, err
		}

		p.ID = id
		return &p, nil
	}

	return nil, fmt.Errorf("allocate username for %q: %w", prefix, ErrUsernameTaken)
}

// FindByNationalID returns the patron with that national id, nil when
// absent.
func (d *Directory) FindByNationalID(ctx context.Context, nationalID string) (*Patron, error) {
	return d.store.ByNationalID(ctx, nationalID)
}

// FindByUsername returns the patron with that username, nil when absent.
func (d *Directory) FindByUsername(ctx context.Context, username string) (*Patron, error) {
	return d.store.ByUsername(ctx, username)
}

// ListAll dumps every patron, for operational inspection.
func (d *Directory) ListAll(ctx context.Context) ([]Patron, error) {
	return d.store.All(ctx)
}
