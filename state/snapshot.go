/*
Package state holds the single application snapshot and the pure reduction
over it.

PURPOSE:
  Every screen of the companion reads from one consistent Snapshot value.
  The snapshot is never mutated in place: each dispatched action produces a
  fresh value via Reduce, and the Container swaps it in atomically.

INVARIANTS:
  - Starting a load clears any previous error (loading and error are never
    shown together).
  - Recording an error stops the loading indicator.
  - Unknown actions are a no-op, never a failure.

SEE ALSO:
  - reducer.go: Action kinds and Reduce
  - container.go: The single-writer holder of the current snapshot
*/
package state

import "github.com/shelfline/catalog-client/catalog"

// Snapshot is the in-memory application state at one point in time.
// The zero value is the start-of-process state: nothing loaded, not
// loading, no error.
type Snapshot struct {
	// Libraries is the last loaded library list.
	Libraries []catalog.Library

	// CurrentBooks holds the holdings of the most recently loaded library.
	CurrentBooks []catalog.BookHolding

	// SearchedBook is the result of the latest ISBN lookup, nil when the
	// search failed or was cleared.
	SearchedBook *catalog.Book

	// IsLoading is true while a remote call is outstanding.
	IsLoading bool

	// Error is the normalized message of the last failure, "" when absent.
	Error string
}
