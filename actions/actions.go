/*
Package actions orchestrates user intents against the remote catalog and
the local identity directory.

PURPOSE:
  One method per user intent. Each follows the same discipline:

    dispatch SetLoading(true)
    call the gateway
    on success: dispatch the Loaded/Found result
    on failure: dispatch SetError(FriendlyMessage(err)) and return err

  Returning the error as well as recording it lets the immediate caller
  decide whether to additionally raise a blocking alert; both channels
  firing for one failure is intended.

REFETCH ON MUTATION:
  Every mutating call (create/update/delete library or book, check-in,
  check-out) is followed by an unconditional reload of the affected
  collection from the server. The client never patches its own view of a
  mutation's effect; the server is the source of truth, at the cost of one
  extra round trip.

CONCURRENCY:
  Actions run to completion one at a time per screen; the caller is
  expected to hold off its next intent while the snapshot's IsLoading flag
  is set. If two independent mutations do race, the snapshot reflects
  whichever refetch resolves last. That is accepted, not a defect.

SEE ALSO:
  - circulation.go: Check-in/check-out and patron resolution
  - friendly.go: Error normalization
*/
package actions

import (
	"context"

	"github.com/shelfline/catalog-client/catalog"
	"github.com/shelfline/catalog-client/identity"
	"github.com/shelfline/catalog-client/state"
)

// Gateway is the remote catalog surface the actions consume.
// *catalog.Client satisfies it.
type Gateway interface {
	ListLibraries(ctx context.Context) ([]catalog.Library, error)
	CreateLibrary(ctx context.Context, lib catalog.Library) (*catalog.Library, error)
	UpdateLibrary(ctx context.Context, id int, lib catalog.Library) (*catalog.Library, error)
	DeleteLibrary(ctx context.Context, id int) error
	ListBooks(ctx context.Context, libraryID int) ([]catalog.BookHolding, error)
	LookupBookByISBN(ctx context.Context, isbn string) (*catalog.Book, error)
	AddBook(ctx context.Context, libraryID int, isbn string, stock int) (*catalog.BookHolding, error)
	UpdateBook(ctx context.Context, libraryID int, isbn string, stock int) (*catalog.BookHolding, error)
	CheckOut(ctx context.Context, libraryID int, isbn, username string) (*catalog.CheckoutRecord, error)
	CheckIn(ctx context.Context, libraryID int, isbn, username string) error
}

// Prefs persists the last-used username across restarts.
// *sqlite.Store satisfies it.
type Prefs interface {
	LastUsername(ctx context.Context) (string, error)
	RememberUsername(ctx context.Context, username string) error
}

// Actions binds the gateway, the identity directory, the preference store,
// and the state container into one orchestration layer.
type Actions struct {
	gateway   Gateway
	directory *identity.Directory
	prefs     Prefs
	container *state.Container
}

// New wires an Actions layer.
func New(gateway Gateway, directory *identity.Directory, prefs Prefs, container *state.Container) *Actions {
	return &Actions{
		gateway:   gateway,
		directory: directory,
		prefs:     prefs,
		container: container,
	}
}

// Container exposes the snapshot holder for observers.
func (a *Actions) Container() *state.Container {
	return a.container
}

// fail records a normalized failure in the snapshot and passes the raw
// error back to the caller.
func (a *Actions) fail(err error) error {
	a.container.Dispatch(state.SetError{Message: FriendlyMessage(err)})
	return err
}

// =============================================================================
// LIBRARIES
// =============================================================================

// FetchLibraries reloads the library list into the snapshot.
func (a *Actions) FetchLibraries(ctx context.Context) error {
	a.container.Dispatch(state.SetLoading{Loading: true})

	libs, err := a.gateway.ListLibraries(ctx)
	if err != nil {
		return a.fail(err)
	}
	if libs == nil {
		libs = []catalog.Library{}
	}
	a.container.Dispatch(state.LibrariesLoaded{Libraries: libs})
	return nil
}

// CreateLibrary registers a library, then reloads the list.
func (a *Actions) CreateLibrary(ctx context.Context, lib catalog.Library) error {
	a.container.Dispatch(state.SetLoading{Loading: true})

	if _, err := a.gateway.CreateLibrary(ctx, lib); err != nil {
		return a.fail(err)
	}
	return a.FetchLibraries(ctx)
}

// UpdateLibrary replaces a library, then reloads the list.
func (a *Actions) UpdateLibrary(ctx context.Context, id int, lib catalog.Library) error {
	a.container.Dispatch(state.SetLoading{Loading: true})

	if _, err := a.gateway.UpdateLibrary(ctx, id, lib); err != nil {
		return a.fail(err)
	}
	return a.FetchLibraries(ctx)
}

// DeleteLibrary removes a library, then reloads the list. The refetch runs
// even when the deleted id was already missing from the local copy.
func (a *Actions) DeleteLibrary(ctx context.Context, id int) error {
	a.container.Dispatch(state.SetLoading{Loading: true})

	if err := a.gateway.DeleteLibrary(ctx, id); err != nil {
		return a.fail(err)
	}
	return a.FetchLibraries(ctx)
}

// =============================================================================
// BOOKS
// =============================================================================

// FetchBooks reloads one library's holdings into the snapshot.
func (a *Actions) FetchBooks(ctx context.Context, libraryID int) error {
	a.container.Dispatch(state.SetLoading{Loading: true})

	holdings, err := a.gateway.ListBooks(ctx, libraryID)
	if err != nil {
		return a.fail(err)
	}
	if holdings == nil {
		holdings = []catalog.BookHolding{}
	}
	a.container.Dispatch(state.BooksLoaded{Holdings: holdings})
	return nil
}

// AddBook adds stock of an ISBN to a library, then reloads its holdings.
func (a *Actions) AddBook(ctx context.Context, libraryID int, isbn string, stock int) error {
	if isbn == "" {
		return a.fail(&ValidationError{Reason: "ISBN is required."})
	}
	if stock < 0 {
		return a.fail(&ValidationError{Reason: "Stock must be zero or more."})
	}

	a.container.Dispatch(state.SetLoading{Loading: true})

	if _, err := a.gateway.AddBook(ctx, libraryID, isbn, stock); err != nil {
		return a.fail(err)
	}
	return a.FetchBooks(ctx, libraryID)
}

// UpdateBook replaces a holding's stock level, then reloads the holdings.
func (a *Actions) UpdateBook(ctx context.Context, libraryID int, isbn string, stock int) error {
	if isbn == "" {
		return a.fail(&ValidationError{Reason: "ISBN is required."})
	}
	if stock < 0 {
		return a.fail(&ValidationError{Reason: "Stock must be zero or more."})
	}

	a.container.Dispatch(state.SetLoading{Loading: true})

	if _, err := a.gateway.UpdateBook(ctx, libraryID, isbn, stock); err != nil {
		return a.fail(err)
	}
	return a.FetchBooks(ctx, libraryID)
}

// =============================================================================
// SEARCH
// =============================================================================

// SearchBook looks an ISBN up in the catalog. Any prior result is cleared
// first, and a failed lookup leaves SearchedBook absent rather than stale.
func (a *Actions) SearchBook(ctx context.Context, isbn string) error {
	if isbn == "" {
		return a.fail(&ValidationError{Reason: "ISBN is required."})
	}

	a.container.Dispatch(state.ClearSearchedBook{})
	a.container.Dispatch(state.SetLoading{Loading: true})

	book, err := a.gateway.LookupBookByISBN(ctx, isbn)
	if err == nil && (book == nil || book.ISBN == "") {
		// The service answered OK but with no usable record.
		err = errEmptyBook
	}
	if err != nil {
		// Clear first so the failure message survives: the snapshot must
		// end with no searched book and the normalized error set.
		a.container.Dispatch(state.ClearSearchedBook{})
		return a.fail(err)
	}

	a.container.Dispatch(state.BookFound{Book: *book})
	return nil
}

// ClearSearchedBook discards the current lookup result, typically when the
// caller leaves the search flow.
func (a *Actions) ClearSearchedBook() {
	a.container.Dispatch(state.ClearSearchedBook{})
}
