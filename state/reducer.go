package state

import "github.com/shelfline/catalog-client/catalog"

// Action is a typed state transition request. Only the types in this file
// are meaningful to Reduce; anything else leaves the snapshot untouched.
type Action interface {
	isAction()
}

// SetLoading flips the loading flag. Starting a load always clears the
// previous error.
type SetLoading struct {
	Loading bool
}

// SetError records a normalized failure message and stops loading.
type SetError struct {
	Message string
}

// LibrariesLoaded replaces the library list after a successful fetch.
type LibrariesLoaded struct {
	Libraries []catalog.Library
}

// BooksLoaded replaces the current holdings after a successful fetch.
type BooksLoaded struct {
	Holdings []catalog.BookHolding
}

// BookFound records the result of an ISBN lookup.
type BookFound struct {
	Book catalog.Book
}

// ClearSearchedBook discards any previous lookup result.
type ClearSearchedBook struct{}

func (SetLoading) isAction()        {}
func (SetError) isAction()          {}
func (LibrariesLoaded) isAction()   {}
func (BooksLoaded) isAction()       {}
func (BookFound) isAction()         {}
func (ClearSearchedBook) isAction() {}

// Reduce returns the snapshot that results from applying one action.
// It is pure: the input snapshot is never modified, and the same inputs
// always produce the same output.
func Reduce(s Snapshot, a Action) Snapshot {
	switch act := a.(type) {
	case SetLoading:
		s.IsLoading = act.Loading
		s.Error = ""
	case SetError:
		s.IsLoading = false
		s.Error = act.Message
	case LibrariesLoaded:
		s.IsLoading = false
		s.Libraries = act.Libraries
	case BooksLoaded:
		s.IsLoading = false
		s.CurrentBooks = act.Holdings
	case BookFound:
		book := act.Book
		s.IsLoading = false
		s.SearchedBook = &book
		s.Error = ""
	case ClearSearchedBook:
		s.SearchedBook = nil
		s.Error = ""
	}
	return s
}
