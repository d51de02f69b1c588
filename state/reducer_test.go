package state_test

import (
	"testing"

	"github.com/shelfline/catalog-client/catalog"
	"github.com/shelfline/catalog-client/state"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func loadedSnapshot() state.Snapshot {
	book := catalog.Book{ISBN: "9780140328721", Title: "Matilda"}
	return state.Snapshot{
		Libraries: []catalog.Library{
			{ID: 1, Name: "Central"},
			{ID: 2, Name: "East Branch"},
		},
		CurrentBooks: []catalog.BookHolding{
			{Book: book, Stock: 3, CheckedOut: 1, Available: 2},
		},
		SearchedBook: &book,
	}
}

// =============================================================================
// REDUCTION RULES
// =============================================================================

func TestReduce_SetLoading_ClearsError(t *testing.T) {
	// GIVEN: A snapshot carrying a failure from the previous action
	before := state.Snapshot{Error: "Server error (500)."}

	// WHEN: A new load starts
	after := state.Reduce(before, state.SetLoading{Loading: true})

	// THEN: Loading is on and the stale error is gone
	if !after.IsLoading {
		t.Error("Expected IsLoading to be true")
	}
	if after.Error != "" {
		t.Errorf("Expected error cleared, got %q", after.Error)
	}
}

func TestReduce_SetError_StopsLoading(t *testing.T) {
	// GIVEN: A snapshot in the middle of a load
	before := state.Snapshot{IsLoading: true}

	// WHEN: The load fails
	after := state.Reduce(before, state.SetError{Message: "Unable to contact the server. Check your internet connection."})

	// THEN: The spinner stops and the message is recorded
	if after.IsLoading {
		t.Error("Expected IsLoading to be false after an error")
	}
	if after.Error == "" {
		t.Error("Expected the error message to be recorded")
	}
}

func TestReduce_LibrariesLoaded_ReplacesListWholesale(t *testing.T) {
	// GIVEN: A snapshot with two libraries
	before := loadedSnapshot()

	// WHEN: A refetch returns only one
	after := state.Reduce(before, state.LibrariesLoaded{
		Libraries: []catalog.Library{{ID: 2, Name: "East Branch"}},
	})

	// THEN: The list is replaced, not merged
	if len(after.Libraries) != 1 {
		t.Fatalf("Expected 1 library, got %d", len(after.Libraries))
	}
	if after.Libraries[0].ID != 2 {
		t.Errorf("Expected library 2 to remain, got %d", after.Libraries[0].ID)
	}
	if after.IsLoading {
		t.Error("Expected loading to stop on load completion")
	}
}

func TestReduce_BookFound_SetsResultAndClearsError(t *testing.T) {
	before := state.Snapshot{IsLoading: true, Error: "old"}

	after := state.Reduce(before, state.BookFound{
		Book: catalog.Book{ISBN: "9780545010221", Title: "Harry Potter and the Deathly Hallows"},
	})

	if after.SearchedBook == nil {
		t.Fatal("Expected a searched book")
	}
	if after.SearchedBook.ISBN != "9780545010221" {
		t.Errorf("Wrong book recorded: %q", after.SearchedBook.ISBN)
	}
	if after.Error != "" || after.IsLoading {
		t.Error("Expected a found book to clear error and loading")
	}
}

func TestReduce_ClearSearchedBook(t *testing.T) {
	before := loadedSnapshot()
	before.Error = "stale"

	after := state.Reduce(before, state.ClearSearchedBook{})

	if after.SearchedBook != nil {
		t.Error("Expected the searched book to be discarded")
	}
	if after.Error != "" {
		t.Error("Expected the error to be discarded with the result")
	}
	// The rest of the snapshot is untouched.
	if len(after.Libraries) != 2 || len(after.CurrentBooks) != 1 {
		t.Error("Expected libraries and holdings to survive the clear")
	}
}

func TestReduce_IsPure(t *testing.T) {
	// GIVEN: A snapshot
	before := loadedSnapshot()

	// WHEN: Several actions are applied to the same input
	state.Reduce(before, state.SetLoading{Loading: true})
	state.Reduce(before, state.SetError{Message: "boom"})
	state.Reduce(before, state.ClearSearchedBook{})

	// THEN: The input value itself never changed
	if before.IsLoading || before.Error != "" {
		t.Error("Expected the input snapshot to be unchanged")
	}
	if before.SearchedBook == nil || before.SearchedBook.Title != "Matilda" {
		t.Error("Expected the input's searched book to be unchanged")
	}
}

// =============================================================================
// CONTAINER
// =============================================================================

func TestContainer_DispatchAndCurrent(t *testing.T) {
	c := state.NewContainer()

	start := c.Current()
	if start.IsLoading || start.Error != "" || start.Libraries != nil {
		t.Error("Expected the zero snapshot at start of process")
	}

	c.Dispatch(state.SetLoading{Loading: true})
	if !c.Current().IsLoading {
		t.Error("Expected Current to reflect the dispatch")
	}
}

func TestContainer_SubscriberSeesEveryDispatch(t *testing.T) {
	c := state.NewContainer()

	var seen []state.Snapshot
	c.Subscribe(func(s state.Snapshot) {
		seen = append(seen, s)
	})

	c.Dispatch(state.SetLoading{Loading: true})
	c.Dispatch(state.SetError{Message: "boom"})

	if len(seen) != 2 {
		t.Fatalf("Expected 2 notifications, got %d", len(seen))
	}
	if !seen[0].IsLoading {
		t.Error("First notification should carry the loading snapshot")
	}
	if seen[1].Error != "boom" || seen[1].IsLoading {
		t.Error("Second notification should carry the failed snapshot")
	}
}
