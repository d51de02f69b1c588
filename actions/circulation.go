/*
circulation.go - Check-out, check-in, and patron resolution

PATRON RESOLUTION:
  A circulation call needs a username. The caller declares exactly one of
  three ways to get it:

    ModeUsername:   a username the user typed or the client remembered
    ModeNationalID: look the patron up by national id
    ModeNewPatron:  mint a new patron (reusing an existing one if the
                    national id is already registered)

  Exactly one path executes per invocation, and there is deliberately no
  hard-coded username that skips resolution: every circulation call goes
  through the directory.
*/
package actions

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/shelfline/catalog-client/catalog"
	"github.com/shelfline/catalog-client/identity"
	"github.com/shelfline/catalog-client/state"
)

// ResolutionMode selects how a circulation call finds its patron.
type ResolutionMode int

const (
	// ModeUsername resolves a typed or remembered username against the
	// directory.
	ModeUsername ResolutionMode = iota

	// ModeNationalID looks the patron up by national id.
	ModeNationalID

	// ModeNewPatron creates a patron, or reuses the one already holding
	// the given national id.
	ModeNewPatron
)

// PatronRef declares one resolution path and its inputs. Only the fields
// belonging to Mode are read.
type PatronRef struct {
	Mode       ResolutionMode
	Username   string
	NationalID string
	NewPatron  identity.NewPatron
}

// resolveUsername executes the declared resolution path.
func (a *Actions) resolveUsername(ctx context.Context, ref PatronRef) (string, error) {
	switch ref.Mode {
	case ModeUsername:
		username := strings.TrimSpace(ref.Username)
		if username == "" {
			return "", &ValidationError{Reason: "Enter a patron username."}
		}
		p, err := a.directory.FindByUsername(ctx, username)
		if err != nil {
			return "", err
		}
		if p == nil {
			return "", fmt.Errorf("username %q: %w", username, ErrUnknownPatron)
		}
		return p.Username, nil

	case ModeNationalID:
		nationalID := strings.TrimSpace(ref.NationalID)
		if nationalID == "" {
			return "", &ValidationError{Reason: "Enter a national id."}
		}
		p, err := a.directory.FindByNationalID(ctx, nationalID)
		if err != nil {
			return "", err
		}
		if p == nil {
			return "", fmt.Errorf("national id %q: %w", nationalID, ErrUnknownPatron)
		}
		return p.Username, nil

	case ModeNewPatron:
		in := ref.NewPatron
		in.NationalID = strings.TrimSpace(in.NationalID)
		in.FirstName = strings.TrimSpace(in.FirstName)
		in.Phone = strings.TrimSpace(in.Phone)
		if in.NationalID == "" || in.FirstName == "" || in.Phone == "" {
			return "", &ValidationError{Reason: "Enter national id, first name, and phone."}
		}
		// An already-registered national id means the patron exists;
		// reuse it instead of failing the circulation.
		existing, err := a.directory.FindByNationalID(ctx, in.NationalID)
		if err != nil {
			return "", err
		}
		if existing != nil {
			return existing.Username, nil
		}
		p, err := a.directory.CreatePatron(ctx, in)
		if err != nil {
			return "", err
		}
		return p.Username, nil

	default:
		return "", fmt.Errorf("unknown resolution mode %d", ref.Mode)
	}
}

// CheckOut lends one copy to the resolved patron and returns the receipt.
// On success the username is remembered for next time and the library's
// holdings are refetched. When only the refetch fails, the loan stands:
// the receipt is returned alongside the refetch error.
func (a *Actions) CheckOut(ctx context.Context, libraryID int, isbn string, ref PatronRef) (*catalog.CheckoutRecord, error) {
	username, err := a.resolveUsername(ctx, ref)
	if err != nil {
		return nil, a.fail(err)
	}

	a.container.Dispatch(state.SetLoading{Loading: true})

	record, err := a.gateway.CheckOut(ctx, libraryID, isbn, username)
	if err != nil {
		return nil, a.fail(err)
	}

	a.rememberUsername(ctx, username)
	if err := a.FetchBooks(ctx, libraryID); err != nil {
		return record, err
	}
	return record, nil
}

// CheckIn returns one copy from the resolved patron, remembers the
// username, and refetches the library's holdings.
func (a *Actions) CheckIn(ctx context.Context, libraryID int, isbn string, ref PatronRef) error {
	username, err := a.resolveUsername(ctx, ref)
	if err != nil {
		return a.fail(err)
	}

	a.container.Dispatch(state.SetLoading{Loading: true})

	if err := a.gateway.CheckIn(ctx, libraryID, isbn, username); err != nil {
		return a.fail(err)
	}

	a.rememberUsername(ctx, username)
	return a.FetchBooks(ctx, libraryID)
}

// LastUsername returns the remembered username, "" when none.
func (a *Actions) LastUsername(ctx context.Context) string {
	if a.prefs == nil {
		return ""
	}
	username, err := a.prefs.LastUsername(ctx)
	if err != nil {
		log.Printf("actions: read last username: %v", err)
		return ""
	}
	return username
}

func (a *Actions) rememberUsername(ctx context.Context, username string) {
	if a.prefs == nil {
		return
	}
	// A lost preference must not fail a successful circulation.
	if err := a.prefs.RememberUsername(ctx, username); err != nil {
		log.Printf("actions: remember username: %v", err)
	}
}
