/*
friendly.go - Error normalization

PURPOSE:
  Maps any failure an action can see to one short user-facing message.
  Total and side-effect-free apart from diagnostic logging: it never
  panics, and internal error details are logged, not shown.

PRECEDENCE:
  1. Validation failures show their own reason verbatim.
  2. A structured server response wins: its message/error field is shown,
     unless the body is markup, in which case the status code decides.
  3. Known status codes map to fixed messages.
  4. A request that got no response at all maps to a connectivity message.
  5. Local identity conflicts and unknown patrons get their own lines.
  6. Everything else is the generic internal-error message.
*/
package actions

import (
	"errors"
	"fmt"
	"log"

	"github.com/shelfline/catalog-client/catalog"
	"github.com/shelfline/catalog-client/identity"
)

// FriendlyMessage normalizes err into the message stored in the snapshot
// and shown to the user.
func FriendlyMessage(err error) string {
	if err == nil {
		return ""
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Reason
	}

	var serr *catalog.StatusError
	if errors.As(err, &serr) {
		if msg := serr.ServerMessage(); msg != "" {
			return msg
		}
		switch serr.Status {
		case 400:
			return "Invalid data. Please check your inputs."
		case 401:
			return "Unauthorized. Please login again."
		case 403:
			return "You do not have permission to perform this action."
		case 404:
			return "Book or resource not found (404)."
		case 409:
			return "Conflict error (e.g., duplicate record)."
		case 500:
			return "Internal server error. Please try again later."
		default:
			return fmt.Sprintf("Server error (%d).", serr.Status)
		}
	}

	if errors.Is(err, catalog.ErrUnreachable) {
		return "Unable to contact the server. Check your internet connection."
	}

	if errors.Is(err, identity.ErrDuplicateNationalID) {
		return "A patron with that national id already exists."
	}
	if errors.Is(err, ErrUnknownPatron) {
		return "No patron found. Check the id or create one."
	}

	// Local fault before any request left the client. The detail is for
	// the log, never the user.
	log.Printf("actions: internal error: %v", err)
	return "An unexpected error occurred."
}
