/*
errors.go - Error types for gateway failures

PURPOSE:
  All catalog client errors in one place. Callers distinguish three cases
  with errors.Is/As:

  1. The service answered with a non-2xx status -> *StatusError
  2. The request left the client but no response arrived -> ErrUnreachable
  3. Anything else (bad input, malformed body) -> plain wrapped error

SEE ALSO:
  - client.go: Produces these errors
  - actions/friendly.go: Maps them to user-facing messages
*/
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnreachable is returned when the request was sent but no HTTP response
// came back (connection refused, DNS failure, timeout).
var ErrUnreachable = errors.New("catalog service unreachable")

// StatusError is returned when the service answered with a non-2xx status.
// Body holds the raw response body, which may be a structured JSON record
// or server-generated markup.
type StatusError struct {
	Status int
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog service returned status %d", e.Status)
}

// ServerMessage extracts a server-supplied message or error field from the
// response body. It returns "" when the body is markup (an HTML error page
// rather than structured data) or carries no such field.
func (e *StatusError) ServerMessage() string {
	trimmed := strings.TrimSpace(string(e.Body))
	if trimmed == "" || strings.HasPrefix(trimmed, "<") {
		return ""
	}

	var payload struct {
		Message string `json:"message"`
		Err     string `json:"error"`
	}
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Err
}

// IsNotFound reports whether err is a 404 from the service.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == 404
}

// IsConflict reports whether err is a 409 from the service.
func IsConflict(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == 409
}
