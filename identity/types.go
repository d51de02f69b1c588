/*
Package identity is the patron directory: a locally persisted table of
library users and the sole authority for minting their usernames.

PURPOSE:
  The catalog service identifies patrons by username only; it has no user
  registry of its own. This package issues usernames that are unique,
  human-typeable, and URL-safe, without any central allocator: the name is
  a deterministic prefix derived from role and first name, plus the next
  free numeric suffix under that prefix.

ALLOCATION RULE:
  prefix = "User" + role + firstName stripped to [A-Za-z0-9]
  suffix = 1 + max numeric suffix of existing usernames with that exact
           prefix (0 when none match)

  "admin" + "Zé"  -> prefix "UserAdminZ"  -> first allocation "UserAdminZ1"
  "client" + "Ana" -> "UserClientAna1", then "UserClientAna2", ...

  The scan-then-insert sequence is not atomic on its own; Directory closes
  the race (see directory.go).

SEE ALSO:
  - directory.go: Allocation orchestration and race protection
  - store.go: Persistence interface
  - ../store/sqlite: Production store
*/
package identity

import (
	"regexp"
	"strconv"
	"strings"
)

// Role classifies a patron. Unrecognized input collapses to RoleClient.
type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleLibrarian Role = "Librarian"
	RoleClient    Role = "Client"
)

// NormalizeRole maps free-form role input to one of the three roles,
// case-insensitively. Absent or unrecognized input becomes RoleClient.
func NormalizeRole(input string) Role {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "admin":
		return RoleAdmin
	case "librarian":
		return RoleLibrarian
	default:
		return RoleClient
	}
}

// Patron is one directory entry. NationalID and Username are globally
// unique and immutable after creation.
type Patron struct {
	ID         int64  `db:"id"`
	NationalID string `db:"national_id"`
	FirstName  string `db:"first_name"`
	Phone      string `db:"phone"`
	Role       Role   `db:"role"`
	Username   string `db:"username"`
}

// NewPatron is the input to Directory.CreatePatron. Role is free-form and
// normalized on creation.
type NewPatron struct {
	NationalID string
	FirstName  string
	Phone      string
	Role       string
}

// Usernames travel in API URLs, so the prefix keeps only characters that
// never need escaping.
var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9]`)

// UsernamePrefix derives the non-numeric username stem for a role and
// first name. Diacritics and punctuation are stripped, not transliterated.
func UsernamePrefix(role Role, firstName string) string {
	return "User" + string(role) + unsafeChars.ReplaceAllString(firstName, "")
}

// suffixOf parses the numeric suffix of a username under a prefix.
// It returns 0, false unless the username is exactly the prefix followed
// by one or more digits.
func suffixOf(prefix, username string) (int, bool) {
	if !strings.HasPrefix(username, prefix) {
		return 0, false
	}
	digits := username[len(prefix):]
	if digits == "" {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// maxSuffix returns the highest numeric suffix among usernames matching
// the prefix pattern, 0 when none match.
func maxSuffix(prefix string, usernames []string) int {
	max := 0
	for _, u := range usernames {
		if n, ok := suffixOf(prefix, u); ok && n > max {
			max = n
		}
	}
	return max
}
