/*
Package sqlite provides the SQLite-backed identity and preference store.

PURPOSE:
  Implements identity.Store plus the single persisted client preference
  (last-used username) on one embedded database file.

KEY TABLES:
  patrons: the identity directory (unique national_id and username)
  prefs:   key/value pairs surviving restarts

CONSTRAINTS AS AUTHORITY:
  Uniqueness of national_id and username is enforced by the database, not
  by callers' reads. Constraint violations are mapped to the identity
  package's sentinel errors so the directory can retry or surface them.

CONCURRENCY:
  One shared handle, many logical operations: the Store is opened once and
  reused for the process lifetime. Schema initialization is guarded by
  sync.Once so concurrent first-use initializes exactly once. A sync.RWMutex
  serializes writes against the single connection.

WAL MODE:
  The database is opened with WAL and a busy timeout so readers never block
  on the writer.

USAGE:
  st, err := sqlite.New("./companion.db")
  if err != nil { ... }
  defer st.Close()
  directory := identity.NewDirectory(st)

SEE ALSO:
  - identity/store.go: Interface definition
  - identity/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/shelfline/catalog-client/identity"
)

// Store implements identity.Store and the preference store on SQLite.
type Store struct {
	db *sqlx.DB
	mu sync.RWMutex

	initOnce sync.Once
	initErr  error
}

// New opens (or creates) the database at dbPath. Use ":memory:" for an
// in-memory database. The schema is not touched until EnsureSchema runs.
func New(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One shared handle for the process lifetime. This also keeps
	// ":memory:" databases coherent, which are per-connection in the
	// driver.
	db.SetMaxOpenConns(1)
	return &Store{db: db}, nil
}

// Close closes the shared handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// =============================================================================
// SCHEMA
// =============================================================================

const schema = `
CREATE TABLE IF NOT EXISTS patrons (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	national_id TEXT NOT NULL UNIQUE,
	first_name  TEXT NOT NULL,
	phone       TEXT NOT NULL,
	role        TEXT NOT NULL CHECK (role IN ('Admin','Librarian','Client')),
	username    TEXT NOT NULL UNIQUE
);

CREATE INDEX IF NOT EXISTS idx_patrons_role_first_name
	ON patrons(role, first_name);

CREATE TABLE IF NOT EXISTS prefs (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// EnsureSchema creates tables and indexes if absent and seeds the fixture
// patron when the patron table has just been created empty. Idempotent;
// concurrent callers share one initialization.
func (s *Store) EnsureSchema(ctx context.Context) error {
	s.initOnce.Do(func() {
		s.initErr = s.ensureSchema(ctx)
	})
	return s.initErr
}

func (s *Store) ensureSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM patrons"); err != nil {
		return fmt.Errorf("count patrons: %w", err)
	}
	if count == 0 {
		// First-run fixture so a fresh install can resolve a patron.
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO patrons (national_id, first_name, phone, role, username)
			 VALUES (?, ?, ?, ?, ?)`,
			"12345", "Tester", "910000000", string(identity.RoleClient), "UserClientTester1",
		)
		if err != nil {
			return fmt.Errorf("seed fixture patron: %w", err)
		}
	}
	return nil
}

// =============================================================================
// IDENTITY STORE (identity.Store interface)
// =============================================================================

// UsernamesWithPrefix returns every username starting with prefix.
// Prefixes contain only [A-Za-z0-9], so the LIKE pattern needs no escaping.
func (s *Store) UsernamesWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var usernames []string
	err := s.db.SelectContext(ctx, &usernames,
		"SELECT username FROM patrons WHERE username LIKE ?", prefix+"%")
	if err != nil {
		return nil, fmt.Errorf("query usernames: %w", err)
	}
	return usernames, nil
}

// Insert writes a new patron, surfacing uniqueness violations as the
// identity sentinels.
func (s *Store) Insert(ctx context.Context, p identity.Patron) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO patrons (national_id, first_name, phone, role, username)
		 VALUES (?, ?, ?, ?, ?)`,
		p.NationalID, p.FirstName, p.Phone, string(p.Role), p.Username,
	)
	if err != nil {
		if constraintHit(err, "patrons.national_id") {
			return 0, identity.ErrDuplicateNationalID
		}
		if constraintHit(err, "patrons.username") {
			return 0, identity.ErrUsernameTaken
		}
		return 0, fmt.Errorf("insert patron: %w", err)
	}
	return res.LastInsertId()
}

// ByNationalID returns the patron with that national id, nil when absent.
func (s *Store) ByNationalID(ctx context.Context, nationalID string) (*identity.Patron, error) {
	return s.getPatron(ctx, "SELECT * FROM patrons WHERE national_id = ?", nationalID)
}

// ByUsername returns the patron with that username, nil when absent.
func (s *Store) ByUsername(ctx context.Context, username string) (*identity.Patron, error) {
	return s.getPatron(ctx, "SELECT * FROM patrons WHERE username = ?", username)
}

func (s *Store) getPatron(ctx context.Context, query string, arg any) (*identity.Patron, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p identity.Patron
	err := s.db.GetContext(ctx, &p, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query patron: %w", err)
	}
	return &p, nil
}

// All returns every patron ordered by insertion.
func (s *Store) All(ctx context.Context) ([]identity.Patron, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var patrons []identity.Patron
	if err := s.db.SelectContext(ctx, &patrons, "SELECT * FROM patrons ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list patrons: %w", err)
	}
	return patrons, nil
}

// =============================================================================
// PREFERENCES
// =============================================================================

const lastUsernameKey = "last_username"

// LastUsername returns the last remembered username, "" when unset.
func (s *Store) LastUsername(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.GetContext(ctx, &value, "SELECT value FROM prefs WHERE key = ?", lastUsernameKey)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read preference: %w", err)
	}
	return value, nil
}

// RememberUsername stores the username used by the latest successful
// circulation call.
func (s *Store) RememberUsername(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO prefs (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		lastUsernameKey, username,
	)
	if err != nil {
		return fmt.Errorf("write preference: %w", err)
	}
	return nil
}

// constraintHit reports whether err is a UNIQUE violation on the named
// column. go-sqlite3 does not expose structured constraint info, so the
// driver's message text is the contract.
func constraintHit(err error, column string) bool {
	return err != nil &&
		strings.Contains(err.Error(), "UNIQUE constraint failed") &&
		strings.Contains(err.Error(), column)
}
