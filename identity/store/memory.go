// Package store provides identity.Store implementations.
package store

import (
	"context"
	"strings"
	"sync"

	"github.com/shelfline/catalog-client/identity"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory keeps patrons in process memory. It enforces the same uniqueness
// rules as the SQLite store, so allocation behaves identically in tests.
type Memory struct {
	mu         sync.RWMutex
	seeded     bool
	nextID     int64
	byUsername map[string]identity.Patron
	byNational map[string]string // national id -> username
	order      []string          // usernames in insertion order
}

func NewMemory() *Memory {
	return &Memory{
		nextID:     1,
		byUsername: make(map[string]identity.Patron),
		byNational: make(map[string]string),
	}
}

// EnsureSchema seeds the fixture patron on the first call against an empty
// store, matching the SQLite store's first-run behavior.
func (m *Memory) EnsureSchema(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.seeded {
		return nil
	}
	m.seeded = true
	if len(m.byUsername) == 0 {
		m.insertLocked(identity.Patron{
			NationalID: "12345",
			FirstName:  "Tester",
			Phone:      "910000000",
			Role:       identity.RoleClient,
			Username:   "UserClientTester1",
		})
	}
	return nil
}

func (m *Memory) UsernamesWithPrefix(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matches []string
	for _, u := range m.order {
		if strings.HasPrefix(u, prefix) {
			matches = append(matches, u)
		}
	}
	return matches, nil
}

func (m *Memory) Insert(_ context.Context, p identity.Patron) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byNational[p.NationalID]; exists {
		return 0, identity.ErrDuplicateNationalID
	}
	if _, exists := m.byUsername[p.Username]; exists {
		return 0, identity.ErrUsernameTaken
	}
	return m.insertLocked(p), nil
}

func (m *Memory) insertLocked(p identity.Patron) int64 {
	p.ID = m.nextID
	m.nextID++
	m.byUsername[p.Username] = p
	m.byNational[p.NationalID] = p.Username
	m.order = append(m.order, p.Username)
	return p.ID
}

func (m *Memory) ByNationalID(_ context.Context, nationalID string) (*identity.Patron, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	username, ok := m.byNational[nationalID]
	if !ok {
		return nil, nil
	}
	p := m.byUsername[username]
	return &p, nil
}

func (m *Memory) ByUsername(_ context.Context, username string) (*identity.Patron, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.byUsername[username]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *Memory) All(_ context.Context) ([]identity.Patron, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	patrons := make([]identity.Patron, 0, len(m.order))
	for _, u := range m.order {
		patrons = append(patrons, m.byUsername[u])
	}
	return patrons, nil
}
