package identity_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfline/catalog-client/identity"
	"github.com/shelfline/catalog-client/identity/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestDirectory(t *testing.T) (*identity.Directory, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	return identity.NewDirectory(mem), mem
}

func newPatron(cc, first, role string) identity.NewPatron {
	return identity.NewPatron{
		NationalID: cc,
		FirstName:  first,
		Phone:      "912345678",
		Role:       role,
	}
}

// =============================================================================
// PREFIX AND SUFFIX RULES
// =============================================================================

func TestUsernamePrefix_Sanitization(t *testing.T) {
	cases := []struct {
		role  identity.Role
		first string
		want  string
	}{
		{identity.RoleClient, "Ana", "UserClientAna"},
		{identity.RoleLibrarian, "Maria", "UserLibrarianMaria"},
		{identity.RoleAdmin, "Zé", "UserAdminZ"},
		{identity.RoleClient, "Mary-Jane O'Neil", "UserClientMaryJaneONeil"},
		{identity.RoleClient, "J.R. 2nd", "UserClientJR2nd"},
		{identity.RoleClient, "日本", "UserClient"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, identity.UsernamePrefix(c.role, c.first),
			"role=%s first=%q", c.role, c.first)
	}
}

func TestNormalizeRole(t *testing.T) {
	assert.Equal(t, identity.RoleAdmin, identity.NormalizeRole("admin"))
	assert.Equal(t, identity.RoleAdmin, identity.NormalizeRole("ADMIN"))
	assert.Equal(t, identity.RoleLibrarian, identity.NormalizeRole("Librarian"))
	assert.Equal(t, identity.RoleClient, identity.NormalizeRole("client"))

	// Anything unrecognized falls back to Client.
	assert.Equal(t, identity.RoleClient, identity.NormalizeRole(""))
	assert.Equal(t, identity.RoleClient, identity.NormalizeRole("manager"))
}

// =============================================================================
// USERNAME ALLOCATION
// =============================================================================

func TestCreatePatron_FirstUnderPrefix_GetsSuffixOne(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()

	p, err := dir.CreatePatron(ctx, newPatron("100", "Ana", "Client"))
	require.NoError(t, err)
	assert.Equal(t, "UserClientAna1", p.Username)
	assert.NotZero(t, p.ID)
}

func TestCreatePatron_SuffixesIncrease(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()

	p1, err := dir.CreatePatron(ctx, newPatron("100", "Ana", "Client"))
	require.NoError(t, err)
	p2, err := dir.CreatePatron(ctx, newPatron("101", "Ana", "Client"))
	require.NoError(t, err)
	p3, err := dir.CreatePatron(ctx, newPatron("102", "Ana", "Client"))
	require.NoError(t, err)

	assert.Equal(t, "UserClientAna1", p1.Username)
	assert.Equal(t, "UserClientAna2", p2.Username)
	assert.Equal(t, "UserClientAna3", p3.Username)
}

func TestCreatePatron_RolesAllocateIndependently(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()

	client, err := dir.CreatePatron(ctx, newPatron("100", "Ana", "Client"))
	require.NoError(t, err)
	librarian, err := dir.CreatePatron(ctx, newPatron("101", "Ana", "Librarian"))
	require.NoError(t, err)

	// Different prefixes, so both start at 1.
	assert.Equal(t, "UserClientAna1", client.Username)
	assert.Equal(t, "UserLibrarianAna1", librarian.Username)
}

func TestCreatePatron_PrefixOverlapIgnoresLongerNames(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()

	// "UserClientAnabela1" shares the string prefix "UserClientAna" but is
	// not prefix+digits, so it must not influence Ana's numbering.
	_, err := dir.CreatePatron(ctx, newPatron("100", "Anabela", "Client"))
	require.NoError(t, err)

	p, err := dir.CreatePatron(ctx, newPatron("101", "Ana", "Client"))
	require.NoError(t, err)
	assert.Equal(t, "UserClientAna1", p.Username)
}

func TestCreatePatron_DuplicateNationalID_Rejected(t *testing.T) {
	dir, mem := newTestDirectory(t)
	ctx := context.Background()

	_, err := dir.CreatePatron(ctx, newPatron("100", "Ana", "Client"))
	require.NoError(t, err)

	_, err = dir.CreatePatron(ctx, newPatron("100", "Rui", "Client"))
	require.ErrorIs(t, err, identity.ErrDuplicateNationalID)

	// The failed creation must not leave a row behind.
	all, err := mem.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreatePatron_MissingFields_Rejected(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()

	_, err := dir.CreatePatron(ctx, newPatron("", "Ana", "Client"))
	assert.ErrorIs(t, err, identity.ErrInvalidInput)

	_, err = dir.CreatePatron(ctx, newPatron("100", "", "Client"))
	assert.ErrorIs(t, err, identity.ErrInvalidInput)
}

// =============================================================================
// COLLISION RETRY
// =============================================================================

// racingStore simulates a writer in another process: the first Insert is
// preceded by an out-of-band insert of the same username, forcing the
// unique-constraint path.
type racingStore struct {
	identity.Store
	once sync.Once
}

func (r *racingStore) Insert(ctx context.Context, p identity.Patron) (int64, error) {
	r.once.Do(func() {
		stolen := p
		stolen.NationalID = "other-process"
		r.Store.Insert(ctx, stolen)
	})
	return r.Store.Insert(ctx, p)
}

func TestCreatePatron_RetriesWhenUsernameStolen(t *testing.T) {
	dir := identity.NewDirectory(&racingStore{Store: store.NewMemory()})
	ctx := context.Background()

	p, err := dir.CreatePatron(ctx, newPatron("100", "Ana", "Client"))
	require.NoError(t, err)

	// Suffix 1 went to the out-of-band writer; the retry recomputed 2.
	assert.Equal(t, "UserClientAna2", p.Username)
}

func TestCreatePatron_ConcurrentSamePrefix_AllUnique(t *testing.T) {
	dir, mem := newTestDirectory(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cc := "cc-" + string(rune('a'+i))
			_, errs[i] = dir.CreatePatron(ctx, newPatron(cc, "Ana", "Client"))
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "creation %d", i)
	}

	all, err := mem.All(ctx)
	require.NoError(t, err)
	seen := make(map[string]bool)
	for _, p := range all {
		assert.False(t, seen[p.Username], "duplicate username %q", p.Username)
		seen[p.Username] = true
	}
	assert.Len(t, all, n)
}

// =============================================================================
// LOOKUPS
// =============================================================================

func TestFind_AbsentPatron_ReturnsNilNil(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()

	p, err := dir.FindByUsername(ctx, "UserClientNobody1")
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = dir.FindByNationalID(ctx, "404")
	require.NoError(t, err)
	assert.Nil(t, p)
}

// brokenInitStore fails initialization but serves everything else.
type brokenInitStore struct {
	identity.Store
}

func (b *brokenInitStore) EnsureSchema(context.Context) error {
	return errors.New("disk full")
}

func TestEnsureSchema_FailureIsSwallowed_DirectoryStaysUsable(t *testing.T) {
	dir := identity.NewDirectory(&brokenInitStore{Store: store.NewMemory()})
	ctx := context.Background()

	// Logged, not returned, not panicked.
	dir.EnsureSchema(ctx)

	p, err := dir.CreatePatron(ctx, newPatron("100", "Ana", "Client"))
	require.NoError(t, err)
	assert.Equal(t, "UserClientAna1", p.Username)

	found, err := dir.FindByUsername(ctx, p.Username)
	require.NoError(t, err)
	require.NotNil(t, found)
}

func TestEnsureSchema_SeedsFixturePatronOnce(t *testing.T) {
	dir, mem := newTestDirectory(t)
	ctx := context.Background()

	dir.EnsureSchema(ctx)
	dir.EnsureSchema(ctx)

	all, err := mem.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "UserClientTester1", all[0].Username)
	assert.Equal(t, "12345", all[0].NationalID)
	assert.Equal(t, identity.RoleClient, all[0].Role)
}
