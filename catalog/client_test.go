package catalog_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfline/catalog-client/catalog"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newTestClient(t *testing.T, handler http.Handler) *catalog.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return catalog.NewClient(srv.URL)
}

// =============================================================================
// REQUEST SHAPE
// =============================================================================

func TestClient_CheckOut_SendsUsernameAsQueryParam(t *testing.T) {
	var gotPath, gotUser, gotMethod string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotUser = r.URL.Query().Get("userId")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"loan-1","dueDate":"2026-09-13","book":{"isbn":"9780140328721","title":"Matilda"}}`))
	}))

	record, err := client.CheckOut(context.Background(), 7, "9780140328721", "UserClientAna1")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/v1/library/7/book/9780140328721/checkout", gotPath)
	assert.Equal(t, "UserClientAna1", gotUser)
	assert.Equal(t, "loan-1", record.ID)
	assert.Equal(t, "2026-09-13", record.DueDate)
	assert.Equal(t, "Matilda", record.Book.Title)
}

func TestClient_ListBooks_DecodesHoldings(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/library/3/book", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"book":{"isbn":"9780140328721","title":"Matilda"},"stock":3,"checkedOut":1,"available":2}]`))
	}))

	holdings, err := client.ListBooks(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Equal(t, 3, holdings[0].Stock)
	assert.Equal(t, 2, holdings[0].Available)
}

// =============================================================================
// FAILURE MAPPING
// =============================================================================

func TestClient_NonSuccessStatus_BecomesStatusError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "Book not found."}`))
	}))

	_, err := client.LookupBookByISBN(context.Background(), "0000000000")
	require.Error(t, err)

	var se *catalog.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 404, se.Status)
	assert.Equal(t, "Book not found.", se.ServerMessage())
	assert.True(t, catalog.IsNotFound(err))
	assert.False(t, catalog.IsConflict(err))
}

func TestClient_ConnectionFailure_IsUnreachable(t *testing.T) {
	// A server that is already closed refuses the connection.
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := catalog.NewClient(srv.URL)

	_, err := client.ListLibraries(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, catalog.ErrUnreachable))

	var se *catalog.StatusError
	assert.False(t, errors.As(err, &se), "no response means no status")
}

func TestStatusError_ServerMessage(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"message field", `{"message": "No copies available."}`, "No copies available."},
		{"error field", `{"error": "bad isbn"}`, "bad isbn"},
		{"markup body", `<html><body>502 Bad Gateway</body></html>`, ""},
		{"empty body", ``, ""},
		{"unparseable body", `not json at all`, ""},
		{"no known field", `{"detail": "something"}`, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			se := &catalog.StatusError{Status: 500, Body: []byte(c.body)}
			assert.Equal(t, c.want, se.ServerMessage())
		})
	}
}
