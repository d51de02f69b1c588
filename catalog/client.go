/*
client.go - HTTP client for the remote catalog service

PURPOSE:
  The catalog service is an external collaborator; this client is the only
  place that knows its URL scheme and wire format. Every method maps 1:1 to
  one remote operation and returns either a decoded record or a catalog
  error (see errors.go).

CONSISTENCY NOTE:
  The client is deliberately dumb: no caching, no retries, no local
  patching of results. Consumers that mutate state are expected to refetch
  the affected collection afterwards (see the actions package).

SEE ALSO:
  - types.go: Wire records
  - catalogtest/server.go: In-memory stand-in for development and tests
*/
package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const defaultTimeout = 15 * time.Second

// Client talks to one catalog service instance.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return NewClientWith(baseURL, &http.Client{Timeout: defaultTimeout})
}

// NewClientWith creates a client using a caller-supplied http.Client.
func NewClientWith(baseURL string, httpc *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpc:   httpc,
	}
}

// =============================================================================
// LIBRARIES
// =============================================================================

// ListLibraries returns every library known to the service.
func (c *Client) ListLibraries(ctx context.Context) ([]Library, error) {
	var libs []Library
	if err := c.do(ctx, http.MethodGet, "/v1/library", nil, &libs); err != nil {
		return nil, err
	}
	return libs, nil
}

// CreateLibrary registers a new library and returns it with its assigned id.
func (c *Client) CreateLibrary(ctx context.Context, lib Library) (*Library, error) {
	var created Library
	if err := c.do(ctx, http.MethodPost, "/v1/library", lib, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateLibrary replaces the stored record for a library.
func (c *Client) UpdateLibrary(ctx context.Context, id int, lib Library) (*Library, error) {
	var updated Library
	path := fmt.Sprintf("/v1/library/%d", id)
	if err := c.do(ctx, http.MethodPut, path, lib, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteLibrary removes a library.
func (c *Client) DeleteLibrary(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/v1/library/%d", id), nil, nil)
}

// =============================================================================
// BOOKS
// =============================================================================

// ListBooks returns the holdings of one library.
func (c *Client) ListBooks(ctx context.Context, libraryID int) ([]BookHolding, error) {
	var holdings []BookHolding
	path := fmt.Sprintf("/v1/library/%d/book", libraryID)
	if err := c.do(ctx, http.MethodGet, path, nil, &holdings); err != nil {
		return nil, err
	}
	return holdings, nil
}

// LookupBookByISBN fetches the bibliographic record for one ISBN.
func (c *Client) LookupBookByISBN(ctx context.Context, isbn string) (*Book, error) {
	var book Book
	path := "/v1/book/" + url.PathEscape(isbn)
	if err := c.do(ctx, http.MethodGet, path, nil, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// AddBook adds stock of an ISBN to a library's holdings.
func (c *Client) AddBook(ctx context.Context, libraryID int, isbn string, stock int) (*BookHolding, error) {
	var holding BookHolding
	path := fmt.Sprintf("/v1/library/%d/book/%s", libraryID, url.PathEscape(isbn))
	if err := c.do(ctx, http.MethodPost, path, StockUpdate{Stock: stock}, &holding); err != nil {
		return nil, err
	}
	return &holding, nil
}

// UpdateBook replaces the stock level of a holding.
func (c *Client) UpdateBook(ctx context.Context, libraryID int, isbn string, stock int) (*BookHolding, error) {
	var holding BookHolding
	path := fmt.Sprintf("/v1/library/%d/book/%s", libraryID, url.PathEscape(isbn))
	if err := c.do(ctx, http.MethodPut, path, StockUpdate{Stock: stock}, &holding); err != nil {
		return nil, err
	}
	return &holding, nil
}

// =============================================================================
// CIRCULATION
// =============================================================================

// CheckOut lends one copy to the named patron and returns the receipt.
// The patron travels as the userId query parameter, which is why usernames
// are restricted to URL-safe characters at allocation time.
func (c *Client) CheckOut(ctx context.Context, libraryID int, isbn, username string) (*CheckoutRecord, error) {
	var record CheckoutRecord
	path := fmt.Sprintf("/v1/library/%d/book/%s/checkout?userId=%s",
		libraryID, url.PathEscape(isbn), url.QueryEscape(username))
	if err := c.do(ctx, http.MethodPost, path, nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// CheckIn returns one copy previously lent to the named patron.
func (c *Client) CheckIn(ctx context.Context, libraryID int, isbn, username string) error {
	path := fmt.Sprintf("/v1/library/%d/book/%s/checkin?userId=%s",
		libraryID, url.PathEscape(isbn), url.QueryEscape(username))
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

// =============================================================================
// TRANSPORT
// =============================================================================

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		// The request left the client but nothing came back.
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Status: resp.StatusCode, Body: raw}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
