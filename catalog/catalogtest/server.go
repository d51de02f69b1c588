/*
Package catalogtest is an in-memory stand-in for the remote catalog
service.

PURPOSE:
  The production catalog service is an external collaborator. This package
  implements its full surface against process memory so that

  - the actions layer can be exercised end to end in tests, and
  - cmd/catalogd can serve a local development instance.

  Error responses carry a JSON {"message": ...} body, which is what the
  client-side normalizer prefers over status-code mapping.

SEE ALSO:
  - ../client.go: The client this server is tested against
  - ../../cmd/catalogd: Development server wrapping this router
*/
package catalogtest

import (
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/shelfline/catalog-client/catalog"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const loanPeriod = 14 * 24 * time.Hour

type holding struct {
	book       catalog.Book
	stock      int
	checkedOut int
}

type loan struct {
	id        string
	libraryID int
	isbn      string
	username  string
	open      bool
}

// Server holds the in-memory catalog state. Zero libraries, a small set of
// known books. Safe for concurrent use.
type Server struct {
	mu        sync.Mutex
	nextLibID int
	libraries map[int]catalog.Library
	holdings  map[int]map[string]*holding
	known     map[string]catalog.Book
	loans     []*loan
}

// New returns a server seeded with a few well-known books.
func New() *Server {
	s := &Server{
		nextLibID: 1,
		libraries: make(map[int]catalog.Library),
		holdings:  make(map[int]map[string]*holding),
		known:     make(map[string]catalog.Book),
	}
	s.SeedBook(catalog.Book{
		ISBN:          "9780140328721",
		Title:         "Matilda",
		ByStatement:   "Roald Dahl",
		NumberOfPages: 240,
		PublishDate:   "1988",
	})
	s.SeedBook(catalog.Book{
		ISBN:          "9780545010221",
		Title:         "Harry Potter and the Deathly Hallows",
		ByStatement:   "J. K. Rowling",
		NumberOfPages: 759,
		PublishDate:   "2007",
	})
	s.SeedBook(catalog.Book{
		ISBN:        "9789722325226",
		Title:       "Ensaio sobre a Cegueira",
		ByStatement: "José Saramago",
		PublishDate: "1995",
	})
	return s
}

// SeedBook makes an ISBN known to the catalog so it can be looked up and
// added to libraries.
func (s *Server) SeedBook(b catalog.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.known[b.ISBN] = b
}

// Router returns the chi router serving the catalog surface.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Route("/v1", func(r chi.Router) {
		r.Route("/library", func(r chi.Router) {
			r.Get("/", s.listLibraries)
			r.Post("/", s.createLibrary)
			r.Put("/{libraryID}", s.updateLibrary)
			r.Delete("/{libraryID}", s.deleteLibrary)

			r.Route("/{libraryID}/book", func(r chi.Router) {
				r.Get("/", s.listBooks)
				r.Post("/{isbn}", s.addBook)
				r.Put("/{isbn}", s.updateBook)
				r.Post("/{isbn}/checkout", s.checkOut)
				r.Post("/{isbn}/checkin", s.checkIn)
			})
		})

		r.Get("/book/{isbn}", s.lookupBook)
	})

	return r
}

// =============================================================================
// LIBRARY HANDLERS
// =============================================================================

func (s *Server) listLibraries(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	libs := make([]catalog.Library, 0, len(s.libraries))
	for _, lib := range s.libraries {
		libs = append(libs, lib)
	}
	s.mu.Unlock()

	sort.Slice(libs, func(i, j int) bool { return libs[i].ID < libs[j].ID })
	writeJSON(w, http.StatusOK, libs)
}

func (s *Server) createLibrary(w http.ResponseWriter, r *http.Request) {
	var lib catalog.Library
	if err := json.NewDecoder(r.Body).Decode(&lib); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed library record.")
		return
	}
	if lib.Name == "" || lib.Address == "" {
		writeError(w, http.StatusBadRequest, "Library name and address are required.")
		return
	}

	s.mu.Lock()
	lib.ID = s.nextLibID
	s.nextLibID++
	s.libraries[lib.ID] = lib
	s.holdings[lib.ID] = make(map[string]*holding)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, lib)
}

func (s *Server) updateLibrary(w http.ResponseWriter, r *http.Request) {
	id, ok := libraryID(w, r)
	if !ok {
		return
	}
	var lib catalog.Library
	if err := json.NewDecoder(r.Body).Decode(&lib); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed library record.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.libraries[id]; !exists {
		writeError(w, http.StatusNotFound, "Library not found.")
		return
	}
	lib.ID = id
	s.libraries[id] = lib
	writeJSON(w, http.StatusOK, lib)
}

func (s *Server) deleteLibrary(w http.ResponseWriter, r *http.Request) {
	id, ok := libraryID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.libraries[id]; !exists {
		writeError(w, http.StatusNotFound, "Library not found.")
		return
	}
	delete(s.libraries, id)
	delete(s.holdings, id)
	// Loans on the deleted library can never be returned; close them so a
	// later check-in falls through to not-found instead of touching a
	// holding that no longer exists.
	for _, l := range s.loans {
		if l.libraryID == id {
			l.open = false
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// BOOK HANDLERS
// =============================================================================

func (s *Server) listBooks(w http.ResponseWriter, r *http.Request) {
	id, ok := libraryID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	shelf, exists := s.holdings[id]
	if !exists {
		writeError(w, http.StatusNotFound, "Library not found.")
		return
	}

	out := make([]catalog.BookHolding, 0, len(shelf))
	for _, h := range shelf {
		out = append(out, catalog.BookHolding{
			Book:       h.book,
			Stock:      h.stock,
			CheckedOut: h.checkedOut,
			Available:  h.stock - h.checkedOut,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Book.ISBN < out[j].Book.ISBN })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) lookupBook(w http.ResponseWriter, r *http.Request) {
	isbn := chi.URLParam(r, "isbn")

	s.mu.Lock()
	book, exists := s.known[isbn]
	s.mu.Unlock()

	if !exists {
		writeError(w, http.StatusNotFound, "Book not found.")
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (s *Server) addBook(w http.ResponseWriter, r *http.Request) {
	id, ok := libraryID(w, r)
	if !ok {
		return
	}
	isbn := chi.URLParam(r, "isbn")

	var stock catalog.StockUpdate
	if err := json.NewDecoder(r.Body).Decode(&stock); err != nil || stock.Stock < 0 {
		writeError(w, http.StatusBadRequest, "Stock must be zero or more.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	shelf, exists := s.holdings[id]
	if !exists {
		writeError(w, http.StatusNotFound, "Library not found.")
		return
	}
	book, knownBook := s.known[isbn]
	if !knownBook {
		writeError(w, http.StatusNotFound, "Book not found.")
		return
	}
	if _, already := shelf[isbn]; already {
		writeError(w, http.StatusConflict, "Book already in this library.")
		return
	}

	h := &holding{book: book, stock: stock.Stock}
	shelf[isbn] = h
	writeJSON(w, http.StatusCreated, catalog.BookHolding{
		Book:      h.book,
		Stock:     h.stock,
		Available: h.stock,
	})
}

func (s *Server) updateBook(w http.ResponseWriter, r *http.Request) {
	id, ok := libraryID(w, r)
	if !ok {
		return
	}
	isbn := chi.URLParam(r, "isbn")

	var stock catalog.StockUpdate
	if err := json.NewDecoder(r.Body).Decode(&stock); err != nil || stock.Stock < 0 {
		writeError(w, http.StatusBadRequest, "Stock must be zero or more.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	h, exists := s.holdings[id][isbn]
	if !exists {
		writeError(w, http.StatusNotFound, "Book not held by this library.")
		return
	}
	if stock.Stock < h.checkedOut {
		writeError(w, http.StatusConflict, "Stock cannot drop below checked-out copies.")
		return
	}

	h.stock = stock.Stock
	writeJSON(w, http.StatusOK, catalog.BookHolding{
		Book:       h.book,
		Stock:      h.stock,
		CheckedOut: h.checkedOut,
		Available:  h.stock - h.checkedOut,
	})
}

// =============================================================================
// CIRCULATION HANDLERS
// =============================================================================

func (s *Server) checkOut(w http.ResponseWriter, r *http.Request) {
	id, ok := libraryID(w, r)
	if !ok {
		return
	}
	isbn := chi.URLParam(r, "isbn")
	username := r.URL.Query().Get("userId")
	if username == "" {
		writeError(w, http.StatusBadRequest, "userId is required.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	h, exists := s.holdings[id][isbn]
	if !exists {
		writeError(w, http.StatusNotFound, "Book not held by this library.")
		return
	}
	if h.stock-h.checkedOut <= 0 {
		writeError(w, http.StatusConflict, "No copies available.")
		return
	}

	h.checkedOut++
	l := &loan{
		id:        uuid.NewString(),
		libraryID: id,
		isbn:      isbn,
		username:  username,
		open:      true,
	}
	s.loans = append(s.loans, l)

	writeJSON(w, http.StatusCreated, catalog.CheckoutRecord{
		ID:      l.id,
		DueDate: time.Now().Add(loanPeriod).Format("2006-01-02"),
		Book:    h.book,
	})
}

func (s *Server) checkIn(w http.ResponseWriter, r *http.Request) {
	id, ok := libraryID(w, r)
	if !ok {
		return
	}
	isbn := chi.URLParam(r, "isbn")
	username := r.URL.Query().Get("userId")
	if username == "" {
		writeError(w, http.StatusBadRequest, "userId is required.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	h, exists := s.holdings[id][isbn]
	if !exists {
		writeError(w, http.StatusNotFound, "Book not held by this library.")
		return
	}
	for _, l := range s.loans {
		if l.open && l.libraryID == id && l.isbn == isbn && l.username == username {
			l.open = false
			h.checkedOut--
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "No open loan for this patron and book.")
}

// =============================================================================
// HELPERS
// =============================================================================

func libraryID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "libraryID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Library id must be numeric.")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
