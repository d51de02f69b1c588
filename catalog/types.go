package catalog

// =============================================================================
// WIRE TYPES - Records exchanged with the catalog service
// =============================================================================

// Library is a branch of the catalog service.
type Library struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	OpenDays  string `json:"openDays"`
	OpenTime  string `json:"openTime"`
	CloseTime string `json:"closeTime"`
}

// Cover holds the cover image URLs the service knows for a book.
type Cover struct {
	SmallURL  string `json:"smallUrl,omitempty"`
	MediumURL string `json:"mediumUrl,omitempty"`
	LargeURL  string `json:"largeUrl,omitempty"`
}

// Book is the bibliographic record for one ISBN. Search results may carry
// a flat CoverURL instead of the nested Cover block.
type Book struct {
	ISBN          string `json:"isbn"`
	Title         string `json:"title"`
	ByStatement   string `json:"byStatement,omitempty"`
	NumberOfPages int    `json:"numberOfPages,omitempty"`
	PublishDate   string `json:"publishDate,omitempty"`
	Cover         *Cover `json:"cover,omitempty"`
	CoverURL      string `json:"coverUrl,omitempty"`
}

// BookHolding is one library's stock position for a book.
// Available is reported by the service, not derived locally.
type BookHolding struct {
	Book       Book `json:"book"`
	Stock      int  `json:"stock"`
	CheckedOut int  `json:"checkedOut"`
	Available  int  `json:"available"`
}

// StockUpdate is the body of addBook/updateBook calls.
type StockUpdate struct {
	Stock int `json:"stock"`
}

// CheckoutRecord is the receipt returned by a successful check-out.
type CheckoutRecord struct {
	ID      string `json:"id"`
	DueDate string `json:"dueDate"`
	Book    Book   `json:"book"`
}
