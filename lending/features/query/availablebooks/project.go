package availablebooks

import (
	"github.com/AntonStoeckl/library-lending-go/lending/shell"
	"github.com/AntonStoeckl/library-lending-go/relstore"
)

// ProjectAvailableBooks builds the report from the store's rows, keeping their order.
func ProjectAvailableBooks(records []relstore.BookRecord) AvailableBooks {
	books := shell.BooksFromRecords(records)

	return AvailableBooks{
		Books: books,
		Count: len(books),
	}
}
