package searchbooks

import (
	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

// FoundBooks represents the query result containing the matching books.
type FoundBooks struct {
	Field Field
	Term  string
	Books []core.Book
	Count int
}

// ItemCount returns the number of books found.
func (r FoundBooks) ItemCount() int {
	return r.Count
}
