package availablebooks

import (
	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

// AvailableBooks represents the query result containing all books that are not on loan.
type AvailableBooks struct {
	Books []core.Book
	Count int
}

// ItemCount returns the number of books in the report.
func (r AvailableBooks) ItemCount() int {
	return r.Count
}
