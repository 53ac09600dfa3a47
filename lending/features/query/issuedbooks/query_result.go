package issuedbooks

import (
	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

// IssuedBooks represents the query result containing all open loans.
type IssuedBooks struct {
	Loans []core.Loan
	Count int
}

// ItemCount returns the number of loans in the report.
func (r IssuedBooks) ItemCount() int {
	return r.Count
}
