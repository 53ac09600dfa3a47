package loancount

import (
	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

// LoanCount represents the query result for one borrower.
type LoanCount struct {
	Borrower core.Borrower
	Count    int
	// Remaining is how many more books the borrower may take.
	Remaining int
}

// ItemCount returns 1, the borrower found.
func (r LoanCount) ItemCount() int {
	return 1
}
