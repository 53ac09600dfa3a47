package issuedbooks

import (
	"github.com/AntonStoeckl/library-lending-go/lending/shell"
	"github.com/AntonStoeckl/library-lending-go/relstore"
)

// ProjectIssuedBooks builds the report from the store's rows, keeping their order.
func ProjectIssuedBooks(records []relstore.LoanRecord) IssuedBooks {
	loans := shell.LoansFromRecords(records)

	return IssuedBooks{
		Loans: loans,
		Count: len(loans),
	}
}
