package activeborrowers

import (
	"github.com/AntonStoeckl/library-lending-go/lending/shell"
	"github.com/AntonStoeckl/library-lending-go/relstore"
)

// ProjectActiveBorrowers builds the report from the store's rows, keeping their order.
func ProjectActiveBorrowers(records []relstore.BorrowerRecord) ActiveBorrowers {
	borrowers := shell.BorrowersFromRecords(records)

	return ActiveBorrowers{
		Borrowers: borrowers,
		Count:     len(borrowers),
	}
}
