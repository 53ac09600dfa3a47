package activeborrowers

import (
	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

// ActiveBorrowers represents the query result containing all borrowers with at least one open loan.
type ActiveBorrowers struct {
	Borrowers []core.Borrower
	Count     int
}

// ItemCount returns the number of borrowers in the report.
func (r ActiveBorrowers) ItemCount() int {
	return r.Count
}
