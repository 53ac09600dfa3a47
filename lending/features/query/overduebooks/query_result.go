package overduebooks

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

// OverdueBooks represents the query result containing all overdue loans as of AsOf.
type OverdueBooks struct {
	Loans      []core.OverdueLoan
	Count      int
	TotalFines core.Fine
	AsOf       time.Time
}

// ItemCount returns the number of overdue loans in the report.
func (r OverdueBooks) ItemCount() int {
	return r.Count
}
