package overduebooks

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/shell"
	"github.com/AntonStoeckl/library-lending-go/relstore"
)

// ProjectOverdueBooks builds the report from the store's rows, keeping their order.
// Rows that are not overdue at asOf are dropped.
func ProjectOverdueBooks(records []relstore.OverdueLoanRecord, asOf time.Time) OverdueBooks {
	report := OverdueBooks{
		Loans: make([]core.OverdueLoan, 0, len(records)),
		AsOf:  asOf,
	}

	for _, loan := range shell.OverdueLoansFromRecords(records, asOf) {
		if loan.OverdueDays == 0 {
			continue
		}

		report.Loans = append(report.Loans, loan)
		report.TotalFines += loan.FineSoFar
	}

	report.Count = len(report.Loans)

	return report
}
