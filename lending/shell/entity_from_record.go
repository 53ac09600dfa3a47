package shell

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/relstore"
)

// BookFromRecord converts a books row into a core.Book.
func BookFromRecord(record relstore.BookRecord) core.Book {
	return core.Book{
		ID:        record.ID,
		Title:     record.Title,
		Author:    record.Author,
		Genre:     record.Genre,
		Available: record.Available,
		HolderID:  copyID(record.HolderID),
	}
}

// BorrowerFromRecord converts a users row into a core.Borrower.
func BorrowerFromRecord(record relstore.BorrowerRecord) core.Borrower {
	return core.Borrower{
		ID:              record.ID,
		Name:            record.Name,
		Email:           record.Email,
		ActiveLoanCount: record.IssuedBookCount,
	}
}

// LoanFromRecord converts an issuedbooks row into a core.Loan.
func LoanFromRecord(record relstore.LoanRecord) core.Loan {
	return core.Loan{
		BookID:     record.BookID,
		BookTitle:  record.BookTitle,
		BorrowerID: record.BorrowerID,
		IssueDate:  record.IssueDate,
		DueDate:    record.DueDate,
	}
}

// OverdueLoanFromRecord converts a loan joined with its borrower's email into a core.OverdueLoan
// and computes the overdue days and the fine accrued as of now.
func OverdueLoanFromRecord(record relstore.OverdueLoanRecord, now time.Time) core.OverdueLoan {
	return core.OverdueLoan{
		Loan:          LoanFromRecord(record.LoanRecord),
		BorrowerEmail: record.BorrowerEmail,
		OverdueDays:   core.OverdueDays(record.DueDate, now),
		FineSoFar:     core.CalculateFine(record.DueDate, now),
	}
}

// BooksFromRecords converts a list of books rows. The result is never nil.
func BooksFromRecords(records []relstore.BookRecord) []core.Book {
	return convertAll(records, BookFromRecord)
}

// BorrowersFromRecords converts a list of users rows. The result is never nil.
func BorrowersFromRecords(records []relstore.BorrowerRecord) []core.Borrower {
	return convertAll(records, BorrowerFromRecord)
}

// LoansFromRecords converts a list of issuedbooks rows. The result is never nil.
func LoansFromRecords(records []relstore.LoanRecord) []core.Loan {
	return convertAll(records, LoanFromRecord)
}

// OverdueLoansFromRecords converts a list of overdue loan rows as of now. The result is never nil.
func OverdueLoansFromRecords(records []relstore.OverdueLoanRecord, now time.Time) []core.OverdueLoan {
	return convertAll(records, func(record relstore.OverdueLoanRecord) core.OverdueLoan {
		return OverdueLoanFromRecord(record, now)
	})
}

func convertAll[R any, E any](records []R, convert func(R) E) []E {
	entities := make([]E, 0, len(records))
	for _, record := range records {
		entities = append(entities, convert(record))
	}

	return entities
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}

	c := *id

	return &c
}
