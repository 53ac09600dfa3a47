package shell

import (
	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/relstore"
)

// RecordFromBook converts a core.Book into the row that stores it.
func RecordFromBook(book core.Book) relstore.BookRecord {
	return relstore.BookRecord{
		ID:        book.ID,
		Title:     book.Title,
		Author:    book.Author,
		Genre:     book.Genre,
		Available: book.Available,
		HolderID:  copyID(book.HolderID),
	}
}

// RecordFromBorrower converts a core.Borrower into the row that stores it.
func RecordFromBorrower(borrower core.Borrower) relstore.BorrowerRecord {
	return relstore.BorrowerRecord{
		ID:              borrower.ID,
		Name:            borrower.Name,
		Email:           borrower.Email,
		IssuedBookCount: borrower.ActiveLoanCount,
	}
}

// RecordFromLoan converts a core.Loan into the row that stores it.
// The serial number is assigned by the store.
func RecordFromLoan(loan core.Loan) relstore.LoanRecord {
	return relstore.LoanRecord{
		BookID:     loan.BookID,
		BookTitle:  loan.BookTitle,
		BorrowerID: loan.BorrowerID,
		IssueDate:  core.ToTimestamp(loan.IssueDate),
		DueDate:    core.ToTimestamp(loan.DueDate),
	}
}
