package core

import "time"

// Book is one physical copy in the catalog.
// HolderID is set exactly when the book is on loan.
type Book struct {
	ID        BookID
	Title     string
	Author    string
	Genre     string
	Available bool
	HolderID  *BorrowerID
}

// IsOnLoan reports whether the book is currently lent out.
func (b Book) IsOnLoan() bool {
	return !b.Available
}

// Holder returns the id of the borrower holding the book, or 0 if it is available.
func (b Book) Holder() BorrowerID {
	if b.HolderID == nil {
		return 0
	}

	return *b.HolderID
}

// Borrower is a registered library user.
type Borrower struct {
	ID              BorrowerID
	Name            string
	Email           string
	ActiveLoanCount int
}

// HasReachedLendingLimit reports whether the borrower may not take another book.
func (b Borrower) HasReachedLendingLimit() bool {
	return b.ActiveLoanCount >= MaxActiveLoans
}

// Loan is an open lending of one book to one borrower.
// BookTitle is the title at the time of issue.
type Loan struct {
	BookID     BookID
	BookTitle  string
	BorrowerID BorrowerID
	IssueDate  time.Time
	DueDate    time.Time
}

// OverdueLoan is an open loan past its due date with the borrower's email for the reminder.
type OverdueLoan struct {
	Loan
	BorrowerEmail string
	OverdueDays   int
	FineSoFar     Fine
}

// BuildLoan creates the loan for lending book to borrower at issueDate.
// The due date is computed in the location of issueDate before both are normalized for storage.
func BuildLoan(book Book, borrowerID BorrowerID, issueDate time.Time) Loan {
	return Loan{
		BookID:     book.ID,
		BookTitle:  book.Title,
		BorrowerID: borrowerID,
		IssueDate:  ToTimestamp(issueDate),
		DueDate:    ToTimestamp(DueDateFor(issueDate)),
	}
}
