package relstore

import "time"

// BookRecord is one row of the books table.
// HolderID is nil while the book is available.
type BookRecord struct {
	ID        int64
	Title     string
	Author    string
	Genre     string
	Available bool
	HolderID  *int64
}

// BorrowerRecord is one row of the users table.
type BorrowerRecord struct {
	ID              int64
	Name            string
	Email           string
	IssuedBookCount int
}

// LoanRecord is one row of the issuedbooks table.
// BookTitle is the title as it was when the loan was issued.
type LoanRecord struct {
	SerialNo   int64
	BookID     int64
	BookTitle  string
	BorrowerID int64
	IssueDate  time.Time
	DueDate    time.Time
}

// OverdueLoanRecord is a loan joined with the email of its borrower.
type OverdueLoanRecord struct {
	LoanRecord
	BorrowerEmail string
}

// SearchField selects the book column(s) a search matches against.
type SearchField string

const (
	SearchByTitle  SearchField = "title"
	SearchByAuthor SearchField = "author"
	SearchByGenre  SearchField = "genre"
	SearchByAny    SearchField = "any"
)

// IsValid reports whether f is one of the known search fields.
func (f SearchField) IsValid() bool {
	switch f {
	case SearchByTitle, SearchByAuthor, SearchByGenre, SearchByAny:
		return true
	default:
		return false
	}
}
