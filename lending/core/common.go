package core

import (
	"time"
)

// BookID identifies one physical book. IDs are assigned by the librarian.
type BookID = int64

// BorrowerID identifies one borrower. IDs are assigned by the librarian.
type BorrowerID = int64

const (
	// MaxActiveLoans is the number of books a borrower may hold at the same time.
	MaxActiveLoans = 3

	// LoanPeriodDays is the number of calendar days between issue and due date.
	LoanPeriodDays = 15

	// MaxTextLength is the longest title, author, genre, name, or email the store accepts.
	MaxTextLength = 50
)

// ToTimestamp normalizes t to UTC with microsecond precision, the precision all supported stores keep.
func ToTimestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
