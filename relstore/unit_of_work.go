package relstore

import (
	"context"
	"time"
)

// UnitOfWork exposes the reads and writes of one all-or-nothing operation.
//
// All writes are compare-and-set: they carry the state the caller decided on in their WHERE clause
// and return ErrConcurrencyConflict when no row matched.
type UnitOfWork interface {
	FindBook(ctx context.Context, bookID int64) (BookRecord, error)
	InsertBook(ctx context.Context, book BookRecord) error
	DeleteAvailableBook(ctx context.Context, bookID int64) error
	MarkBookLent(ctx context.Context, bookID int64, borrowerID int64) error
	MarkBookReturned(ctx context.Context, bookID int64, borrowerID int64) error

	FindBorrower(ctx context.Context, borrowerID int64) (BorrowerRecord, error)
	FindBorrowerByEmail(ctx context.Context, email string) (BorrowerRecord, error)
	InsertBorrower(ctx context.Context, borrower BorrowerRecord) error
	IncrementIssuedBookCount(ctx context.Context, borrowerID int64, limit int) error
	DecrementIssuedBookCount(ctx context.Context, borrowerID int64) error

	FindLoanByBook(ctx context.Context, bookID int64) (LoanRecord, error)
	InsertLoan(ctx context.Context, loan LoanRecord) error
	DeleteLoan(ctx context.Context, bookID int64, borrowerID int64) error
}

// UnitOfWorkFunc is the body of a unit of work.
// Returning an error rolls the unit of work back.
type UnitOfWorkFunc func(ctx context.Context, uow UnitOfWork) error

// Reader exposes the side-effect-free reporting queries.
type Reader interface {
	FindBook(ctx context.Context, bookID int64) (BookRecord, error)
	FindBorrower(ctx context.Context, borrowerID int64) (BorrowerRecord, error)
	AvailableBooks(ctx context.Context) ([]BookRecord, error)
	IssuedLoans(ctx context.Context) ([]LoanRecord, error)
	LoansDueBefore(ctx context.Context, cutoff time.Time) ([]OverdueLoanRecord, error)
	ActiveBorrowers(ctx context.Context) ([]BorrowerRecord, error)
	SearchBooks(ctx context.Context, field SearchField, term string) ([]BookRecord, error)
}
