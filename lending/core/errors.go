package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AntonStoeckl/library-lending-go/relstore"
)

// Rejection kinds. Match them with errors.Is; use errors.As with *Rejection for the details.
var (
	ErrDuplicateID          = errors.New("a book with this id already exists")
	ErrNotFound             = errors.New("not found")
	ErrBookOnLoan           = errors.New("book is on loan")
	ErrBookUnavailable      = errors.New("book is not available")
	ErrLendingLimitExceeded = errors.New("borrower has reached the lending limit")
	ErrNotOnLoan            = errors.New("book is not on loan")
	ErrLoanMismatch         = errors.New("book is on loan to a different borrower")
	ErrInvalidEmail         = errors.New("invalid email address")
	ErrDuplicateEmail       = errors.New("email address is already registered")
	ErrInvalidBookData      = errors.New("invalid book data")
	ErrInvalidBorrowerData  = errors.New("invalid borrower data")
)

var (
	// ErrConflict marks a lost race with a concurrent writer. Handlers retry it.
	ErrConflict = relstore.ErrConcurrencyConflict

	// ErrStoreUnavailable marks a failure of the database or the transport to it.
	ErrStoreUnavailable = relstore.ErrStoreUnavailable
)

// Rejection is a business rule violation together with the ids and values the operator needs to see.
// Zero-valued fields are not part of the message.
type Rejection struct {
	Kind       error
	BookID     BookID
	BorrowerID BorrowerID
	HolderID   BorrowerID
	LoanCount  int
	Email      string
	Detail     string
}

func (r *Rejection) Error() string {
	var details []string

	if r.BookID != 0 {
		details = append(details, fmt.Sprintf("book %d", r.BookID))
	}

	if r.BorrowerID != 0 {
		details = append(details, fmt.Sprintf("borrower %d", r.BorrowerID))
	}

	if r.HolderID != 0 {
		details = append(details, fmt.Sprintf("held by borrower %d", r.HolderID))
	}

	if errors.Is(r.Kind, ErrLendingLimitExceeded) {
		details = append(details, fmt.Sprintf("%d of %d books on loan", r.LoanCount, MaxActiveLoans))
	}

	if r.Email != "" {
		details = append(details, fmt.Sprintf("email %q", r.Email))
	}

	if r.Detail != "" {
		details = append(details, r.Detail)
	}

	if len(details) == 0 {
		return r.Kind.Error()
	}

	return r.Kind.Error() + ": " + strings.Join(details, ", ")
}

func (r *Rejection) Unwrap() error {
	return r.Kind
}

// IsRejection reports whether err is a business rule violation, as opposed to a technical failure.
func IsRejection(err error) bool {
	var rejection *Rejection
	return errors.As(err, &rejection)
}
