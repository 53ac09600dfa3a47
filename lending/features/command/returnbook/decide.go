package returnbook

import (
	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

// State is the book and its open loan as the unit of work found them. Nil means not found.
type State struct {
	Book *core.Book
	Loan *core.Loan
}

// Decide implements the business logic to determine whether a book may be returned.
//
// Business Rules:
//
//	GIVEN: A book on loan
//	WHEN: ReturnBook command is received
//	THEN: the book is available again, the holder's count goes down by one, the loan is closed
//	ERROR: NotFound if there is no book with this id
//	ERROR: NotOnLoan if the book is available
//	ERROR: LoanMismatch if a borrower is given and the loan belongs to someone else
func Decide(state State, command Command) core.DecisionResult {
	if state.Book == nil {
		return core.RejectedDecision(&core.Rejection{Kind: core.ErrNotFound, BookID: command.BookID})
	}

	if !state.Book.IsOnLoan() {
		return core.RejectedDecision(&core.Rejection{Kind: core.ErrNotOnLoan, BookID: command.BookID})
	}

	if state.Loan == nil {
		return core.RejectedDecision(&core.Rejection{
			Kind:   core.ErrNotOnLoan,
			BookID: command.BookID,
			Detail: "no open loan is recorded",
		})
	}

	if command.ExpectedBorrowerID != nil && *command.ExpectedBorrowerID != state.Loan.BorrowerID {
		return core.RejectedDecision(&core.Rejection{
			Kind:       core.ErrLoanMismatch,
			BookID:     command.BookID,
			BorrowerID: *command.ExpectedBorrowerID,
			HolderID:   state.Loan.BorrowerID,
		})
	}

	return core.SuccessDecision()
}
