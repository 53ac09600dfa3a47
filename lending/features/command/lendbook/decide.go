package lendbook

import (
	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

// State is the borrower and the book as the unit of work found them. Nil means not found.
type State struct {
	Borrower *core.Borrower
	Book     *core.Book
}

// Decide implements the business logic to determine whether a book may be lent to a borrower.
//
// Business Rules:
//
//	GIVEN: A registered borrower with fewer than 3 books and an available book
//	WHEN: LendBook command is received
//	THEN: the book is marked lent, the loan is recorded, the borrower's count goes up by one
//	ERROR: NotFound if the borrower is not registered
//	ERROR: LendingLimitExceeded if the borrower already holds 3 books, reporting the count
//	ERROR: BookUnavailable if the book is not in the catalog or on loan
func Decide(state State, command Command) core.DecisionResult {
	if state.Borrower == nil {
		return core.RejectedDecision(&core.Rejection{Kind: core.ErrNotFound, BorrowerID: command.BorrowerID})
	}

	if state.Borrower.HasReachedLendingLimit() {
		return core.RejectedDecision(&core.Rejection{
			Kind:       core.ErrLendingLimitExceeded,
			BorrowerID: command.BorrowerID,
			LoanCount:  state.Borrower.ActiveLoanCount,
		})
	}

	if state.Book == nil {
		return core.RejectedDecision(&core.Rejection{
			Kind:   core.ErrBookUnavailable,
			BookID: command.BookID,
			Detail: "not in the catalog",
		})
	}

	if state.Book.IsOnLoan() {
		return core.RejectedDecision(&core.Rejection{
			Kind:     core.ErrBookUnavailable,
			BookID:   command.BookID,
			HolderID: state.Book.Holder(),
		})
	}

	return core.SuccessDecision()
}
