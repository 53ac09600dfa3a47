package removebook

import (
	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

// State is the book as the unit of work found it. Book is nil when there is no such book.
type State struct {
	Book *core.Book
}

// Decide implements the business logic to determine whether a book may be removed from the catalog.
//
// Business Rules:
//
//	GIVEN: A book that is in the catalog and available
//	WHEN: RemoveBook command is received
//	THEN: the book is deleted
//	ERROR: NotFound if there is no book with this id
//	ERROR: BookOnLoan if the book is lent out, reporting the holder
func Decide(state State, command Command) core.DecisionResult {
	if state.Book == nil {
		return core.RejectedDecision(&core.Rejection{Kind: core.ErrNotFound, BookID: command.BookID})
	}

	if state.Book.IsOnLoan() {
		return core.RejectedDecision(&core.Rejection{
			Kind:     core.ErrBookOnLoan,
			BookID:   command.BookID,
			HolderID: state.Book.Holder(),
		})
	}

	return core.SuccessDecision()
}
