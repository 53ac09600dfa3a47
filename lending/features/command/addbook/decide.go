package addbook

import (
	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

// State is what the decision needs to know about the catalog.
type State struct {
	BookExists bool
}

// Decide implements the business logic to determine whether a book may be added to the catalog.
//
// Business Rules:
//
//	GIVEN: A book id that is not in the catalog
//	WHEN: AddBook command is received
//	THEN: the book is inserted, available and without a holder
//	ERROR: DuplicateID if a book with this id exists
//	ERROR: InvalidBookData if title, author, or genre is empty or longer than 50 characters
func Decide(state State, command Command) core.DecisionResult {
	if state.BookExists {
		return core.RejectedDecision(&core.Rejection{Kind: core.ErrDuplicateID, BookID: command.BookID})
	}

	if err := core.ValidateBookData(command.BookID, command.Title, command.Author, command.Genre); err != nil {
		return core.RejectedDecision(err)
	}

	return core.SuccessDecision()
}

// BookFrom builds the catalog entry for a successful decision.
func BookFrom(command Command) core.Book {
	return core.Book{
		ID:        command.BookID,
		Title:     command.Title,
		Author:    command.Author,
		Genre:     command.Genre,
		Available: true,
	}
}
