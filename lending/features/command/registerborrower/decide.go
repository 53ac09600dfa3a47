package registerborrower

import (
	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

// State is what the registry knows about the borrower id and the email address.
type State struct {
	BorrowerExists bool
	EmailTaken     bool
}

// Decide implements the business logic to determine whether a borrower has to be registered.
//
// Business Rules:
//
//	GIVEN: A borrower id that is not registered
//	WHEN: RegisterBorrower command is received
//	THEN: the borrower is inserted with no books on loan
//	ERROR: InvalidBorrowerData if the name is empty or longer than 50 characters
//	ERROR: InvalidEmail if the email address is malformed or longer than 50 characters
//	ERROR: DuplicateEmail if another borrower is registered with the email address
//	IDEMPOTENCY: If the borrower is registered already, nothing is written (no-op)
func Decide(state State, command Command) core.DecisionResult {
	if state.BorrowerExists {
		return core.IdempotentDecision()
	}

	if err := core.ValidateBorrowerData(command.BorrowerID, command.Name, command.Email); err != nil {
		return core.RejectedDecision(err)
	}

	if state.EmailTaken {
		return core.RejectedDecision(&core.Rejection{
			Kind:       core.ErrDuplicateEmail,
			BorrowerID: command.BorrowerID,
			Email:      command.Email,
		})
	}

	return core.SuccessDecision()
}

// BorrowerFrom builds the registry entry for a successful decision.
func BorrowerFrom(command Command) core.Borrower {
	return core.Borrower{
		ID:    command.BorrowerID,
		Name:  command.Name,
		Email: command.Email,
	}
}
