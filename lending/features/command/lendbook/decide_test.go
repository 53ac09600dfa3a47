package lendbook_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/lendbook"
)

func Test_Decide_Success_WhenAllPreconditionsMet(t *testing.T) {
	// arrange
	state := lendbook.State{
		Borrower: &core.Borrower{ID: 1, ActiveLoanCount: 2},
		Book:     &core.Book{ID: 7, Title: "Dune", Available: true},
	}

	// act
	result := lendbook.Decide(state, lendbook.BuildCommand(7, 1, time.Now()))

	// assert
	assert.True(t, result.HasStateChange())
	assert.NoError(t, result.HasError())
}

func Test_Decide_Error_WhenBorrowerIsNotRegistered(t *testing.T) {
	// arrange
	state := lendbook.State{Book: &core.Book{ID: 7, Available: true}}

	// act
	result := lendbook.Decide(state, lendbook.BuildCommand(7, 1, time.Now()))

	// assert
	assert.ErrorIs(t, result.HasError(), core.ErrNotFound)
}

func Test_Decide_Error_WhenBorrowerHoldsThreeBooks(t *testing.T) {
	// arrange
	state := lendbook.State{
		Borrower: &core.Borrower{ID: 9, ActiveLoanCount: 3},
		Book:     &core.Book{ID: 7, Available: false},
	}

	// act
	result := lendbook.Decide(state, lendbook.BuildCommand(7, 9, time.Now()))

	// assert
	assert.ErrorIs(t, result.HasError(), core.ErrLendingLimitExceeded, "capacity is checked before availability")

	var rejection *core.Rejection
	assert.ErrorAs(t, result.HasError(), &rejection)
	assert.Equal(t, 3, rejection.LoanCount)
	assert.Equal(t, core.BorrowerID(9), rejection.BorrowerID)
}

func Test_Decide_Error_WhenBookIsNotInCatalog(t *testing.T) {
	// arrange
	state := lendbook.State{Borrower: &core.Borrower{ID: 1}}

	// act
	result := lendbook.Decide(state, lendbook.BuildCommand(7, 1, time.Now()))

	// assert
	assert.ErrorIs(t, result.HasError(), core.ErrBookUnavailable)
}

func Test_Decide_Error_WhenBookIsOnLoan(t *testing.T) {
	// arrange
	holder := core.BorrowerID(2)
	state := lendbook.State{
		Borrower: &core.Borrower{ID: 1},
		Book:     &core.Book{ID: 7, Available: false, HolderID: &holder},
	}

	// act
	result := lendbook.Decide(state, lendbook.BuildCommand(7, 1, time.Now()))

	// assert
	assert.ErrorIs(t, result.HasError(), core.ErrBookUnavailable)

	var rejection *core.Rejection
	assert.ErrorAs(t, result.HasError(), &rejection)
	assert.Equal(t, core.BorrowerID(2), rejection.HolderID)
}

func Test_BuildCommand_TruncatesIssueTimeAndKeepsItsLocation(t *testing.T) {
	// arrange
	cet := time.FixedZone("CET", 3600)
	issuedAt := time.Date(2026, 3, 1, 10, 0, 0, 123456789, cet)

	// act
	command := lendbook.BuildCommand(7, 1, issuedAt)

	// assert
	assert.Equal(t, cet, command.IssuedAt.Location())
	assert.True(t, command.IssuedAt.Equal(time.Date(2026, 3, 1, 9, 0, 0, 123456000, time.UTC)))
}
