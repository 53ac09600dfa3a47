package registerborrower_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/registerborrower"
)

func Test_Decide_Success_WhenBorrowerIsNew(t *testing.T) {
	// arrange
	command := registerborrower.BuildCommand(1, "Ada Lovelace", "ada@example.com")

	// act
	result := registerborrower.Decide(registerborrower.State{}, command)

	// assert
	assert.True(t, result.HasStateChange())
	assert.NoError(t, result.HasError())
}

func Test_Decide_Idempotent_WhenBorrowerExists(t *testing.T) {
	// arrange
	command := registerborrower.BuildCommand(1, "", "not-an-email")

	// act
	result := registerborrower.Decide(registerborrower.State{BorrowerExists: true}, command)

	// assert
	assert.True(t, result.IsIdempotent(), "an existing borrower is not validated again")
	assert.False(t, result.HasStateChange())
	assert.NoError(t, result.HasError())
}

func Test_Decide_Error_WhenEmailIsInvalid(t *testing.T) {
	// arrange
	command := registerborrower.BuildCommand(1, "Ada Lovelace", "ada@localhost")

	// act
	result := registerborrower.Decide(registerborrower.State{}, command)

	// assert
	assert.ErrorIs(t, result.HasError(), core.ErrInvalidEmail)
}

func Test_Decide_Error_WhenNameIsEmpty(t *testing.T) {
	// arrange
	command := registerborrower.BuildCommand(1, "   ", "ada@example.com")

	// act
	result := registerborrower.Decide(registerborrower.State{}, command)

	// assert
	assert.ErrorIs(t, result.HasError(), core.ErrInvalidBorrowerData)
}

func Test_Decide_Error_WhenEmailIsTaken(t *testing.T) {
	// arrange
	command := registerborrower.BuildCommand(2, "Ada Byron", "ada@example.com")

	// act
	result := registerborrower.Decide(registerborrower.State{EmailTaken: true}, command)

	// assert
	assert.ErrorIs(t, result.HasError(), core.ErrDuplicateEmail)

	var rejection *core.Rejection
	assert.ErrorAs(t, result.HasError(), &rejection)
	assert.Equal(t, "ada@example.com", rejection.Email)
}
