package issuedbooks_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/addbook"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/lendbook"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/registerborrower"
	"github.com/AntonStoeckl/library-lending-go/lending/features/query/issuedbooks"
	"github.com/AntonStoeckl/library-lending-go/relstore/sqlengine"
	. "github.com/AntonStoeckl/library-lending-go/testutil/storewrapper" //nolint:revive
)

func Test_QueryHandler_Handle_ListsOpenLoansByDueDate(t *testing.T) {
	// setup
	ctx, wrapper := setupTestEnvironment(t)
	store := wrapper.GetStore()
	handler := issuedbooks.NewQueryHandler(store)

	// arrange
	givenBook(ctx, t, store, 1, "Dune")
	givenBook(ctx, t, store, 2, "Emma")
	givenBook(ctx, t, store, 3, "Hyperion")

	_, err := registerborrower.NewCommandHandler(store).
		Handle(ctx, registerborrower.BuildCommand(4, "Ada", "ada@example.com"))
	require.NoError(t, err, "error in arranging test data")

	lend := lendbook.NewCommandHandler(store)
	_, err = lend.Handle(ctx, lendbook.BuildCommand(1, 4, time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)))
	require.NoError(t, err, "error in arranging test data")
	_, err = lend.Handle(ctx, lendbook.BuildCommand(2, 4, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)))
	require.NoError(t, err, "error in arranging test data")

	// act
	result, err := handler.Handle(ctx, issuedbooks.BuildQuery())

	// assert
	require.NoError(t, err)
	assert.Equal(t, 2, result.ItemCount())
	require.Len(t, result.Loans, 2)

	assert.Equal(t, core.BookID(2), result.Loans[0].BookID, "the earliest due date comes first")
	assert.Equal(t, "Emma", result.Loans[0].BookTitle)
	assert.Equal(t, core.BorrowerID(4), result.Loans[0].BorrowerID)
	assert.True(t, time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC).Equal(result.Loans[0].DueDate))
	assert.Equal(t, core.BookID(1), result.Loans[1].BookID)
}

// Test helper functions

func setupTestEnvironment(t *testing.T) (context.Context, Wrapper) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	wrapper := CreateWrapperWithTestConfig(t)
	t.Cleanup(wrapper.Close)
	CleanUp(t, wrapper)

	return ctx, wrapper
}

func givenBook(ctx context.Context, t *testing.T, store sqlengine.Engine, bookID core.BookID, title string) {
	t.Helper()

	_, err := addbook.NewCommandHandler(store).Handle(ctx, addbook.BuildCommand(bookID, title, "Author", "Genre"))
	require.NoError(t, err, "error in arranging test data")
}
