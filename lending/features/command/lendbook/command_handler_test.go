package lendbook_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/addbook"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/lendbook"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/registerborrower"
	"github.com/AntonStoeckl/library-lending-go/relstore"
	. "github.com/AntonStoeckl/library-lending-go/testutil/storewrapper" //nolint:revive
)

var issuedAt = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// setup
	ctx, wrapper := setupTestEnvironment(t)
	handler := lendbook.NewCommandHandler(wrapper.GetStore())

	// arrange
	givenBook(ctx, t, wrapper, 7, "Dune")
	givenBorrower(ctx, t, wrapper, 1, "ada@example.com")

	// act
	result, err := handler.Handle(ctx, lendbook.BuildCommand(7, 1, issuedAt))

	// assert
	require.NoError(t, err)
	assert.False(t, result.Registered)
	assert.Equal(t, 1, result.RetryAttempts)
	assert.Equal(t, core.Loan{
		BookID:     7,
		BookTitle:  "Dune",
		BorrowerID: 1,
		IssueDate:  issuedAt,
		DueDate:    time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC),
	}, result.Loan)

	book, err := wrapper.GetStore().FindBook(ctx, 7)
	require.NoError(t, err)
	assert.False(t, book.Available)
	require.NotNil(t, book.HolderID)
	assert.Equal(t, int64(1), *book.HolderID)

	loans, err := wrapper.GetStore().IssuedLoans(ctx)
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, "Dune", loans[0].BookTitle)
	assert.True(t, issuedAt.Equal(loans[0].IssueDate))
	assert.True(t, result.Loan.DueDate.Equal(loans[0].DueDate))

	assertLoanCount(ctx, t, wrapper, 1, 1)
}

func Test_CommandHandler_Handle_Error_BookUnavailable(t *testing.T) {
	// setup
	ctx, wrapper := setupTestEnvironment(t)
	handler := lendbook.NewCommandHandler(wrapper.GetStore())

	// arrange
	givenBook(ctx, t, wrapper, 7, "Dune")
	givenBorrower(ctx, t, wrapper, 1, "ada@example.com")
	givenBorrower(ctx, t, wrapper, 2, "grace@example.com")
	_, err := handler.Handle(ctx, lendbook.BuildCommand(7, 1, issuedAt))
	require.NoError(t, err)

	// act
	_, err = handler.Handle(ctx, lendbook.BuildCommand(7, 2, issuedAt))

	// assert
	assert.ErrorIs(t, err, core.ErrBookUnavailable)
	assertLoanCount(ctx, t, wrapper, 1, 1)
	assertLoanCount(ctx, t, wrapper, 2, 0)
	assert.Equal(t, 1, CountLoansFromDB(t, wrapper))
}

func Test_CommandHandler_Handle_Error_BookNotInCatalog(t *testing.T) {
	// setup
	ctx, wrapper := setupTestEnvironment(t)
	handler := lendbook.NewCommandHandler(wrapper.GetStore())

	// arrange
	givenBorrower(ctx, t, wrapper, 1, "ada@example.com")

	// act
	_, err := handler.Handle(ctx, lendbook.BuildCommand(7, 1, issuedAt))

	// assert
	assert.ErrorIs(t, err, core.ErrBookUnavailable)
	assertLoanCount(ctx, t, wrapper, 1, 0)
}

func Test_CommandHandler_Handle_Error_LendingLimitExceeded(t *testing.T) {
	// setup
	ctx, wrapper := setupTestEnvironment(t)
	handler := lendbook.NewCommandHandler(wrapper.GetStore())

	// arrange
	givenBorrower(ctx, t, wrapper, 9, "nine@example.com")
	for bookID := core.BookID(1); bookID <= 4; bookID++ {
		givenBook(ctx, t, wrapper, bookID, "Book")
	}
	for bookID := core.BookID(1); bookID <= 3; bookID++ {
		_, err := handler.Handle(ctx, lendbook.BuildCommand(bookID, 9, issuedAt))
		require.NoError(t, err, "error in arranging test data")
	}

	// act
	_, err := handler.Handle(ctx, lendbook.BuildCommand(4, 9, issuedAt))

	// assert
	assert.ErrorIs(t, err, core.ErrLendingLimitExceeded)

	var rejection *core.Rejection
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, 3, rejection.LoanCount)

	assertLoanCount(ctx, t, wrapper, 9, 3)
	book, err := wrapper.GetStore().FindBook(ctx, 4)
	require.NoError(t, err)
	assert.True(t, book.Available)
}

func Test_CommandHandler_Handle_Error_UnknownBorrowerWithoutProvider(t *testing.T) {
	// setup
	ctx, wrapper := setupTestEnvironment(t)
	handler := lendbook.NewCommandHandler(wrapper.GetStore())

	// arrange
	givenBook(ctx, t, wrapper, 7, "Dune")

	// act
	_, err := handler.Handle(ctx, lendbook.BuildCommand(7, 1, issuedAt))

	// assert
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Equal(t, 0, CountLoansFromDB(t, wrapper))
}

func Test_CommandHandler_Handle_RegistersUnknownBorrower(t *testing.T) {
	// setup
	ctx, wrapper := setupTestEnvironment(t)
	var askedFor []core.BorrowerID
	handler := lendbook.NewCommandHandler(
		wrapper.GetStore(),
		lendbook.WithBorrowerDetailsProvider(func(_ context.Context, borrowerID core.BorrowerID) (lendbook.BorrowerDetails, error) {
			askedFor = append(askedFor, borrowerID)
			return lendbook.BorrowerDetails{Name: "Ada Lovelace", Email: "ada@example.com"}, nil
		}),
	)

	// arrange
	givenBook(ctx, t, wrapper, 7, "Dune")

	// act
	result, err := handler.Handle(ctx, lendbook.BuildCommand(7, 1, issuedAt))

	// assert
	require.NoError(t, err)
	assert.True(t, result.Registered)
	assert.Equal(t, []core.BorrowerID{1}, askedFor)

	borrower, err := wrapper.GetStore().FindBorrower(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", borrower.Name)
	assert.Equal(t, 1, borrower.IssuedBookCount)
}

func Test_CommandHandler_Handle_DoesNotAskForKnownBorrower(t *testing.T) {
	// setup
	ctx, wrapper := setupTestEnvironment(t)
	handler := lendbook.NewCommandHandler(wrapper.GetStore()).
		WithProvider(func(context.Context, core.BorrowerID) (lendbook.BorrowerDetails, error) {
			t.Fatal("the provider must not be asked for a registered borrower")
			return lendbook.BorrowerDetails{}, nil
		})

	// arrange
	givenBook(ctx, t, wrapper, 7, "Dune")
	givenBorrower(ctx, t, wrapper, 1, "ada@example.com")

	// act
	result, err := handler.Handle(ctx, lendbook.BuildCommand(7, 1, issuedAt))

	// assert
	require.NoError(t, err)
	assert.False(t, result.Registered)
}

func Test_CommandHandler_Handle_Error_ProviderAbortsBeforeAnyWrite(t *testing.T) {
	// setup
	ctx, wrapper := setupTestEnvironment(t)
	errSessionClosed := errors.New("session closed")
	handler := lendbook.NewCommandHandler(wrapper.GetStore()).
		WithProvider(func(context.Context, core.BorrowerID) (lendbook.BorrowerDetails, error) {
			return lendbook.BorrowerDetails{}, errSessionClosed
		})

	// arrange
	givenBook(ctx, t, wrapper, 7, "Dune")

	// act
	_, err := handler.Handle(ctx, lendbook.BuildCommand(7, 1, issuedAt))

	// assert
	assert.ErrorIs(t, err, errSessionClosed)

	_, findErr := wrapper.GetStore().FindBorrower(ctx, 1)
	assert.ErrorIs(t, findErr, relstore.ErrRecordNotFound)
	assert.Equal(t, 0, CountLoansFromDB(t, wrapper))
}

func Test_CommandHandler_Handle_RegistrationStaysWhenLendIsRejected(t *testing.T) {
	// setup
	ctx, wrapper := setupTestEnvironment(t)
	handler := lendbook.NewCommandHandler(wrapper.GetStore())

	// arrange
	givenBook(ctx, t, wrapper, 7, "Dune")
	givenBorrower(ctx, t, wrapper, 1, "ada@example.com")
	_, err := handler.Handle(ctx, lendbook.BuildCommand(7, 1, issuedAt))
	require.NoError(t, err)

	registering := handler.WithProvider(func(context.Context, core.BorrowerID) (lendbook.BorrowerDetails, error) {
		return lendbook.BorrowerDetails{Name: "Grace Hopper", Email: "grace@example.com"}, nil
	})

	// act
	result, err := registering.Handle(ctx, lendbook.BuildCommand(7, 2, issuedAt))

	// assert
	assert.ErrorIs(t, err, core.ErrBookUnavailable)
	assert.True(t, result.Registered)
	assertLoanCount(ctx, t, wrapper, 2, 0)
}

func Test_CommandHandler_Handle_Error_RegistrationRejected(t *testing.T) {
	// setup
	ctx, wrapper := setupTestEnvironment(t)
	handler := lendbook.NewCommandHandler(wrapper.GetStore()).
		WithProvider(func(context.Context, core.BorrowerID) (lendbook.BorrowerDetails, error) {
			return lendbook.BorrowerDetails{Name: "Ada Byron", Email: "ada@example.com"}, nil
		})

	// arrange
	givenBook(ctx, t, wrapper, 7, "Dune")
	givenBorrower(ctx, t, wrapper, 1, "ada@example.com")

	// act
	_, err := handler.Handle(ctx, lendbook.BuildCommand(7, 2, issuedAt))

	// assert
	assert.ErrorIs(t, err, core.ErrDuplicateEmail)

	book, findErr := wrapper.GetStore().FindBook(ctx, 7)
	require.NoError(t, findErr)
	assert.True(t, book.Available)
}

func Test_CommandHandler_Handle_ConcurrentLendOfSameBook(t *testing.T) {
	// setup
	ctx, wrapper := setupTestEnvironment(t)
	handler := lendbook.NewCommandHandler(wrapper.GetStore())

	// arrange
	givenBook(ctx, t, wrapper, 7, "Dune")
	givenBorrower(ctx, t, wrapper, 1, "ada@example.com")
	givenBorrower(ctx, t, wrapper, 2, "grace@example.com")

	// act
	var wg sync.WaitGroup
	errs := make([]error, 2)

	for i, borrowerID := range []core.BorrowerID{1, 2} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = handler.Handle(ctx, lendbook.BuildCommand(7, borrowerID, issuedAt))
		}()
	}

	wg.Wait()

	// assert
	var succeeded, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, core.ErrBookUnavailable), errors.Is(err, core.ErrConflict):
			lost++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded, "exactly one lend must succeed")
	assert.Equal(t, 1, lost)
	assert.Equal(t, 1, CountLoansFromDB(t, wrapper))

	book, err := wrapper.GetStore().FindBook(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, book.HolderID)

	winner := *book.HolderID
	assertLoanCount(ctx, t, wrapper, winner, 1)
	assertLoanCount(ctx, t, wrapper, 3-winner, 0)
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

func givenBook(ctx context.Context, t *testing.T, wrapper Wrapper, bookID core.BookID, title string) {
	t.Helper()

	_, err := addbook.NewCommandHandler(wrapper.GetStore()).
		Handle(ctx, addbook.BuildCommand(bookID, title, "Some Author", "Some Genre"))
	require.NoError(t, err, "error in arranging test data")
}

func givenBorrower(ctx context.Context, t *testing.T, wrapper Wrapper, borrowerID core.BorrowerID, email string) {
	t.Helper()

	_, err := registerborrower.NewCommandHandler(wrapper.GetStore()).
		Handle(ctx, registerborrower.BuildCommand(borrowerID, "Borrower", email))
	require.NoError(t, err, "error in arranging test data")
}

func assertLoanCount(ctx context.Context, t *testing.T, wrapper Wrapper, borrowerID core.BorrowerID, expected int) {
	t.Helper()

	borrower, err := wrapper.GetStore().FindBorrower(ctx, borrowerID)
	require.NoError(t, err)
	assert.Equal(t, expected, borrower.IssuedBookCount, "loan count of borrower %d", borrowerID)
}
