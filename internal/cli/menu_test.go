package cli_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/internal/cli"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/addbook"
	"github.com/AntonStoeckl/library-lending-go/lending/shell/config"
	"github.com/AntonStoeckl/library-lending-go/testutil/storewrapper"
)

var menuClock = time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)

func Test_Menu_AddsABookAndListsIt(t *testing.T) {
	// setup
	handlers, wrapper := newTestHandlers(t)
	defer wrapper.Close()

	// arrange
	input := lines("1", "7", "Dune", "Frank Herbert", "Science Fiction", "0", "6", "10")
	var out bytes.Buffer

	// act
	err := cli.NewMenu(handlers, input, &out, &out, cli.WithClock(fixedClock(menuClock))).Run(context.Background())

	// assert
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Successfully added book 7")
	assert.Contains(t, out.String(), "Frank Herbert")
	assert.Contains(t, out.String(), "THANK YOU FOR USING THE LIBRARY MANAGEMENT SYSTEM!")
}

func Test_Menu_RegistersAnUnknownBorrowerWhenLending(t *testing.T) {
	// setup
	handlers, wrapper := newTestHandlers(t)
	defer wrapper.Close()
	givenBook(t, handlers, 1, "Dune")

	// arrange
	input := lines("3", "one", "1", "20", "Ann", "not-an-email", "ann@example.com", "1")
	var out bytes.Buffer

	// act
	err := cli.NewMenu(handlers, input, &out, &out, cli.WithClock(fixedClock(menuClock))).Run(context.Background())

	// assert
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Please enter a valid number!")
	assert.Contains(t, out.String(), "Please enter a valid email address!")
	assert.Contains(t, out.String(), "Borrower 20 registered successfully")
	assert.Contains(t, out.String(), `Successfully lent "Dune" to borrower 20, due on 2025-03-16`)
	assert.Equal(t, 1, storewrapper.CountLoansFromDB(t, wrapper))
}

func Test_Menu_AsksAgainForAnEmailTooLongToStore(t *testing.T) {
	// setup
	handlers, wrapper := newTestHandlers(t)
	defer wrapper.Close()
	givenBook(t, handlers, 1, "Dune")

	// arrange
	tooLong := strings.Repeat("a", 45) + "@example.com"
	input := lines("3", "1", "20", "Ann", tooLong, "ann@example.com", "1")
	var out bytes.Buffer

	// act
	err := cli.NewMenu(handlers, input, &out, &out, cli.WithClock(fixedClock(menuClock))).Run(context.Background())

	// assert
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out.String(), "Enter Your Email: "))
	assert.Equal(t, 1, strings.Count(out.String(), "Please enter a valid email address!"))
	assert.Contains(t, out.String(), "Borrower 20 registered successfully")
	assert.Equal(t, 1, storewrapper.CountLoansFromDB(t, wrapper))
}

func Test_Menu_DoesNotAskAKnownBorrowerForTheirDetails(t *testing.T) {
	// setup
	handlers, wrapper := newTestHandlers(t)
	defer wrapper.Close()
	givenBook(t, handlers, 1, "Dune")
	givenBook(t, handlers, 2, "Emma")

	// arrange
	input := lines("3", "1", "20", "Ann", "ann@example.com", "0", "3", "2", "20", "1")
	var out bytes.Buffer

	// act
	err := cli.NewMenu(handlers, input, &out, &out, cli.WithClock(fixedClock(menuClock))).Run(context.Background())

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out.String(), "Enter Your Name: "))
	assert.Contains(t, out.String(), `Successfully lent "Emma" to borrower 20`)
	assert.Equal(t, 2, storewrapper.CountLoansFromDB(t, wrapper))
}

func Test_Menu_ShowsRejectionsAndContinues(t *testing.T) {
	// setup
	handlers, wrapper := newTestHandlers(t)
	defer wrapper.Close()
	givenBook(t, handlers, 1, "Dune")

	// arrange
	input := lines("4", "1", "0", "2", "99", "0", "1", "1", "Again", "Someone", "Something", "10")
	var out bytes.Buffer

	// act
	err := cli.NewMenu(handlers, input, &out, &out, cli.WithClock(fixedClock(menuClock))).Run(context.Background())

	// assert
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Book with ID 1 is not issued to anyone.")
	assert.Contains(t, out.String(), "Book with ID 99 is not present in the catalog.")
	assert.Contains(t, out.String(), "Book with ID 1 already exists in the catalog.")
}

func Test_Menu_SearchesFromTheSubMenu(t *testing.T) {
	// setup
	handlers, wrapper := newTestHandlers(t)
	defer wrapper.Close()
	givenBook(t, handlers, 1, "Dune")
	givenBook(t, handlers, 2, "Emma")

	// arrange
	input := lines("5", "9", "1", "DUN", "0", "3", "poetry", "1", "1")
	var out bytes.Buffer

	// act
	err := cli.NewMenu(handlers, input, &out, &out, cli.WithClock(fixedClock(menuClock))).Run(context.Background())

	// assert
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Invalid choice! Please select a valid option.")
	assert.Contains(t, out.String(), "Dune")
	assert.NotContains(t, out.String(), "Emma")
	assert.Contains(t, out.String(), `No books found with the genre matching "poetry".`)
}

func Test_Menu_EndsQuietlyWhenTheInputEnds(t *testing.T) {
	// setup
	handlers, wrapper := newTestHandlers(t)
	defer wrapper.Close()

	// arrange
	input := lines("1", "7", "Dune")
	var out bytes.Buffer

	// act
	err := cli.NewMenu(handlers, input, &out, &out).Run(context.Background())

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 0, storewrapper.CountRowsFromDB(t, wrapper, wrapper.GetStore().Tables().Books))
}

func Test_Menu_RejectsUnknownChoices(t *testing.T) {
	// setup
	handlers, wrapper := newTestHandlers(t)
	defer wrapper.Close()

	// arrange
	input := lines("42", "0", "10")
	var out bytes.Buffer

	// act
	err := cli.NewMenu(handlers, input, &out, &out).Run(context.Background())

	// assert
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Please choose a valid option and try again!")
}

func newTestHandlers(t *testing.T) (cli.Handlers, storewrapper.Wrapper) {
	t.Helper()

	wrapper := storewrapper.CreateWrapperWithTestConfig(t)
	storewrapper.CleanUp(t, wrapper)

	handlers, err := cli.NewHandlers(
		wrapper.GetStore(),
		config.RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond},
		cli.Instruments{},
	)
	require.NoError(t, err)

	return handlers, wrapper
}

func givenBook(t *testing.T, handlers cli.Handlers, bookID int64, title string) {
	t.Helper()

	_, err := handlers.AddBook.Handle(context.Background(), addbook.BuildCommand(bookID, title, "Some Author", "Novel"))
	require.NoError(t, err)
}

func lines(answers ...string) *strings.Reader {
	return strings.NewReader(strings.Join(answers, "\n") + "\n")
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
