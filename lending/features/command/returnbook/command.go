package returnbook

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

const (
	commandType = "ReturnBook"
)

// Command represents the intent to return a lent book.
// ExpectedBorrowerID is optional; when set, the loan must belong to that borrower.
type Command struct {
	BookID             core.BookID
	ExpectedBorrowerID *core.BorrowerID
	ReturnedAt         time.Time
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command for a return by whoever holds the book.
// The location of returnedAt decides which calendar day the return falls on.
func BuildCommand(bookID core.BookID, returnedAt time.Time) Command {
	return Command{
		BookID:     bookID,
		ReturnedAt: returnedAt.Truncate(time.Microsecond),
	}
}

// BuildCommandForBorrower creates a new Command for a return that must come from borrowerID.
func BuildCommandForBorrower(bookID core.BookID, borrowerID core.BorrowerID, returnedAt time.Time) Command {
	command := BuildCommand(bookID, returnedAt)
	command.ExpectedBorrowerID = &borrowerID

	return command
}
