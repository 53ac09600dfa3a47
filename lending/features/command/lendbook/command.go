package lendbook

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

const (
	commandType = "LendBook"
)

// Command represents the intent to lend a book to a borrower.
type Command struct {
	BookID     core.BookID
	BorrowerID core.BorrowerID
	IssuedAt   time.Time
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
// issuedAt keeps its location, which decides the calendar the due day is counted on.
func BuildCommand(bookID core.BookID, borrowerID core.BorrowerID, issuedAt time.Time) Command {
	return Command{
		BookID:     bookID,
		BorrowerID: borrowerID,
		IssuedAt:   issuedAt.Truncate(time.Microsecond),
	}
}
