package removebook

import (
	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

const (
	commandType = "RemoveBook"
)

// Command represents the intent to remove a book from the catalog.
type Command struct {
	BookID core.BookID
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(bookID core.BookID) Command {
	return Command{BookID: bookID}
}
