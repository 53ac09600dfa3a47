package addbook

import (
	"strings"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

const (
	commandType = "AddBook"
)

// Command represents the intent to add a book to the catalog.
type Command struct {
	BookID core.BookID
	Title  string
	Author string
	Genre  string
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with surrounding whitespace removed from the text fields.
func BuildCommand(bookID core.BookID, title, author, genre string) Command {
	return Command{
		BookID: bookID,
		Title:  strings.TrimSpace(title),
		Author: strings.TrimSpace(author),
		Genre:  strings.TrimSpace(genre),
	}
}
