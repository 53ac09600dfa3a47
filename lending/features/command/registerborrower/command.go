package registerborrower

import (
	"strings"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

const (
	commandType = "RegisterBorrower"
)

// Command represents the intent to make sure a borrower is registered.
type Command struct {
	BorrowerID core.BorrowerID
	Name       string
	Email      string
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with surrounding whitespace removed from name and email.
func BuildCommand(borrowerID core.BorrowerID, name, email string) Command {
	return Command{
		BorrowerID: borrowerID,
		Name:       strings.TrimSpace(name),
		Email:      strings.TrimSpace(email),
	}
}
