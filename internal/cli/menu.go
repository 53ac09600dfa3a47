package cli

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/lendbook"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/returnbook"
	"github.com/AntonStoeckl/library-lending-go/lending/features/query/searchbooks"
)

const (
	defaultOperationTimeout = 10 * time.Second

	choiceAddBook         = 1
	choiceRemoveBook      = 2
	choiceLendBook        = 3
	choiceReturnBook      = 4
	choiceSearchBooks     = 5
	choiceAvailableBooks  = 6
	choiceIssuedBooks     = 7
	choiceOverdueBooks    = 8
	choiceActiveBorrowers = 9
	choiceExit            = 10

	searchByTitle  = 1
	searchByAuthor = 2
	searchByGenre  = 3
	searchGoBack   = 4
)

const mainMenu = `
                LIBRARY MANAGEMENT SYSTEM

                        MAIN MENU

   1. Add Book               2. Remove Book
   3. Lend Book              4. Return Book
   5. Search Book            6. Available Books
   7. Issued Books           8. Overdue Books
   9. Active Users          10. Exit
`

const searchMenu = `
   1. Search by Title
   2. Search by Author
   3. Search by Genre
   4. Go Back
`

// Menu is the interactive loop of the library desk.
type Menu struct {
	desk   desk
	prompt prompter
}

// MenuOption configures a Menu.
type MenuOption func(*Menu)

// WithClock sets the clock used for issue, return, and overdue dates.
func WithClock(now func() time.Time) MenuOption {
	return func(m *Menu) {
		m.desk.now = now
	}
}

// WithOperationTimeout sets the timeout of each lending operation.
func WithOperationTimeout(timeout time.Duration) MenuOption {
	return func(m *Menu) {
		m.desk.timeout = timeout
	}
}

// NewMenu creates a menu that reads answers from in and writes to out and errOut.
func NewMenu(handlers Handlers, in io.Reader, out, errOut io.Writer, opts ...MenuOption) Menu {
	p := printer{out: out, err: errOut}

	m := Menu{
		desk:   desk{handlers: handlers, print: p, timeout: defaultOperationTimeout, now: time.Now},
		prompt: newPrompter(in, p),
	}

	for _, opt := range opts {
		opt(&m)
	}

	return m
}

// Run shows the main menu until the operator exits or the input ends.
// Rejections and store failures are shown and the loop continues; only a cancelled ctx ends it with an error.
func (m Menu) Run(ctx context.Context) error {
	for {
		m.desk.print.header("%s", mainMenu)

		choice, err := m.prompt.number("ENTER YOUR CHOICE: ")
		if err != nil {
			return endOfInput(err)
		}

		if choice == choiceExit {
			m.sayGoodbye()
			return nil
		}

		if err := m.dispatch(ctx, choice); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			if ctx.Err() != nil {
				return ctx.Err()
			}

			m.desk.print.fail("%s", describeRejection(err))
		}

		next, err := m.prompt.number("\nPress 0 to continue, any other number to exit: ")
		if err != nil {
			return endOfInput(err)
		}

		if next != 0 {
			m.sayGoodbye()
			return nil
		}
	}
}

func (m Menu) dispatch(ctx context.Context, choice int64) error {
	switch choice {
	case choiceAddBook:
		return m.addBook(ctx)
	case choiceRemoveBook:
		return m.removeBook(ctx)
	case choiceLendBook:
		return m.lendBook(ctx)
	case choiceReturnBook:
		return m.returnBook(ctx)
	case choiceSearchBooks:
		return m.searchBooks(ctx)
	case choiceAvailableBooks:
		m.desk.print.header("\nAVAILABLE BOOKS\n")
		return m.desk.availableBooks(ctx, false)
	case choiceIssuedBooks:
		m.desk.print.header("\nISSUED BOOKS\n")
		return m.desk.issuedBooks(ctx, false)
	case choiceOverdueBooks:
		m.desk.print.header("\nOVERDUE BOOKS\n")
		return m.desk.overdueBooks(ctx, false)
	case choiceActiveBorrowers:
		m.desk.print.header("\nACTIVE USERS\n")
		return m.desk.activeBorrowers(ctx, false)
	default:
		m.desk.print.warn("Please choose a valid option and try again!")
		return nil
	}
}

func (m Menu) addBook(ctx context.Context) error {
	m.desk.print.header("\nADD BOOK\n")

	bookID, err := m.prompt.number("Enter Book ID: ")
	if err != nil {
		return err
	}

	title, err := m.prompt.text("Enter Title: ")
	if err != nil {
		return err
	}

	author, err := m.prompt.text("Enter Author: ")
	if err != nil {
		return err
	}

	genre, err := m.prompt.text("Enter Genre: ")
	if err != nil {
		return err
	}

	return m.desk.addBook(ctx, bookID, title, author, genre)
}

func (m Menu) removeBook(ctx context.Context) error {
	m.desk.print.header("\nREMOVE BOOK\n")

	bookID, err := m.prompt.number("Enter ID of the Book to Remove: ")
	if err != nil {
		return err
	}

	return m.desk.removeBook(ctx, bookID)
}

// lendBook asks for the details of a borrower who is not registered yet before the lend starts.
func (m Menu) lendBook(ctx context.Context) error {
	m.desk.print.header("\nLEND BOOK\n")

	bookID, err := m.prompt.number("Enter ID of the Book to Lend: ")
	if err != nil {
		return err
	}

	borrowerID, err := m.prompt.number("Enter Your ID: ")
	if err != nil {
		return err
	}

	registered, err := m.desk.isRegistered(ctx, borrowerID)
	if err != nil {
		return err
	}

	var provider lendbook.BorrowerDetailsProvider

	if !registered {
		details, err := m.askBorrowerDetails()
		if err != nil {
			return err
		}

		provider = func(context.Context, core.BorrowerID) (lendbook.BorrowerDetails, error) {
			return details, nil
		}
	}

	return m.desk.lend(ctx, bookID, borrowerID, provider)
}

func (m Menu) askBorrowerDetails() (lendbook.BorrowerDetails, error) {
	name, err := m.prompt.text("Enter Your Name: ")
	if err != nil {
		return lendbook.BorrowerDetails{}, err
	}

	email, err := m.prompt.email("Enter Your Email: ")
	if err != nil {
		return lendbook.BorrowerDetails{}, err
	}

	return lendbook.BorrowerDetails{Name: name, Email: email}, nil
}

func (m Menu) returnBook(ctx context.Context) error {
	m.desk.print.header("\nRETURN BOOK\n")

	bookID, err := m.prompt.number("Enter ID of the Book to Return: ")
	if err != nil {
		return err
	}

	return m.desk.returnBook(ctx, returnbook.BuildCommand(bookID, m.desk.now()))
}

func (m Menu) searchBooks(ctx context.Context) error {
	for {
		m.desk.print.header("\nSEARCH BOOKS\n")
		m.desk.print.line("%s", searchMenu)

		choice, err := m.prompt.number("Enter your choice: ")
		if err != nil {
			return err
		}

		var field searchbooks.Field

		switch choice {
		case searchByTitle:
			field = searchbooks.ByTitle
		case searchByAuthor:
			field = searchbooks.ByAuthor
		case searchByGenre:
			field = searchbooks.ByGenre
		case searchGoBack:
			return nil
		default:
			m.desk.print.warn("Invalid choice! Please select a valid option.")
			continue
		}

		term, err := m.prompt.text("Enter the " + string(field) + " to search: ")
		if err != nil {
			return err
		}

		if err := m.search(ctx, field, term); err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return err
			}

			m.desk.print.fail("%s", describeRejection(err))
		}

		next, err := m.prompt.number("\nPress 0 to continue searching, any other number to go back: ")
		if err != nil {
			return err
		}

		if next != 0 {
			return nil
		}
	}
}

func (m Menu) search(ctx context.Context, field searchbooks.Field, term string) error {
	query, err := searchbooks.BuildQuery(field, term)
	if err != nil {
		return err
	}

	return m.desk.searchBooks(ctx, query, false)
}

func (m Menu) sayGoodbye() {
	m.desk.print.header("\nTHANK YOU FOR USING THE LIBRARY MANAGEMENT SYSTEM!\n")
}

// endOfInput ends the loop quietly when the operator closes the input.
func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}

	return err
}
