package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/addbook"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/lendbook"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/removebook"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/returnbook"
	"github.com/AntonStoeckl/library-lending-go/lending/features/query/activeborrowers"
	"github.com/AntonStoeckl/library-lending-go/lending/features/query/availablebooks"
	"github.com/AntonStoeckl/library-lending-go/lending/features/query/issuedbooks"
	"github.com/AntonStoeckl/library-lending-go/lending/features/query/loancount"
	"github.com/AntonStoeckl/library-lending-go/lending/features/query/overduebooks"
	"github.com/AntonStoeckl/library-lending-go/lending/features/query/searchbooks"
)

// desk runs the lending operations for the subcommands and the menu and prints their outcome.
// Every operation gets its own timeout.
type desk struct {
	handlers Handlers
	print    printer
	timeout  time.Duration
	now      func() time.Time
}

// location is the calendar of the desk clock, on which due days and fines are counted.
func (d desk) location() *time.Location {
	return d.now().Location()
}

func (d desk) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d.timeout)
}

func (d desk) addBook(ctx context.Context, bookID core.BookID, title, author, genre string) error {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	if _, err := d.handlers.AddBook.Handle(ctx, addbook.BuildCommand(bookID, title, author, genre)); err != nil {
		return fmt.Errorf("adding book %d: %w", bookID, err)
	}

	d.print.ok("Successfully added book %d", bookID)

	return nil
}

func (d desk) removeBook(ctx context.Context, bookID core.BookID) error {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	if _, err := d.handlers.RemoveBook.Handle(ctx, removebook.BuildCommand(bookID)); err != nil {
		return fmt.Errorf("removing book %d: %w", bookID, err)
	}

	d.print.ok("Successfully removed book %d", bookID)

	return nil
}

// isRegistered reports whether the borrower is known, so that the menu can ask for the details of
// a new borrower before the lend starts its clock.
func (d desk) isRegistered(ctx context.Context, borrowerID core.BorrowerID) (bool, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	_, err := d.handlers.LoanCount.Handle(ctx, loancount.BuildQuery(borrowerID))

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, core.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("looking up borrower %d: %w", borrowerID, err)
	}
}

func (d desk) lend(
	ctx context.Context,
	bookID core.BookID,
	borrowerID core.BorrowerID,
	provider lendbook.BorrowerDetailsProvider,
) error {

	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	handler, err := d.handlers.Lend(provider)
	if err != nil {
		return err
	}

	result, err := handler.Handle(ctx, lendbook.BuildCommand(bookID, borrowerID, d.now()))
	if result.Registered {
		d.print.ok("Borrower %d registered successfully", borrowerID)
	}

	if err != nil {
		return fmt.Errorf("lending book %d to borrower %d: %w", bookID, borrowerID, err)
	}

	d.print.ok("Successfully lent %q to borrower %d, due on %s",
		result.Loan.BookTitle, borrowerID, day(result.Loan.DueDate, d.location()))

	return nil
}

func (d desk) returnBook(ctx context.Context, command returnbook.Command) error {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	result, err := d.handlers.ReturnBook.Handle(ctx, command)
	if err != nil {
		return fmt.Errorf("returning book %d: %w", command.BookID, err)
	}

	d.print.ok("Successfully returned %q", result.Loan.BookTitle)

	if result.OverdueDays > 0 {
		d.print.warn("Returned %d day(s) late, fine due: %d", result.OverdueDays, result.Fine)
	}

	return nil
}

func (d desk) searchBooks(ctx context.Context, query searchbooks.Query, asJSON bool) error {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	found, err := d.handlers.SearchBooks.Handle(ctx, query)
	if err != nil {
		return fmt.Errorf("searching books: %w", err)
	}

	if asJSON {
		return d.print.json(bookViews(found.Books))
	}

	d.print.table(fmt.Sprintf("No books found with %s matching %q.", describeField(found.Field), found.Term),
		bookHeaders, bookRows(found.Books))

	return nil
}

func (d desk) availableBooks(ctx context.Context, asJSON bool) error {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	report, err := d.handlers.AvailableBooks.Handle(ctx, availablebooks.BuildQuery())
	if err != nil {
		return fmt.Errorf("listing available books: %w", err)
	}

	if asJSON {
		return d.print.json(bookViews(report.Books))
	}

	d.print.table("No books available currently.", bookHeaders, bookRows(report.Books))

	return nil
}

func (d desk) issuedBooks(ctx context.Context, asJSON bool) error {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	report, err := d.handlers.IssuedBooks.Handle(ctx, issuedbooks.BuildQuery())
	if err != nil {
		return fmt.Errorf("listing issued books: %w", err)
	}

	if asJSON {
		return d.print.json(loanViews(report.Loans, d.location()))
	}

	d.print.table("No books issued currently.", loanHeaders, loanRows(report.Loans, d.location()))

	return nil
}

func (d desk) overdueBooks(ctx context.Context, asJSON bool) error {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	report, err := d.handlers.OverdueBooks.Handle(ctx, overduebooks.BuildQuery(d.now()))
	if err != nil {
		return fmt.Errorf("listing overdue books: %w", err)
	}

	if asJSON {
		return d.print.json(overdueViews(report.Loans, report.AsOf.Location()))
	}

	d.print.table("No overdue books.", overdueHeaders, overdueRows(report.Loans, report.AsOf.Location()))

	if report.Count > 0 {
		d.print.line("%d overdue book(s), fines accrued so far: %d", report.Count, report.TotalFines)
	}

	return nil
}

func (d desk) activeBorrowers(ctx context.Context, asJSON bool) error {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	report, err := d.handlers.ActiveBorrowers.Handle(ctx, activeborrowers.BuildQuery())
	if err != nil {
		return fmt.Errorf("listing active borrowers: %w", err)
	}

	if asJSON {
		return d.print.json(borrowerViews(report.Borrowers))
	}

	d.print.table("No active users found.", borrowerHeaders, borrowerRows(report.Borrowers))

	return nil
}

func (d desk) loanCount(ctx context.Context, borrowerID core.BorrowerID, asJSON bool) error {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	report, err := d.handlers.LoanCount.Handle(ctx, loancount.BuildQuery(borrowerID))
	if err != nil {
		return fmt.Errorf("counting loans of borrower %d: %w", borrowerID, err)
	}

	if asJSON {
		return d.print.json(struct {
			borrowerView
			Remaining int `json:"remaining"`
		}{
			borrowerView: borrowerViews([]core.Borrower{report.Borrower})[0],
			Remaining:    report.Remaining,
		})
	}

	d.print.line("%s (%d) holds %d of %d books, %d more can be lent.",
		report.Borrower.Name, borrowerID, report.Count, core.MaxActiveLoans, report.Remaining)

	return nil
}

// describeRejection turns a rejected operation into the message shown at the desk.
// Technical failures are described by their error text.
func describeRejection(err error) string {
	var rejection *core.Rejection
	if !errors.As(err, &rejection) {
		return err.Error()
	}

	switch {
	case errors.Is(rejection, core.ErrDuplicateID):
		return fmt.Sprintf("Book with ID %d already exists in the catalog.", rejection.BookID)

	case errors.Is(rejection, core.ErrNotFound) && rejection.BookID != 0:
		return fmt.Sprintf("Book with ID %d is not present in the catalog.", rejection.BookID)

	case errors.Is(rejection, core.ErrNotFound):
		return fmt.Sprintf("Borrower with ID %d is not registered.", rejection.BorrowerID)

	case errors.Is(rejection, core.ErrBookOnLoan):
		return fmt.Sprintf("Book with ID %d is issued to user ID %d. Please return the book before removing it.",
			rejection.BookID, rejection.HolderID)

	case errors.Is(rejection, core.ErrBookUnavailable):
		return fmt.Sprintf("Book with ID %d is currently not available.", rejection.BookID)

	case errors.Is(rejection, core.ErrLendingLimitExceeded):
		return fmt.Sprintf("Maximum %d books can be lent at a time.", core.MaxActiveLoans)

	case errors.Is(rejection, core.ErrNotOnLoan):
		return fmt.Sprintf("Book with ID %d is not issued to anyone.", rejection.BookID)

	case errors.Is(rejection, core.ErrLoanMismatch):
		return fmt.Sprintf("Book with ID %d is issued to user ID %d, not to user ID %d.",
			rejection.BookID, rejection.HolderID, rejection.BorrowerID)

	default:
		return rejection.Error()
	}
}

func describeField(field searchbooks.Field) string {
	switch field {
	case searchbooks.ByTitle:
		return "the title"
	case searchbooks.ByAuthor:
		return "the author"
	case searchbooks.ByGenre:
		return "the genre"
	default:
		return "title, author, or genre"
	}
}
