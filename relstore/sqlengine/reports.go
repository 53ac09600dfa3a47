package sqlengine

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/library-lending-go/relstore"
)

const (
	actionAvailableBooks  = "available_books"
	actionIssuedLoans     = "issued_loans"
	actionLoansDueBefore  = "loans_due_before"
	actionActiveBorrowers = "active_borrowers"
	actionSearchBooks     = "search_books"
)

// FindBook reads one book outside any unit of work.
func (e Engine) FindBook(ctx context.Context, bookID int64) (relstore.BookRecord, error) {
	return e.findBook(ctx, e.db, bookID)
}

// FindBorrower reads one borrower outside any unit of work.
func (e Engine) FindBorrower(ctx context.Context, borrowerID int64) (relstore.BorrowerRecord, error) {
	return e.findBorrower(ctx, e.db, borrowerID)
}

// AvailableBooks returns all books that are not on loan, ordered by id.
func (e Engine) AvailableBooks(ctx context.Context) ([]relstore.BookRecord, error) {
	return observedQuery(ctx, e, actionAvailableBooks, func(ctx context.Context) ([]relstore.BookRecord, error) {
		return queryRows(ctx, e, e.db, actionAvailableBooks,
			e.selectBooks().Where(availableIs(true)).Order(goqu.C(colID).Asc()),
			scanBook,
		)
	})
}

// IssuedLoans returns all open loans, ordered by due date.
func (e Engine) IssuedLoans(ctx context.Context) ([]relstore.LoanRecord, error) {
	return observedQuery(ctx, e, actionIssuedLoans, func(ctx context.Context) ([]relstore.LoanRecord, error) {
		return queryRows(ctx, e, e.db, actionIssuedLoans,
			e.selectLoans().Order(goqu.C(colDueDate).Asc(), goqu.C(colBookID).Asc()),
			scanLoan,
		)
	})
}

// LoansDueBefore returns the open loans whose due date lies strictly before cutoff,
// joined with the email of the borrower, ordered by due date.
func (e Engine) LoansDueBefore(ctx context.Context, cutoff time.Time) ([]relstore.OverdueLoanRecord, error) {
	return observedQuery(ctx, e, actionLoansDueBefore, func(ctx context.Context) ([]relstore.OverdueLoanRecord, error) {
		return queryRows(ctx, e, e.db, actionLoansDueBefore, e.buildLoansDueBefore(cutoff), scanOverdueLoan)
	})
}

// ActiveBorrowers returns the borrowers holding at least one book, ordered by id.
func (e Engine) ActiveBorrowers(ctx context.Context) ([]relstore.BorrowerRecord, error) {
	return observedQuery(ctx, e, actionActiveBorrowers, func(ctx context.Context) ([]relstore.BorrowerRecord, error) {
		return queryRows(ctx, e, e.db, actionActiveBorrowers,
			e.selectBorrowers().Where(goqu.C(colIssuedBookCount).Gt(0)).Order(goqu.C(colID).Asc()),
			scanBorrower,
		)
	})
}

// SearchBooks returns the books whose selected column(s) contain term, ignoring case, ordered by id.
// An unknown field searches all columns.
func (e Engine) SearchBooks(ctx context.Context, field relstore.SearchField, term string) ([]relstore.BookRecord, error) {
	return observedQuery(ctx, e, actionSearchBooks, func(ctx context.Context) ([]relstore.BookRecord, error) {
		return queryRows(ctx, e, e.db, actionSearchBooks, e.buildSearchBooks(field, term), scanBook)
	})
}

// observedQuery wraps a reporting query with a tracing span, duration metrics and a completion log.
func observedQuery[T any](
	ctx context.Context,
	e Engine,
	operation string,
	run func(ctx context.Context) ([]T, error),
) ([]T, error) {

	start := time.Now()
	ctx, tracer := e.startQueryTracing(ctx, operation)
	metrics := e.startQueryMetrics(ctx, operation)

	records, err := run(ctx)
	duration := time.Since(start)

	if err != nil {
		tracer.finishError(errorTypeDatabaseQuery, duration)
		metrics.recordError(errorTypeDatabaseQuery, duration)

		return nil, err
	}

	e.logOperation(ctx, logMsgQueryCompleted,
		logAttrAction, operation,
		logAttrRowCount, len(records),
		logAttrDurationMS, e.toMilliseconds(duration),
	)
	tracer.finishSuccess(duration)
	metrics.recordSuccess(len(records), duration)

	return records, nil
}
