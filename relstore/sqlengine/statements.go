package sqlengine

import (
	"context"
	"errors"
	"time"

	"github.com/AntonStoeckl/library-lending-go/relstore"
	"github.com/AntonStoeckl/library-lending-go/relstore/sqlengine/internal/adapters"
)

// sqlBuilder is satisfied by every goqu dataset.
type sqlBuilder interface {
	ToSQL() (string, []any, error)
}

type rowScanner[T any] func(rows adapters.DBRows) (T, error)

// toSQL renders a prepared statement with its arguments.
func (e Engine) toSQL(ctx context.Context, action string, builder sqlBuilder) (string, []any, error) {
	sqlQuery, args, buildErr := builder.ToSQL()
	if buildErr != nil {
		e.logError(ctx, logMsgBuildQueryFailed, buildErr, logAttrAction, action)

		return "", nil, errors.Join(relstore.ErrBuildingQueryFailed, buildErr)
	}

	return sqlQuery, args, nil
}

// exec runs a write statement and returns the number of affected rows.
// A unique violation is reported as a concurrency conflict, since someone else inserted the same key
// between the read and the write of this unit of work.
func (e Engine) exec(ctx context.Context, db adapters.DBExecutor, action string, builder sqlBuilder) (int64, error) {
	sqlQuery, args, buildErr := e.toSQL(ctx, action, builder)
	if buildErr != nil {
		return 0, buildErr
	}

	start := time.Now()
	result, execErr := db.Exec(ctx, sqlQuery, args...)
	e.logQueryWithDuration(ctx, sqlQuery, action, time.Since(start))

	if execErr != nil {
		if adapters.IsUniqueViolation(execErr) {
			e.logOperation(ctx, logMsgDuplicateKey, logAttrAction, action)
			e.recordConcurrencyConflictMetrics(ctx, action)

			return 0, errors.Join(relstore.ErrConcurrencyConflict, relstore.ErrDuplicateKey, execErr)
		}

		e.logError(ctx, logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		e.recordErrorMetrics(ctx, action, errorTypeDatabaseExec)

		return 0, errors.Join(relstore.ErrStoreUnavailable, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		e.logError(ctx, logMsgRowsAffectedFailed, rowsAffectedErr, logAttrAction, action)

		return 0, errors.Join(relstore.ErrStoreUnavailable, rowsAffectedErr)
	}

	return rowsAffected, nil
}

// execExpectingOneRow runs a compare-and-set write. Anything but exactly one affected row is a conflict.
func (e Engine) execExpectingOneRow(ctx context.Context, db adapters.DBExecutor, action string, builder sqlBuilder) error {
	rowsAffected, err := e.exec(ctx, db, action, builder)
	if err != nil {
		return err
	}

	if rowsAffected != 1 {
		e.logOperation(ctx, logMsgConcurrencyConflict, logAttrAction, action, logAttrRowsAffected, rowsAffected)
		e.recordConcurrencyConflictMetrics(ctx, action)

		return relstore.ErrConcurrencyConflict
	}

	return nil
}

// queryRows runs a select statement and scans every row.
func queryRows[T any](
	ctx context.Context,
	e Engine,
	db adapters.DBExecutor,
	action string,
	builder sqlBuilder,
	scan rowScanner[T],
) ([]T, error) {

	sqlQuery, args, buildErr := e.toSQL(ctx, action, builder)
	if buildErr != nil {
		return nil, buildErr
	}

	start := time.Now()
	rows, queryErr := db.Query(ctx, sqlQuery, args...)
	e.logQueryWithDuration(ctx, sqlQuery, action, time.Since(start))

	if queryErr != nil {
		e.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		e.recordErrorMetrics(ctx, action, errorTypeDatabaseQuery)

		return nil, errors.Join(relstore.ErrStoreUnavailable, queryErr)
	}
	defer e.closeRows(ctx, rows)

	records := make([]T, 0)
	for rows.Next() {
		record, scanErr := scan(rows)
		if scanErr != nil {
			e.logError(ctx, logMsgScanRowFailed, scanErr, logAttrAction, action)
			e.recordErrorMetrics(ctx, action, errorTypeRowScan)

			return nil, errors.Join(relstore.ErrScanningDBRowFailed, scanErr)
		}

		records = append(records, record)
	}

	if iterErr := rows.Err(); iterErr != nil {
		e.logError(ctx, logMsgIterateRowsFailed, iterErr, logAttrAction, action)
		e.recordErrorMetrics(ctx, action, errorTypeDatabaseQuery)

		return nil, errors.Join(relstore.ErrStoreUnavailable, iterErr)
	}

	return records, nil
}

// queryOne runs a select statement expected to match at most one row.
func queryOne[T any](
	ctx context.Context,
	e Engine,
	db adapters.DBExecutor,
	action string,
	builder sqlBuilder,
	scan rowScanner[T],
) (T, error) {

	var empty T

	records, err := queryRows(ctx, e, db, action, builder, scan)
	if err != nil {
		return empty, err
	}

	if len(records) == 0 {
		return empty, relstore.ErrRecordNotFound
	}

	return records[0], nil
}

// closeRows safely closes database rows and logs any errors.
func (e Engine) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		e.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}

func scanBook(rows adapters.DBRows) (relstore.BookRecord, error) {
	var book relstore.BookRecord
	err := rows.Scan(&book.ID, &book.Title, &book.Author, &book.Genre, &book.Available, &book.HolderID)

	return book, err
}

func scanBorrower(rows adapters.DBRows) (relstore.BorrowerRecord, error) {
	var borrower relstore.BorrowerRecord
	err := rows.Scan(&borrower.ID, &borrower.Name, &borrower.Email, &borrower.IssuedBookCount)

	return borrower, err
}

func scanLoan(rows adapters.DBRows) (relstore.LoanRecord, error) {
	var loan relstore.LoanRecord
	if err := rows.Scan(
		&loan.SerialNo, &loan.BookID, &loan.BookTitle, &loan.BorrowerID, &loan.IssueDate, &loan.DueDate,
	); err != nil {
		return relstore.LoanRecord{}, err
	}

	loan.IssueDate = loan.IssueDate.UTC()
	loan.DueDate = loan.DueDate.UTC()

	return loan, nil
}

func scanOverdueLoan(rows adapters.DBRows) (relstore.OverdueLoanRecord, error) {
	var loan relstore.OverdueLoanRecord
	if err := rows.Scan(
		&loan.SerialNo, &loan.BookID, &loan.BookTitle, &loan.BorrowerID, &loan.IssueDate, &loan.DueDate,
		&loan.BorrowerEmail,
	); err != nil {
		return relstore.OverdueLoanRecord{}, err
	}

	loan.IssueDate = loan.IssueDate.UTC()
	loan.DueDate = loan.DueDate.UTC()

	return loan, nil
}
