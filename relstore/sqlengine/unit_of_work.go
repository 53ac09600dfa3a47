package sqlengine

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/library-lending-go/relstore"
	"github.com/AntonStoeckl/library-lending-go/relstore/sqlengine/internal/adapters"
)

const (
	actionFindBook            = "find_book"
	actionInsertBook          = "insert_book"
	actionDeleteBook          = "delete_book"
	actionMarkBookLent        = "mark_book_lent"
	actionMarkBookReturned    = "mark_book_returned"
	actionFindBorrower        = "find_borrower"
	actionFindBorrowerByEmail = "find_borrower_by_email"
	actionInsertBorrower      = "insert_borrower"
	actionIncrementLoanCount  = "increment_issued_book_count"
	actionDecrementLoanCount  = "decrement_issued_book_count"
	actionFindLoan            = "find_loan"
	actionInsertLoan          = "insert_loan"
	actionDeleteLoan          = "delete_loan"
)

// unitOfWork binds the engine's statements to one open transaction.
type unitOfWork struct {
	engine Engine
	tx     adapters.DBTx
}

func (u unitOfWork) FindBook(ctx context.Context, bookID int64) (relstore.BookRecord, error) {
	return u.engine.findBook(ctx, u.tx, bookID)
}

func (u unitOfWork) InsertBook(ctx context.Context, book relstore.BookRecord) error {
	_, err := u.engine.exec(ctx, u.tx, actionInsertBook, u.engine.buildInsertBook(book))
	return err
}

func (u unitOfWork) DeleteAvailableBook(ctx context.Context, bookID int64) error {
	return u.engine.execExpectingOneRow(ctx, u.tx, actionDeleteBook, u.engine.buildDeleteAvailableBook(bookID))
}

func (u unitOfWork) MarkBookLent(ctx context.Context, bookID int64, borrowerID int64) error {
	return u.engine.execExpectingOneRow(ctx, u.tx, actionMarkBookLent, u.engine.buildMarkBookLent(bookID, borrowerID))
}

func (u unitOfWork) MarkBookReturned(ctx context.Context, bookID int64, borrowerID int64) error {
	return u.engine.execExpectingOneRow(ctx, u.tx, actionMarkBookReturned, u.engine.buildMarkBookReturned(bookID, borrowerID))
}

func (u unitOfWork) FindBorrower(ctx context.Context, borrowerID int64) (relstore.BorrowerRecord, error) {
	return u.engine.findBorrower(ctx, u.tx, borrowerID)
}

func (u unitOfWork) FindBorrowerByEmail(ctx context.Context, email string) (relstore.BorrowerRecord, error) {
	return queryOne(ctx, u.engine, u.tx, actionFindBorrowerByEmail,
		u.engine.selectBorrowers().Where(goqu.C(colEmail).Eq(email)),
		scanBorrower,
	)
}

func (u unitOfWork) InsertBorrower(ctx context.Context, borrower relstore.BorrowerRecord) error {
	_, err := u.engine.exec(ctx, u.tx, actionInsertBorrower, u.engine.buildInsertBorrower(borrower))
	return err
}

func (u unitOfWork) IncrementIssuedBookCount(ctx context.Context, borrowerID int64, limit int) error {
	return u.engine.execExpectingOneRow(ctx, u.tx, actionIncrementLoanCount,
		u.engine.buildIncrementIssuedBookCount(borrowerID, limit),
	)
}

func (u unitOfWork) DecrementIssuedBookCount(ctx context.Context, borrowerID int64) error {
	return u.engine.execExpectingOneRow(ctx, u.tx, actionDecrementLoanCount,
		u.engine.buildDecrementIssuedBookCount(borrowerID),
	)
}

func (u unitOfWork) FindLoanByBook(ctx context.Context, bookID int64) (relstore.LoanRecord, error) {
	return queryOne(ctx, u.engine, u.tx, actionFindLoan,
		u.engine.selectLoans().Where(goqu.C(colBookID).Eq(bookID)),
		scanLoan,
	)
}

func (u unitOfWork) InsertLoan(ctx context.Context, loan relstore.LoanRecord) error {
	_, err := u.engine.exec(ctx, u.tx, actionInsertLoan, u.engine.buildInsertLoan(loan))
	return err
}

func (u unitOfWork) DeleteLoan(ctx context.Context, bookID int64, borrowerID int64) error {
	return u.engine.execExpectingOneRow(ctx, u.tx, actionDeleteLoan, u.engine.buildDeleteLoan(bookID, borrowerID))
}

func (e Engine) findBook(ctx context.Context, db adapters.DBExecutor, bookID int64) (relstore.BookRecord, error) {
	return queryOne(ctx, e, db, actionFindBook, e.selectBooks().Where(goqu.C(colID).Eq(bookID)), scanBook)
}

func (e Engine) findBorrower(ctx context.Context, db adapters.DBExecutor, borrowerID int64) (relstore.BorrowerRecord, error) {
	return queryOne(ctx, e, db, actionFindBorrower, e.selectBorrowers().Where(goqu.C(colID).Eq(borrowerID)), scanBorrower)
}

var (
	_ relstore.UnitOfWork = unitOfWork{}
	_ relstore.Reader     = Engine{}
)
