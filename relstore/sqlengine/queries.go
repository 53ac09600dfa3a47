package sqlengine

import (
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/AntonStoeckl/library-lending-go/relstore"
)

func (e Engine) selectBooks() *goqu.SelectDataset {
	return e.dialect.builder().
		From(e.tables.Books).
		Prepared(true).
		Select(colID, colTitle, colAuthor, colGenre, colAvailable, colUserID)
}

func (e Engine) selectBorrowers() *goqu.SelectDataset {
	return e.dialect.builder().
		From(e.tables.Borrowers).
		Prepared(true).
		Select(colID, colName, colEmail, colIssuedBookCount)
}

func (e Engine) selectLoans() *goqu.SelectDataset {
	return e.dialect.builder().
		From(e.tables.Loans).
		Prepared(true).
		Select(colSerialNo, colBookID, colIssuedBookTitle, colUserID, colIssueDate, colDueDate)
}

// availableIs compares the boolean column with a literal that all three dialects understand.
func availableIs(available bool) exp.Expression {
	if available {
		return goqu.L("? = TRUE", goqu.C(colAvailable))
	}

	return goqu.L("? = FALSE", goqu.C(colAvailable))
}

func (e Engine) buildInsertBook(book relstore.BookRecord) *goqu.InsertDataset {
	return e.dialect.builder().
		Insert(e.tables.Books).
		Prepared(true).
		Rows(goqu.Record{
			colID:        book.ID,
			colTitle:     book.Title,
			colAuthor:    book.Author,
			colGenre:     book.Genre,
			colAvailable: true,
		})
}

func (e Engine) buildDeleteAvailableBook(bookID int64) *goqu.DeleteDataset {
	return e.dialect.builder().
		Delete(e.tables.Books).
		Prepared(true).
		Where(goqu.C(colID).Eq(bookID), availableIs(true))
}

func (e Engine) buildMarkBookLent(bookID, borrowerID int64) *goqu.UpdateDataset {
	return e.dialect.builder().
		Update(e.tables.Books).
		Prepared(true).
		Set(goqu.Record{colAvailable: false, colUserID: borrowerID}).
		Where(goqu.C(colID).Eq(bookID), availableIs(true))
}

func (e Engine) buildMarkBookReturned(bookID, borrowerID int64) *goqu.UpdateDataset {
	return e.dialect.builder().
		Update(e.tables.Books).
		Prepared(true).
		Set(goqu.Record{colAvailable: true, colUserID: nil}).
		Where(goqu.C(colID).Eq(bookID), availableIs(false), goqu.C(colUserID).Eq(borrowerID))
}

func (e Engine) buildInsertBorrower(borrower relstore.BorrowerRecord) *goqu.InsertDataset {
	return e.dialect.builder().
		Insert(e.tables.Borrowers).
		Prepared(true).
		Rows(goqu.Record{
			colID:              borrower.ID,
			colName:            borrower.Name,
			colEmail:           borrower.Email,
			colIssuedBookCount: 0,
		})
}

func (e Engine) buildIncrementIssuedBookCount(borrowerID int64, limit int) *goqu.UpdateDataset {
	return e.dialect.builder().
		Update(e.tables.Borrowers).
		Prepared(true).
		Set(goqu.Record{colIssuedBookCount: goqu.L("? + 1", goqu.C(colIssuedBookCount))}).
		Where(goqu.C(colID).Eq(borrowerID), goqu.C(colIssuedBookCount).Lt(limit))
}

func (e Engine) buildDecrementIssuedBookCount(borrowerID int64) *goqu.UpdateDataset {
	return e.dialect.builder().
		Update(e.tables.Borrowers).
		Prepared(true).
		Set(goqu.Record{colIssuedBookCount: goqu.L("? - 1", goqu.C(colIssuedBookCount))}).
		Where(goqu.C(colID).Eq(borrowerID), goqu.C(colIssuedBookCount).Gt(0))
}

func (e Engine) buildInsertLoan(loan relstore.LoanRecord) *goqu.InsertDataset {
	return e.dialect.builder().
		Insert(e.tables.Loans).
		Prepared(true).
		Rows(goqu.Record{
			colBookID:          loan.BookID,
			colIssuedBookTitle: loan.BookTitle,
			colUserID:          loan.BorrowerID,
			colIssueDate:       loan.IssueDate.UTC(),
			colDueDate:         loan.DueDate.UTC(),
		})
}

func (e Engine) buildDeleteLoan(bookID, borrowerID int64) *goqu.DeleteDataset {
	return e.dialect.builder().
		Delete(e.tables.Loans).
		Prepared(true).
		Where(goqu.C(colBookID).Eq(bookID), goqu.C(colUserID).Eq(borrowerID))
}

func (e Engine) buildLoansDueBefore(cutoff time.Time) *goqu.SelectDataset {
	loans := goqu.T(e.tables.Loans).As(aliasLoans)
	borrowers := goqu.T(e.tables.Borrowers).As(aliasBorrowers)

	return e.dialect.builder().
		From(loans).
		Prepared(true).
		Join(borrowers, goqu.On(goqu.T(aliasLoans).Col(colUserID).Eq(goqu.T(aliasBorrowers).Col(colID)))).
		Select(
			goqu.T(aliasLoans).Col(colSerialNo),
			goqu.T(aliasLoans).Col(colBookID),
			goqu.T(aliasLoans).Col(colIssuedBookTitle),
			goqu.T(aliasLoans).Col(colUserID),
			goqu.T(aliasLoans).Col(colIssueDate),
			goqu.T(aliasLoans).Col(colDueDate),
			goqu.T(aliasBorrowers).Col(colEmail),
		).
		Where(goqu.T(aliasLoans).Col(colDueDate).Lt(cutoff.UTC())).
		Order(goqu.T(aliasLoans).Col(colDueDate).Asc(), goqu.T(aliasLoans).Col(colBookID).Asc())
}

// buildSearchBooks matches the term as a case-insensitive substring of the selected column(s).
func (e Engine) buildSearchBooks(field relstore.SearchField, term string) *goqu.SelectDataset {
	lowered := strings.ToLower(term)

	contains := func(column string) exp.Expression {
		return goqu.Func(e.dialect.positionFunc(), goqu.Func("LOWER", goqu.C(column)), lowered).Gt(0)
	}

	var where exp.Expression
	switch field {
	case relstore.SearchByTitle:
		where = contains(colTitle)
	case relstore.SearchByAuthor:
		where = contains(colAuthor)
	case relstore.SearchByGenre:
		where = contains(colGenre)
	default:
		where = goqu.Or(contains(colTitle), contains(colAuthor), contains(colGenre))
	}

	return e.selectBooks().Where(where).Order(goqu.C(colID).Asc())
}
