package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

const dateLayout = "2006-01-02"

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// printer writes operator-facing output.
type printer struct {
	out io.Writer
	err io.Writer
}

// ok prints a green success line.
func (p printer) ok(format string, a ...any) {
	_, _ = fmt.Fprintln(p.out, color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func (p printer) warn(format string, a ...any) {
	_, _ = fmt.Fprintln(p.out, color.YellowString("!"), fmt.Sprintf(format, a...))
}

// fail prints a red failure line on the error stream.
func (p printer) fail(format string, a ...any) {
	_, _ = fmt.Fprintln(p.err, color.RedString("✗"), fmt.Sprintf(format, a...))
}

// header prints a cyan section heading.
func (p printer) header(format string, a ...any) {
	_, _ = fmt.Fprintln(p.out, color.CyanString(fmt.Sprintf(format, a...)))
}

func (p printer) line(format string, a ...any) {
	_, _ = fmt.Fprintf(p.out, format+"\n", a...)
}

// table renders rows under headers, or prints empty when there are no rows.
func (p printer) table(empty string, headers []string, rows [][]string) {
	if len(rows) == 0 {
		p.line("%s", empty)
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			return cellStyle
		})

	p.line("%s", t.String())
}

// json writes v as indented JSON.
func (p printer) json(v any) error {
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}

	_, err = fmt.Fprintln(p.out, string(data))

	return err
}

// JSON views of the report rows.

type bookView struct {
	ID        core.BookID      `json:"id"`
	Title     string           `json:"title"`
	Author    string           `json:"author"`
	Genre     string           `json:"genre"`
	Available bool             `json:"available"`
	HolderID  *core.BorrowerID `json:"holder_id,omitempty"`
}

type loanView struct {
	BookID     core.BookID     `json:"book_id"`
	Title      string          `json:"title"`
	BorrowerID core.BorrowerID `json:"borrower_id"`
	IssueDate  time.Time       `json:"issue_date"`
	DueDate    time.Time       `json:"due_date"`
}

type overdueView struct {
	loanView
	BorrowerEmail string    `json:"borrower_email"`
	OverdueDays   int       `json:"overdue_days"`
	Fine          core.Fine `json:"fine"`
}

type borrowerView struct {
	ID              core.BorrowerID `json:"id"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	IssuedBookCount int             `json:"issued_book_count"`
}

func bookViews(books []core.Book) []bookView {
	views := make([]bookView, 0, len(books))
	for _, b := range books {
		views = append(views, bookView{
			ID: b.ID, Title: b.Title, Author: b.Author, Genre: b.Genre, Available: b.Available, HolderID: b.HolderID,
		})
	}

	return views
}

func toLoanView(l core.Loan, loc *time.Location) loanView {
	return loanView{
		BookID:     l.BookID,
		Title:      l.BookTitle,
		BorrowerID: l.BorrowerID,
		IssueDate:  l.IssueDate.In(loc),
		DueDate:    l.DueDate.In(loc),
	}
}

func loanViews(loans []core.Loan, loc *time.Location) []loanView {
	views := make([]loanView, 0, len(loans))
	for _, l := range loans {
		views = append(views, toLoanView(l, loc))
	}

	return views
}

func overdueViews(loans []core.OverdueLoan, loc *time.Location) []overdueView {
	views := make([]overdueView, 0, len(loans))
	for _, l := range loans {
		views = append(views, overdueView{
			loanView:      toLoanView(l.Loan, loc),
			BorrowerEmail: l.BorrowerEmail,
			OverdueDays:   l.OverdueDays,
			Fine:          l.FineSoFar,
		})
	}

	return views
}

func borrowerViews(borrowers []core.Borrower) []borrowerView {
	views := make([]borrowerView, 0, len(borrowers))
	for _, b := range borrowers {
		views = append(views, borrowerView{ID: b.ID, Name: b.Name, Email: b.Email, IssuedBookCount: b.ActiveLoanCount})
	}

	return views
}

// Table rows, with the columns the library desk is used to.

var (
	bookHeaders     = []string{"ID", "Title", "Author", "Genre"}
	loanHeaders     = []string{"Book ID", "Title", "Issue Date", "Due Date", "User ID"}
	overdueHeaders  = []string{"Book ID", "Title", "Due Date", "User ID", "User Email", "Days Overdue", "Fine"}
	borrowerHeaders = []string{"User ID", "Name", "Email", "Issued Book Count"}
)

func bookRows(books []core.Book) [][]string {
	rows := make([][]string, 0, len(books))
	for _, b := range books {
		rows = append(rows, []string{id(b.ID), b.Title, b.Author, b.Genre})
	}

	return rows
}

func loanRows(loans []core.Loan, loc *time.Location) [][]string {
	rows := make([][]string, 0, len(loans))
	for _, l := range loans {
		rows = append(rows, []string{
			id(l.BookID), l.BookTitle, day(l.IssueDate, loc), day(l.DueDate, loc), id(l.BorrowerID),
		})
	}

	return rows
}

func overdueRows(loans []core.OverdueLoan, loc *time.Location) [][]string {
	rows := make([][]string, 0, len(loans))
	for _, l := range loans {
		rows = append(rows, []string{
			id(l.BookID), l.BookTitle, day(l.DueDate, loc), id(l.BorrowerID), l.BorrowerEmail,
			strconv.Itoa(l.OverdueDays), strconv.Itoa(int(l.FineSoFar)),
		})
	}

	return rows
}

func borrowerRows(borrowers []core.Borrower) [][]string {
	rows := make([][]string, 0, len(borrowers))
	for _, b := range borrowers {
		rows = append(rows, []string{id(b.ID), b.Name, b.Email, strconv.Itoa(b.ActiveLoanCount)})
	}

	return rows
}

// day formats the calendar day of t in loc, the calendar overdue days and fines are counted on.
func day(t time.Time, loc *time.Location) string {
	return core.CalendarDay(t, loc).Format(dateLayout)
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}
