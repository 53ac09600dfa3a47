package core

import (
	"math"
	"time"
)

// Fine is an amount in whole currency units.
type Fine int

// FinePerDay is charged for every calendar day a book is returned late.
const FinePerDay Fine = 5

// DueDateFor returns the due date of a loan issued at issueDate.
// The days are added in the location of issueDate, so the due day is 15 calendar days after the
// issue day on the lending desk's calendar.
func DueDateFor(issueDate time.Time) time.Time {
	return issueDate.AddDate(0, 0, LoanPeriodDays)
}

// OverdueDays counts the calendar days between the due day and the return day,
// both taken in the location of returnedAt. Returning on or before the due day yields 0.
func OverdueDays(dueDate, returnedAt time.Time) int {
	dueDay := CalendarDay(dueDate, returnedAt.Location())
	returnDay := CalendarDay(returnedAt, returnedAt.Location())

	if !returnDay.After(dueDay) {
		return 0
	}

	// Rounding absorbs the 23 and 25 hour days around DST changes.
	return int(math.Round(returnDay.Sub(dueDay).Hours() / 24))
}

// CalculateFine returns the fine for returning a book due at dueDate at returnedAt.
func CalculateFine(dueDate, returnedAt time.Time) Fine {
	return Fine(OverdueDays(dueDate, returnedAt)) * FinePerDay
}

// IsOverdue reports whether a loan due at dueDate is overdue at now.
func IsOverdue(dueDate, now time.Time) bool {
	return OverdueDays(dueDate, now) > 0
}

// OverdueCutoff returns the instant before which a due date makes a loan overdue at now:
// the start of now's calendar day.
func OverdueCutoff(now time.Time) time.Time {
	return startOfDay(now)
}

// CalendarDay returns the start of the day t falls on in loc.
// Due dates shown to the operator must be taken from the same calendar that fines are counted on.
func CalendarDay(t time.Time, loc *time.Location) time.Time {
	return startOfDay(t.In(loc))
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
