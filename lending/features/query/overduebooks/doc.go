// Package overduebooks implements the Overdue Books report.
//
// A loan is overdue once the calendar day after its due day has begun. The report joins each overdue
// loan with the borrower's email address for the reminder, and adds the days overdue and the fine
// accrued so far as of the query's instant. Nothing is stored; the report is computed on demand.
package overduebooks
