// Package issuedbooks implements the Issued Books report.
//
// It lists every open loan with the title it was issued under, ordered by due date.
package issuedbooks
