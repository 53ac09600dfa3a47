// Package returnbook implements the Return use case of the loan manager.
//
// A return closes the open loan of a book in one unit of work: the book goes back on the shelf,
// the borrower's loan count goes down by one, and the loan row is deleted, each write guarded by
// compare-and-set on the loan's own borrower. The fine for a late return is computed from the due
// date and the return day and reported to the caller; it is never stored.
package returnbook
