// Package availablebooks implements the Available Books report.
//
// It lists every book that is on the shelf, ordered by id, and never writes anything.
package availablebooks
