// Package removebook implements the Remove Book use case of the catalog.
//
// Only a book that is on the shelf can leave the catalog. The delete is guarded by the availability
// the decision was made on, so a lend that commits in between turns the removal into a concurrency conflict.
package removebook
