// Package addbook implements the Add Book use case of the catalog.
//
// A book is one physical copy with an id the librarian assigns. It enters the catalog available
// and without a holder. The handler follows the Read-Decide-Write pattern inside one unit of work:
// the pure Decide function rejects an id that is already taken and data that does not fit the catalog.
//
// Two librarians adding the same id at the same time are resolved by the primary key: the loser's
// insert surfaces as a concurrency conflict, is retried, and then reads the winner's row.
package addbook
