// Package relstore provides the core abstractions of the relational store
// behind the library lending desk.
//
// This package defines the records exchanged with a store implementation,
// the unit of work through which all state transitions are written,
// the read-only reporting surface, and the common error definitions.
//
// Key types:
//   - UnitOfWork: transactional reads and compare-and-set writes for one operation
//   - Reader: side-effect-free reporting queries
//   - BookRecord, BorrowerRecord, LoanRecord, OverdueLoanRecord: rows as stored
//
// Common usage pattern:
//
//	err := store.WithinUnitOfWork(ctx, func(ctx context.Context, uow relstore.UnitOfWork) error {
//		book, err := uow.FindBook(ctx, bookID)
//		if err != nil {
//			return err
//		}
//
//		// decide based on the fresh state, then write with CAS guards
//		return uow.MarkBookLent(ctx, book.ID, borrowerID)
//	})
//
// A compare-and-set write that affects no rows returns ErrConcurrencyConflict and the whole
// unit of work is rolled back. Callers may retry the operation from the top.
package relstore
