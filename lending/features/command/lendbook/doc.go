// Package lendbook implements the Lend use case of the loan manager.
//
// Lending runs in two steps. An unknown borrower is registered first, with the name and email address
// asked from a BorrowerDetailsProvider; that registration is committed on its own and stays even when
// the lend is rejected afterwards. The lend itself is one unit of work that checks the borrower's
// capacity and the book's availability and then, each write guarded by compare-and-set, marks the book
// lent, records the loan with its title snapshot, and raises the borrower's loan count.
//
// Whatever fails first wins: the registration, the capacity check, the availability check.
package lendbook
