// Package registerborrower implements the Ensure Registered use case of the borrower registry.
//
// Registering a borrower that already exists is a no-op reported as an idempotent result, so the
// lend flow can call it unconditionally. A new borrower needs a name, a valid email address, and an
// email address nobody else is registered with.
package registerborrower
