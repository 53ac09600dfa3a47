// Package shell is the imperative shell around the lending core.
//
// It converts between store records and core entities, retries units of work that lost a race
// against a concurrent writer, and provides the observability helpers and handler contracts
// shared by all feature slices.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'infrastructure' layer.
package shell
