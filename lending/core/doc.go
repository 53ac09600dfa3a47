// Package core contains the entities and the business rules of the library lending desk.
//
// Everything in this package is pure: no I/O, no clocks, no store access. The rules for
// due dates, overdue days and fines, the lending limit, input validation, and the typed
// rejections that the features return live here, so the command handlers only have to
// load state, call a Decide function, and write what it decided.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'domain' layer.
package core
