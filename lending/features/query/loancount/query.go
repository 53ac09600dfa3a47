package loancount

import (
	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

const (
	queryType = "LoanCount"
)

// Query represents the intent to know how many books a borrower holds.
type Query struct {
	BorrowerID core.BorrowerID
}

// BuildQuery creates a new Query.
func BuildQuery(borrowerID core.BorrowerID) Query {
	return Query{BorrowerID: borrowerID}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
