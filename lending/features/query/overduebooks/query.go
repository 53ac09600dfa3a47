package overduebooks

import (
	"time"
)

const (
	queryType = "OverdueBooks"
)

// Query represents the intent to list the loans that are overdue at AsOf.
// The location of AsOf decides where calendar days begin.
type Query struct {
	AsOf time.Time
}

// BuildQuery creates a new Query.
func BuildQuery(asOf time.Time) Query {
	return Query{AsOf: asOf}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
