package activeborrowers

const (
	queryType = "ActiveBorrowers"
)

// Query represents the intent to list the borrowers with books on loan.
type Query struct{}

// BuildQuery creates a new Query.
func BuildQuery() Query {
	return Query{}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
