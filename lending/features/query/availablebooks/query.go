package availablebooks

const (
	queryType = "AvailableBooks"
)

// Query represents the intent to list the books that can be lent.
type Query struct{}

// BuildQuery creates a new Query.
func BuildQuery() Query {
	return Query{}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
