package searchbooks

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AntonStoeckl/library-lending-go/relstore"
)

const (
	queryType = "SearchBooks"
)

// Field selects what the term is matched against.
type Field = relstore.SearchField

const (
	ByTitle  = relstore.SearchByTitle
	ByAuthor = relstore.SearchByAuthor
	ByGenre  = relstore.SearchByGenre
	ByAny    = relstore.SearchByAny
)

var (
	// ErrUnknownField is returned when a search field name is not one of title, author, genre, any.
	ErrUnknownField = errors.New("unknown search field")

	// ErrEmptyTerm is returned when the search term is empty.
	ErrEmptyTerm = errors.New("search term must not be empty")
)

// Query represents the intent to find books by a part of their title, author, or genre.
type Query struct {
	Field Field
	Term  string
}

// BuildQuery creates a new Query after checking field and term.
func BuildQuery(field Field, term string) (Query, error) {
	if !field.IsValid() {
		return Query{}, fmt.Errorf("%w: %q", ErrUnknownField, string(field))
	}

	term = strings.TrimSpace(term)
	if term == "" {
		return Query{}, ErrEmptyTerm
	}

	return Query{Field: field, Term: term}, nil
}

// ParseField maps a field name, in any case, to a Field. An empty name means ByAny.
func ParseField(name string) (Field, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ByAny, nil
	}

	field := Field(name)
	if !field.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	return field, nil
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
