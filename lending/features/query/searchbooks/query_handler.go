package searchbooks

import (
	"context"

	"github.com/AntonStoeckl/library-lending-go/lending/shell"
	"github.com/AntonStoeckl/library-lending-go/relstore"
)

// Store defines the interface needed by the QueryHandler.
type Store interface {
	SearchBooks(ctx context.Context, field relstore.SearchField, term string) ([]relstore.BookRecord, error)
}

// QueryHandler runs the search against the store. External wrappers handle all observability concerns.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle runs the search. Use BuildQuery to get a valid Query.
func (h QueryHandler) Handle(ctx context.Context, query Query) (FoundBooks, error) {
	records, err := h.store.SearchBooks(ctx, query.Field, query.Term)
	if err != nil {
		return FoundBooks{}, err
	}

	books := shell.BooksFromRecords(records)

	return FoundBooks{
		Field: query.Field,
		Term:  query.Term,
		Books: books,
		Count: len(books),
	}, nil
}
