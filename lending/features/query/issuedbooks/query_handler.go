package issuedbooks

import (
	"context"

	"github.com/AntonStoeckl/library-lending-go/relstore"
)

// Store defines the interface needed by the QueryHandler.
type Store interface {
	IssuedLoans(ctx context.Context) ([]relstore.LoanRecord, error)
}

// QueryHandler runs the report against the store. External wrappers handle all observability concerns.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle reads the open loans and projects them into the report.
func (h QueryHandler) Handle(ctx context.Context, _ Query) (IssuedBooks, error) {
	records, err := h.store.IssuedLoans(ctx)
	if err != nil {
		return IssuedBooks{}, err
	}

	return ProjectIssuedBooks(records), nil
}
