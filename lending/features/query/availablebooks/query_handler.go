package availablebooks

import (
	"context"

	"github.com/AntonStoeckl/library-lending-go/relstore"
)

// Store defines the interface needed by the QueryHandler.
type Store interface {
	AvailableBooks(ctx context.Context) ([]relstore.BookRecord, error)
}

// QueryHandler runs the report against the store. External wrappers handle all observability concerns.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle reads the available books and projects them into the report.
func (h QueryHandler) Handle(ctx context.Context, _ Query) (AvailableBooks, error) {
	records, err := h.store.AvailableBooks(ctx)
	if err != nil {
		return AvailableBooks{}, err
	}

	return ProjectAvailableBooks(records), nil
}
