package activeborrowers

import (
	"context"

	"github.com/AntonStoeckl/library-lending-go/relstore"
)

// Store defines the interface needed by the QueryHandler.
type Store interface {
	ActiveBorrowers(ctx context.Context) ([]relstore.BorrowerRecord, error)
}

// QueryHandler runs the report against the store. External wrappers handle all observability concerns.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle reads the active borrowers and projects them into the report.
func (h QueryHandler) Handle(ctx context.Context, _ Query) (ActiveBorrowers, error) {
	records, err := h.store.ActiveBorrowers(ctx)
	if err != nil {
		return ActiveBorrowers{}, err
	}

	return ProjectActiveBorrowers(records), nil
}
