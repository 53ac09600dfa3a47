package overduebooks

import (
	"context"
	"time"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/relstore"
)

// Store defines the interface needed by the QueryHandler.
type Store interface {
	LoansDueBefore(ctx context.Context, cutoff time.Time) ([]relstore.OverdueLoanRecord, error)
}

// QueryHandler runs the report against the store. External wrappers handle all observability concerns.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle reads the loans due before the start of the query's day and projects them into the report.
func (h QueryHandler) Handle(ctx context.Context, query Query) (OverdueBooks, error) {
	records, err := h.store.LoansDueBefore(ctx, core.OverdueCutoff(query.AsOf))
	if err != nil {
		return OverdueBooks{}, err
	}

	return ProjectOverdueBooks(records, query.AsOf), nil
}
