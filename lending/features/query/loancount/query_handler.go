package loancount

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/shell"
	"github.com/AntonStoeckl/library-lending-go/relstore"
)

// Store defines the interface needed by the QueryHandler.
type Store interface {
	FindBorrower(ctx context.Context, borrowerID int64) (relstore.BorrowerRecord, error)
}

// QueryHandler looks the borrower up in the store. External wrappers handle all observability concerns.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle returns the borrower's active loan count, or a NotFound rejection for an unknown borrower.
func (h QueryHandler) Handle(ctx context.Context, query Query) (LoanCount, error) {
	record, err := h.store.FindBorrower(ctx, query.BorrowerID)
	if errors.Is(err, relstore.ErrRecordNotFound) {
		return LoanCount{}, &core.Rejection{Kind: core.ErrNotFound, BorrowerID: query.BorrowerID}
	}

	if err != nil {
		return LoanCount{}, err
	}

	borrower := shell.BorrowerFromRecord(record)

	return LoanCount{
		Borrower:  borrower,
		Count:     borrower.ActiveLoanCount,
		Remaining: max(core.MaxActiveLoans-borrower.ActiveLoanCount, 0),
	}, nil
}
