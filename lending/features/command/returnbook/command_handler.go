package returnbook

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/shell"
	"github.com/AntonStoeckl/library-lending-go/relstore"
)

// Result is the outcome of a successful return.
type Result struct {
	shell.HandlerResult

	Loan        core.Loan
	OverdueDays int
	Fine        core.Fine
}

// CommandHandler orchestrates the return workflow with pure business logic and retry.
// External wrappers handle all observability concerns.
type CommandHandler struct {
	store        shell.RunsUnitsOfWork
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(store shell.RunsUnitsOfWork, opts ...Option) CommandHandler {
	handler := CommandHandler{
		store: store,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the command with retry on concurrency conflicts.
// The result carries the closed loan and the fine due for it.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, error) {
	var loan core.Loan

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		closed, execErr := h.executeCommand(retryCtx, command)
		loan = closed

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return Result{HandlerResult: shell.NewErrorResult(retryMetrics)}, err
	}

	return Result{
		HandlerResult: shell.NewSuccessResult(retryMetrics),
		Loan:          loan,
		OverdueDays:   core.OverdueDays(loan.DueDate, command.ReturnedAt),
		Fine:          core.CalculateFine(loan.DueDate, command.ReturnedAt),
	}, nil
}

// executeCommand contains the return unit of work that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.Loan, error) {
	var loan core.Loan

	err := h.store.WithinUnitOfWork(ctx, func(ctx context.Context, uow relstore.UnitOfWork) error {
		// Read phase
		state, err := readState(ctx, uow, command)
		if err != nil {
			return err
		}

		// Decide phase
		result := Decide(state, command)
		if err := result.HasError(); err != nil {
			return err
		}

		// Write phase, every statement keyed on the loan's own borrower
		loan = *state.Loan

		if err := uow.MarkBookReturned(ctx, loan.BookID, loan.BorrowerID); err != nil {
			return err
		}

		if err := uow.DecrementIssuedBookCount(ctx, loan.BorrowerID); err != nil {
			return err
		}

		return uow.DeleteLoan(ctx, loan.BookID, loan.BorrowerID)
	})

	if err != nil {
		return core.Loan{}, err
	}

	return loan, nil
}

func readState(ctx context.Context, uow relstore.UnitOfWork, command Command) (State, error) {
	var state State

	bookRecord, err := uow.FindBook(ctx, command.BookID)
	switch {
	case err == nil:
		book := shell.BookFromRecord(bookRecord)
		state.Book = &book
	case errors.Is(err, relstore.ErrRecordNotFound):
		return state, nil
	default:
		return State{}, err
	}

	if state.Book.Available {
		return state, nil
	}

	loanRecord, err := uow.FindLoanByBook(ctx, command.BookID)
	switch {
	case err == nil:
		loan := shell.LoanFromRecord(loanRecord)
		state.Loan = &loan
	case !errors.Is(err, relstore.ErrRecordNotFound):
		return State{}, err
	}

	return state, nil
}
