package registerborrower

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/library-lending-go/lending/shell"
	"github.com/AntonStoeckl/library-lending-go/relstore"
)

// CommandHandler orchestrates the command processing workflow with pure business logic and retry.
// It runs Read -> Decide -> Write inside one unit of work. External wrappers handle all observability concerns.
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
// An already registered borrower yields an idempotent result.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	var isIdempotent bool

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		idempotent, execErr := h.executeCommand(retryCtx, command)
		isIdempotent = idempotent

		return execErr
	}, h.retryOptions...)

	if isIdempotent {
		return shell.NewIdempotentResult(retryMetrics), err
	}

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	return shell.NewSuccessResult(retryMetrics), nil
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (bool, error) {
	var isIdempotent bool

	err := h.store.WithinUnitOfWork(ctx, func(ctx context.Context, uow relstore.UnitOfWork) error {
		state, err := readState(ctx, uow, command)
		if err != nil {
			return err
		}

		result := Decide(state, command)
		if result.IsIdempotent() {
			isIdempotent = true
			return nil
		}

		if err := result.HasError(); err != nil {
			return err
		}

		return uow.InsertBorrower(ctx, shell.RecordFromBorrower(BorrowerFrom(command)))
	})

	return isIdempotent, err
}

func readState(ctx context.Context, uow relstore.UnitOfWork, command Command) (State, error) {
	var state State

	_, err := uow.FindBorrower(ctx, command.BorrowerID)
	switch {
	case err == nil:
		state.BorrowerExists = true
		return state, nil
	case !errors.Is(err, relstore.ErrRecordNotFound):
		return State{}, err
	}

	_, err = uow.FindBorrowerByEmail(ctx, command.Email)
	switch {
	case err == nil:
		state.EmailTaken = true
	case !errors.Is(err, relstore.ErrRecordNotFound):
		return State{}, err
	}

	return state, nil
}
