package addbook

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
// Rejections are returned as *core.Rejection errors.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		return h.executeCommand(retryCtx, command)
	}, h.retryOptions...)

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	return shell.NewSuccessResult(retryMetrics), nil
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) error {
	return h.store.WithinUnitOfWork(ctx, func(ctx context.Context, uow relstore.UnitOfWork) error {
		// Read phase
		_, findErr := uow.FindBook(ctx, command.BookID)
		if findErr != nil && !errors.Is(findErr, relstore.ErrRecordNotFound) {
			return findErr
		}

		// Decide phase
		result := Decide(State{BookExists: findErr == nil}, command)
		if err := result.HasError(); err != nil {
			return err
		}

		// Write phase
		return uow.InsertBook(ctx, shell.RecordFromBook(BookFrom(command)))
	})
}
