package lendbook

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/registerborrower"
	"github.com/AntonStoeckl/library-lending-go/lending/shell"
	"github.com/AntonStoeckl/library-lending-go/relstore"
)

// Store defines what the CommandHandler needs from the relational store.
type Store interface {
	shell.RunsUnitsOfWork
	FindBorrower(ctx context.Context, borrowerID int64) (relstore.BorrowerRecord, error)
}

// Registrar registers a borrower, idempotently.
type Registrar interface {
	Handle(ctx context.Context, command registerborrower.Command) (shell.HandlerResult, error)
}

// BorrowerDetails is what a new borrower has to tell the library.
type BorrowerDetails struct {
	Name  string
	Email string
}

// BorrowerDetailsProvider asks for the details of a borrower that is not registered yet.
// Returning an error aborts the lend before anything is written.
type BorrowerDetailsProvider func(ctx context.Context, borrowerID core.BorrowerID) (BorrowerDetails, error)

// Result is the outcome of a successful lend.
type Result struct {
	shell.HandlerResult

	Loan core.Loan

	// Registered is true when the borrower was registered as part of this lend.
	Registered bool
}

// CommandHandler orchestrates the lend workflow with pure business logic and retry.
// External wrappers handle all observability concerns.
type CommandHandler struct {
	store        Store
	registrar    Registrar
	provider     BorrowerDetailsProvider
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the lend unit of work.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// WithRegistrar replaces the registrar used for unknown borrowers.
// By default a registerborrower.CommandHandler on the same store is used.
func WithRegistrar(registrar Registrar) Option {
	return func(h *CommandHandler) {
		h.registrar = registrar
	}
}

// WithBorrowerDetailsProvider makes the handler register unknown borrowers with the details from provider.
// Without a provider an unknown borrower is rejected with NotFound.
func WithBorrowerDetailsProvider(provider BorrowerDetailsProvider) Option {
	return func(h *CommandHandler) {
		h.provider = provider
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(store Store, opts ...Option) CommandHandler {
	handler := CommandHandler{
		store:     store,
		registrar: registerborrower.NewCommandHandler(store),
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// WithProvider returns a copy of the handler that asks provider for the details of unknown borrowers.
func (h CommandHandler) WithProvider(provider BorrowerDetailsProvider) CommandHandler {
	h.provider = provider
	return h
}

// Handle registers an unknown borrower if a provider is configured, then lends the book with retry
// on concurrency conflicts. Rejections are returned as *core.Rejection errors.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, error) {
	registered, err := h.ensureRegistered(ctx, command.BorrowerID)
	if err != nil {
		return Result{}, err
	}

	var loan core.Loan

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		lent, execErr := h.executeCommand(retryCtx, command)
		loan = lent

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return Result{HandlerResult: shell.NewErrorResult(retryMetrics), Registered: registered}, err
	}

	return Result{
		HandlerResult: shell.NewSuccessResult(retryMetrics),
		Loan:          loan,
		Registered:    registered,
	}, nil
}

// ensureRegistered registers the borrower when they are unknown and a provider is configured.
// It reports whether a registration happened.
func (h CommandHandler) ensureRegistered(ctx context.Context, borrowerID core.BorrowerID) (bool, error) {
	if h.provider == nil {
		return false, nil
	}

	_, err := h.store.FindBorrower(ctx, borrowerID)
	if err == nil {
		return false, nil
	}

	if !errors.Is(err, relstore.ErrRecordNotFound) {
		return false, err
	}

	details, err := h.provider(ctx, borrowerID)
	if err != nil {
		return false, err
	}

	result, err := h.registrar.Handle(ctx, registerborrower.BuildCommand(borrowerID, details.Name, details.Email))
	if err != nil {
		return false, err
	}

	return !result.Idempotent, nil
}

// executeCommand contains the lend unit of work that can be retried.
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

		// Write phase
		loan = core.BuildLoan(*state.Book, command.BorrowerID, command.IssuedAt)

		if err := uow.MarkBookLent(ctx, command.BookID, command.BorrowerID); err != nil {
			return err
		}

		if err := uow.InsertLoan(ctx, shell.RecordFromLoan(loan)); err != nil {
			return err
		}

		return uow.IncrementIssuedBookCount(ctx, command.BorrowerID, core.MaxActiveLoans)
	})

	if err != nil {
		return core.Loan{}, err
	}

	return loan, nil
}

func readState(ctx context.Context, uow relstore.UnitOfWork, command Command) (State, error) {
	var state State

	borrowerRecord, err := uow.FindBorrower(ctx, command.BorrowerID)
	switch {
	case err == nil:
		borrower := shell.BorrowerFromRecord(borrowerRecord)
		state.Borrower = &borrower
	case !errors.Is(err, relstore.ErrRecordNotFound):
		return State{}, err
	}

	bookRecord, err := uow.FindBook(ctx, command.BookID)
	switch {
	case err == nil:
		book := shell.BookFromRecord(bookRecord)
		state.Book = &book
	case !errors.Is(err, relstore.ErrRecordNotFound):
		return State{}, err
	}

	return state, nil
}
