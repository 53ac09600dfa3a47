package cli

import (
	"log/slog"

	"github.com/AntonStoeckl/library-lending-go/lending/features/command/addbook"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/lendbook"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/registerborrower"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/removebook"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/returnbook"
	"github.com/AntonStoeckl/library-lending-go/lending/features/query/activeborrowers"
	"github.com/AntonStoeckl/library-lending-go/lending/features/query/availablebooks"
	"github.com/AntonStoeckl/library-lending-go/lending/features/query/issuedbooks"
	"github.com/AntonStoeckl/library-lending-go/lending/features/query/loancount"
	"github.com/AntonStoeckl/library-lending-go/lending/features/query/overduebooks"
	"github.com/AntonStoeckl/library-lending-go/lending/features/query/searchbooks"
	"github.com/AntonStoeckl/library-lending-go/lending/shell"
	"github.com/AntonStoeckl/library-lending-go/lending/shell/config"
	"github.com/AntonStoeckl/library-lending-go/lending/shell/observable"
	"github.com/AntonStoeckl/library-lending-go/relstore/sqlengine"
)

// Instruments are the observability backends handed to every handler wrapper.
// Metrics and Tracing stay nil unless telemetry export is enabled.
type Instruments struct {
	Logger  *slog.Logger
	Metrics shell.MetricsCollector
	Tracing shell.TracingCollector
}

// Handlers holds the observable command and query handlers of all lending operations.
type Handlers struct {
	AddBook    shell.CommandHandler[addbook.Command, shell.HandlerResult]
	RemoveBook shell.CommandHandler[removebook.Command, shell.HandlerResult]
	ReturnBook shell.CommandHandler[returnbook.Command, returnbook.Result]

	AvailableBooks  shell.QueryHandler[availablebooks.Query, availablebooks.AvailableBooks]
	IssuedBooks     shell.QueryHandler[issuedbooks.Query, issuedbooks.IssuedBooks]
	OverdueBooks    shell.QueryHandler[overduebooks.Query, overduebooks.OverdueBooks]
	ActiveBorrowers shell.QueryHandler[activeborrowers.Query, activeborrowers.ActiveBorrowers]
	SearchBooks     shell.QueryHandler[searchbooks.Query, searchbooks.FoundBooks]
	LoanCount       shell.QueryHandler[loancount.Query, loancount.LoanCount]

	lend        lendbook.CommandHandler
	wrapOptions []observable.Option
}

// NewHandlers builds all handlers on store, with the retry settings of cfg, each wrapped for observability.
func NewHandlers(store sqlengine.Engine, retry config.RetryConfig, instruments Instruments) (Handlers, error) {
	wrapOptions := instruments.wrapOptions()

	var err error
	h := Handlers{wrapOptions: wrapOptions}

	if h.AddBook, err = observable.NewCommandWrapper[addbook.Command, shell.HandlerResult](
		addbook.NewCommandHandler(store,
			addbook.WithRetryOptions(retryOptions(retry, instruments, addbook.Command{}.CommandType())...)),
		wrapOptions...,
	); err != nil {
		return Handlers{}, err
	}

	if h.RemoveBook, err = observable.NewCommandWrapper[removebook.Command, shell.HandlerResult](
		removebook.NewCommandHandler(store,
			removebook.WithRetryOptions(retryOptions(retry, instruments, removebook.Command{}.CommandType())...)),
		wrapOptions...,
	); err != nil {
		return Handlers{}, err
	}

	if h.ReturnBook, err = observable.NewCommandWrapper[returnbook.Command, returnbook.Result](
		returnbook.NewCommandHandler(store,
			returnbook.WithRetryOptions(retryOptions(retry, instruments, returnbook.Command{}.CommandType())...)),
		wrapOptions...,
	); err != nil {
		return Handlers{}, err
	}

	registrar, err := observable.NewCommandWrapper[registerborrower.Command, shell.HandlerResult](
		registerborrower.NewCommandHandler(store,
			registerborrower.WithRetryOptions(
				retryOptions(retry, instruments, registerborrower.Command{}.CommandType())...)),
		wrapOptions...,
	)
	if err != nil {
		return Handlers{}, err
	}

	h.lend = lendbook.NewCommandHandler(store,
		lendbook.WithRegistrar(registrar),
		lendbook.WithRetryOptions(retryOptions(retry, instruments, lendbook.Command{}.CommandType())...),
	)

	if h.AvailableBooks, err = observable.NewQueryWrapper[availablebooks.Query, availablebooks.AvailableBooks](
		availablebooks.NewQueryHandler(store), wrapOptions...,
	); err != nil {
		return Handlers{}, err
	}

	if h.IssuedBooks, err = observable.NewQueryWrapper[issuedbooks.Query, issuedbooks.IssuedBooks](
		issuedbooks.NewQueryHandler(store), wrapOptions...,
	); err != nil {
		return Handlers{}, err
	}

	if h.OverdueBooks, err = observable.NewQueryWrapper[overduebooks.Query, overduebooks.OverdueBooks](
		overduebooks.NewQueryHandler(store), wrapOptions...,
	); err != nil {
		return Handlers{}, err
	}

	if h.ActiveBorrowers, err = observable.NewQueryWrapper[activeborrowers.Query, activeborrowers.ActiveBorrowers](
		activeborrowers.NewQueryHandler(store), wrapOptions...,
	); err != nil {
		return Handlers{}, err
	}

	if h.SearchBooks, err = observable.NewQueryWrapper[searchbooks.Query, searchbooks.FoundBooks](
		searchbooks.NewQueryHandler(store), wrapOptions...,
	); err != nil {
		return Handlers{}, err
	}

	if h.LoanCount, err = observable.NewQueryWrapper[loancount.Query, loancount.LoanCount](
		loancount.NewQueryHandler(store), wrapOptions...,
	); err != nil {
		return Handlers{}, err
	}

	return h, nil
}

// Lend returns the observable lend handler. With a non-nil provider unknown borrowers are registered
// with the details it supplies; without one they are rejected.
func (h Handlers) Lend(provider lendbook.BorrowerDetailsProvider) (shell.CommandHandler[lendbook.Command, lendbook.Result], error) {
	return observable.NewCommandWrapper[lendbook.Command, lendbook.Result](h.lend.WithProvider(provider), h.wrapOptions...)
}

func (i Instruments) wrapOptions() []observable.Option {
	var opts []observable.Option

	if i.Logger != nil {
		opts = append(opts, observable.WithContextualLogging(i.Logger))
	}

	if i.Metrics != nil {
		opts = append(opts, observable.WithMetrics(i.Metrics))
	}

	if i.Tracing != nil {
		opts = append(opts, observable.WithTracing(i.Tracing))
	}

	return opts
}

func retryOptions(retry config.RetryConfig, instruments Instruments, commandType string) []shell.RetryOption {
	opts := []shell.RetryOption{
		shell.WithMaxAttempts(retry.MaxAttempts),
		shell.WithBaseDelay(retry.BaseDelay),
	}

	if instruments.Metrics != nil {
		opts = append(opts, shell.WithMetrics(instruments.Metrics, commandType))
	}

	return opts
}
