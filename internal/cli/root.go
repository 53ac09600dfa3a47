package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-lending-go/lending/shell/config"
	"github.com/AntonStoeckl/library-lending-go/relstore/sqlengine"
)

// app is the state shared by the root command and its subcommands.
// It is filled in by the persistent pre-run hook and released when Run returns.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	now    func() time.Time

	flagConfig  string
	flagVerbose bool
	flagNoColor bool

	cfg      *config.Config
	logger   *slog.Logger
	store    config.Store
	handlers Handlers
	closers  []func(ctx context.Context) error
}

// RunOption configures Run.
type RunOption func(*app)

// RunWithClock sets the clock used for issue, return, and overdue dates.
func RunWithClock(now func() time.Time) RunOption {
	return func(a *app) {
		a.now = now
	}
}

// Execute is the entry point called from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()

	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

// Run executes the librarian command line given by args, reading from in and writing to out and errOut.
// The store and the telemetry are released before it returns, also on failure.
func Run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer, opts ...RunOption) error {
	a := &app{in: in, out: out, errOut: errOut, now: time.Now}

	for _, opt := range opts {
		opt(a)
	}

	rootCmd := a.newRootCmd()
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)

	return errors.Join(err, a.tearDown(ctx))
}

func (a *app) newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "librarian",
		Short: "Lend books to borrowers and keep the catalog of a small library",
		Long: `librarian manages the books, borrowers, and loans of a small library in a relational database.

Run 'librarian' with no arguments to start the interactive menu.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runMenu(cmd.Context())
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.flagNoColor {
				color.NoColor = true
			}

			return a.setUp(cmd.Context(), needsStore(cmd))
		},
	}

	rootCmd.SetIn(a.in)
	rootCmd.SetOut(a.out)
	rootCmd.SetErr(a.errOut)

	rootCmd.PersistentFlags().StringVar(&a.flagConfig, "config", "",
		"Config file path (default: $LIBRARIAN_CONFIG or ~/.config/librarian/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&a.flagVerbose, "verbose", "v", false, "Log to stderr as well")
	rootCmd.PersistentFlags().BoolVar(&a.flagNoColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		a.newAddBookCmd(),
		a.newRemoveBookCmd(),
		a.newLendCmd(),
		a.newReturnCmd(),
		a.newSearchCmd(),
		a.newAvailableCmd(),
		a.newIssuedCmd(),
		a.newOverdueCmd(),
		a.newActiveBorrowersCmd(),
		a.newLoanCountCmd(),
		a.newSetupCmd(),
		a.newInitConfigCmd(),
		a.newMenuCmd(),
	)

	return rootCmd
}

// setUp loads the configuration and, when withStore is set, builds the logger, the telemetry,
// the store, and the handlers.
func (a *app) setUp(ctx context.Context, withStore bool) error {
	cfg, err := config.Load(a.flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	a.cfg = cfg

	if !withStore {
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	var instruments Instruments
	var extraHandlers []slog.Handler

	if cfg.Observability.Enabled {
		telemetry, err := config.NewTelemetry(ctx, cfg.Observability)
		if err != nil {
			return fmt.Errorf("starting telemetry: %w", err)
		}

		a.closers = append(a.closers, telemetry.Shutdown)
		instruments.Metrics = telemetry.MetricsCollector()
		instruments.Tracing = telemetry.TracingCollector()
		extraHandlers = append(extraHandlers, telemetry.LogHandler())
	}

	logger, logCloser, err := config.NewLogger(cfg.Log, a.flagVerbose, a.errOut, extraHandlers...)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}

	a.logger = logger
	instruments.Logger = logger
	a.closers = append(a.closers, func(context.Context) error { return logCloser.Close() })

	engineOptions := []sqlengine.Option{sqlengine.WithContextualLogger(logger)}
	if instruments.Metrics != nil {
		engineOptions = append(engineOptions, sqlengine.WithMetrics(instruments.Metrics))
	}
	if instruments.Tracing != nil {
		engineOptions = append(engineOptions, sqlengine.WithTracing(instruments.Tracing))
	}

	store, err := config.OpenStore(ctx, cfg.Database, engineOptions...)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	a.store = store
	a.closers = append(a.closers, func(context.Context) error { return store.Close() })

	if a.handlers, err = NewHandlers(store.Engine, cfg.Retry, instruments); err != nil {
		return fmt.Errorf("building handlers: %w", err)
	}

	return nil
}

// needsStore is false for the commands that work without a database connection.
func needsStore(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "init-config", "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}

	return true
}

// tearDown releases everything setUp acquired, in reverse order.
func (a *app) tearDown(ctx context.Context) error {
	var errs []error

	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](context.WithoutCancel(ctx)))
	}

	a.closers = nil

	return errors.Join(errs...)
}

func (a *app) desk() desk {
	return desk{
		handlers: a.handlers,
		print:    printer{out: a.out, err: a.errOut},
		timeout:  a.cfg.OperationTimeout,
		now:      a.now,
	}
}

func (a *app) runMenu(ctx context.Context) error {
	menu := NewMenu(a.handlers, a.in, a.out, a.errOut,
		WithClock(a.now),
		WithOperationTimeout(a.cfg.OperationTimeout),
	)

	return menu.Run(ctx)
}
