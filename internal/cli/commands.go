package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/lendbook"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/returnbook"
	"github.com/AntonStoeckl/library-lending-go/lending/features/query/searchbooks"
	"github.com/AntonStoeckl/library-lending-go/lending/shell/config"
)

func (a *app) newAddBookCmd() *cobra.Command {
	var title, author, genre string

	cmd := &cobra.Command{
		Use:     "add-book <book-id>",
		Short:   "Add a book to the catalog",
		Example: `  librarian add-book 7 --title "Dune" --author "Frank Herbert" --genre "Science Fiction"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID, err := parseID(args[0], "book id")
			if err != nil {
				return err
			}

			return a.desk().addBook(cmd.Context(), bookID, title, author, genre)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Title of the book")
	cmd.Flags().StringVar(&author, "author", "", "Author of the book")
	cmd.Flags().StringVar(&genre, "genre", "", "Genre of the book")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("author")
	_ = cmd.MarkFlagRequired("genre")

	return cmd
}

func (a *app) newRemoveBookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-book <book-id>",
		Short: "Remove a book that is not on loan from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID, err := parseID(args[0], "book id")
			if err != nil {
				return err
			}

			return a.desk().removeBook(cmd.Context(), bookID)
		},
	}
}

func (a *app) newLendCmd() *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "lend <book-id> <borrower-id>",
		Short: "Lend a book to a borrower",
		Long: `Lend a book to a borrower for 15 days. A borrower may hold up to 3 books.

A borrower who is not registered yet is registered first when --name and --email are given.`,
		Example: `  librarian lend 7 42
  librarian lend 7 43 --name "Ann Smith" --email ann@example.com`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID, err := parseID(args[0], "book id")
			if err != nil {
				return err
			}

			borrowerID, err := parseID(args[1], "borrower id")
			if err != nil {
				return err
			}

			return a.desk().lend(cmd.Context(), bookID, borrowerID, detailsFromFlags(name, email))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Name of a new borrower")
	cmd.Flags().StringVar(&email, "email", "", "Email of a new borrower")
	cmd.MarkFlagsRequiredTogether("name", "email")

	return cmd
}

func (a *app) newReturnCmd() *cobra.Command {
	var borrower int64

	cmd := &cobra.Command{
		Use:   "return <book-id>",
		Short: "Return a book and show the fine for a late return",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID, err := parseID(args[0], "book id")
			if err != nil {
				return err
			}

			command := returnbook.BuildCommand(bookID, a.now())
			if cmd.Flags().Changed("borrower") {
				command = returnbook.BuildCommandForBorrower(bookID, borrower, a.now())
			}

			return a.desk().returnBook(cmd.Context(), command)
		},
	}

	cmd.Flags().Int64Var(&borrower, "borrower", 0, "Only return the book if it is on loan to this borrower")

	return cmd
}

func (a *app) newSearchCmd() *cobra.Command {
	var (
		by      string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search books by title, author, or genre",
		Long:  "Search the catalog for books whose title, author, or genre contains the term (case-insensitive).",
		Example: `  librarian search dune --by title
  librarian search herbert --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := searchbooks.ParseField(by)
			if err != nil {
				return err
			}

			query, err := searchbooks.BuildQuery(field, args[0])
			if err != nil {
				return err
			}

			return a.desk().searchBooks(cmd.Context(), query, jsonOut)
		},
	}

	cmd.Flags().StringVar(&by, "by", "any", "Field to search: title, author, genre, or any")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")

	return cmd
}

func (a *app) newAvailableCmd() *cobra.Command {
	return a.newReportCmd("available", "List the books that can be lent", desk.availableBooks)
}

func (a *app) newIssuedCmd() *cobra.Command {
	return a.newReportCmd("issued", "List the books on loan, by due date", desk.issuedBooks)
}

func (a *app) newActiveBorrowersCmd() *cobra.Command {
	return a.newReportCmd("active-borrowers", "List the borrowers holding at least one book", desk.activeBorrowers)
}

func (a *app) newReportCmd(use, short string, report func(d desk, ctx context.Context, asJSON bool) error) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return report(a.desk(), cmd.Context(), jsonOut)
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")

	return cmd
}

func (a *app) newOverdueCmd() *cobra.Command {
	var (
		asOf    string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "overdue",
		Short: "List the books past their due date with the fines accrued so far",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d := a.desk()

			if asOf != "" {
				asOfDay, err := time.ParseInLocation(dateLayout, asOf, d.location())
				if err != nil {
					return fmt.Errorf("invalid --as-of %q: use YYYY-MM-DD", asOf)
				}

				d.now = func() time.Time { return asOfDay }
			}

			return d.overdueBooks(cmd.Context(), jsonOut)
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "Report as of this day (YYYY-MM-DD) instead of today")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")

	return cmd
}

func (a *app) newLoanCountCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "loan-count <borrower-id>",
		Short: "Show how many books a borrower holds and how many more they may take",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			borrowerID, err := parseID(args[0], "borrower id")
			if err != nil {
				return err
			}

			return a.desk().loanCount(cmd.Context(), borrowerID, jsonOut)
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")

	return cmd
}

func (a *app) newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Create the books, users, and loans tables if they do not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.store.EnsureSchema(cmd.Context()); err != nil {
				return fmt.Errorf("creating schema: %w", err)
			}

			printer{out: a.out, err: a.errOut}.ok("Setup successful (%s)", a.store.Dialect())

			return nil
		},
	}
}

func (a *app) newInitConfigCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write the current configuration to the config file",
		Long: `Write the effective configuration, defaults merged with environment overrides,
as YAML to the config file. An existing file is only replaced with --force.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			path := config.ResolvePath(a.flagConfig)
			p := printer{out: a.out, err: a.errOut}

			if _, err := os.Stat(path); err == nil && !force {
				p.warn("%s already exists (use --force to overwrite)", path)
				return nil
			}

			if err := config.Save(a.cfg, path); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			p.ok("Wrote %s", path)

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}

func (a *app) newMenuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Start the interactive menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runMenu(cmd.Context())
		},
	}
}

// detailsFromFlags returns a provider for the --name and --email flags, or nil when they are not set.
func detailsFromFlags(name, email string) lendbook.BorrowerDetailsProvider {
	if name == "" && email == "" {
		return nil
	}

	details := lendbook.BorrowerDetails{Name: name, Email: email}

	return func(context.Context, core.BorrowerID) (lendbook.BorrowerDetails, error) {
		return details, nil
	}
}

func parseID(arg, what string) (int64, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be a whole number", what, arg)
	}

	return value, nil
}
