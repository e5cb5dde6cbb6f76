package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ndk/internal/config"
	"github.com/roach88/ndk/internal/notation"
	"github.com/roach88/ndk/internal/store"
)

// TheoremsOptions holds flags for the theorems command.
type TheoremsOptions struct {
	*RootOptions
	Name      string // show one theorem with its steps
	Statement string // list theorems proving this formula
}

// TheoremDetail is one theorem with its stored trace.
type TheoremDetail struct {
	store.Theorem
	Steps []store.Step `json:"steps"`
}

// NewTheoremsCommand creates the theorems command.
func NewTheoremsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TheoremsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "theorems",
		Short: "List recorded theorems",
		Long: `List the theorems recorded by check --db, in recording order.

With --name, show one theorem and the steps that proved it.
With --statement, list theorems whose statement equals the given formula
(however it is spelled).

Examples:
  ndk theorems --db theorems.db
  ndk theorems --db theorems.db --name hypothetical_syllogism
  ndk theorems --db theorems.db --statement "p -> p"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTheorems(opts, cmd)
		},
	}

	cmd.Flags().String(config.KeyDatabase, "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "show one theorem with its steps")
	cmd.Flags().StringVar(&opts.Statement, "statement", "", "list theorems with this statement")

	return cmd
}

func runTheorems(opts *TheoremsOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := cmd.Context()

	st, err := openStore(opts.RootOptions, formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	if opts.Name != "" {
		th, err := st.ReadTheorem(ctx, opts.Name)
		if errors.Is(err, sql.ErrNoRows) {
			return formatter.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("no theorem named %q", opts.Name), nil)
		}
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, "read theorem", err)
		}
		steps, err := st.ReadSteps(ctx, th.ID)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, "read steps", err)
		}

		detail := TheoremDetail{Theorem: th, Steps: steps}
		if formatter.JSON() {
			return formatter.Success(detail)
		}
		writeTheoremDetail(formatter, detail)
		return nil
	}

	var theorems []store.Theorem
	if opts.Statement != "" {
		f, perr := notation.Parse(opts.Statement)
		if perr != nil {
			return formatter.Fail(ExitFailure, ErrCodeParse, "statement does not parse", perr)
		}
		theorems, err = st.FindByStatement(ctx, f)
	} else {
		theorems, err = st.ListTheorems(ctx)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "list theorems", err)
	}

	if formatter.JSON() {
		return formatter.Success(theorems)
	}
	w := formatter.Writer
	if len(theorems) == 0 {
		fmt.Fprintln(w, "No theorems recorded.")
		return nil
	}
	for _, th := range theorems {
		fmt.Fprintf(w, "%4d  %-24s ⊢ %s\n", th.Seq, th.Name, th.Display)
	}
	return nil
}

func writeTheoremDetail(formatter *OutputFormatter, d TheoremDetail) {
	w := formatter.Writer
	fmt.Fprintf(w, "%s  ⊢ %s\n", d.Name, d.Display)
	fmt.Fprintf(w, "  id:          %s\n", d.ID)
	fmt.Fprintf(w, "  fingerprint: %s\n", d.Fingerprint)
	fmt.Fprintf(w, "  kernel:      %s\n", d.KernelVersion)
	for _, s := range d.Steps {
		open := "⊢"
		if len(s.Open) > 0 {
			open = strings.Join(s.Open, ", ") + " ⊢"
		}
		fmt.Fprintf(w, "  %3d  %-8s %-11s %s %s\n", s.Index, s.StepID, s.Rule, open, s.Conclusion)
	}
}

// openStore opens the configured database, which must already exist.
func openStore(opts *RootOptions, formatter *OutputFormatter) (*store.Store, error) {
	path := opts.Config.Database
	if path == "" {
		return nil, formatter.Fail(ExitCommandError, ErrCodeNotFound, "no database configured (use --db)", nil)
	}
	if !fileExists(path) {
		return nil, formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("database not found: %s", path), nil)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeStore, "open database", err)
	}
	return st, nil
}
