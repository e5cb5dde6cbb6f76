package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/ndk/internal/config"
	"github.com/roach88/ndk/internal/metrics"
	"github.com/roach88/ndk/internal/script"
	"github.com/roach88/ndk/internal/store"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Metrics bool // print rule counters after the run
}

// ScriptReport is the outcome of one script.
type ScriptReport struct {
	Name     string          `json:"name"`
	Path     string          `json:"path,omitempty"`
	Pass     bool            `json:"pass"`
	Expect   string          `json:"expect_error,omitempty"`
	Failure  *script.Failure `json:"failure,omitempty"`
	Errors   []string        `json:"errors,omitempty"`
	Theorem  *script.Theorem `json:"theorem,omitempty"`
	Recorded bool            `json:"recorded,omitempty"`

	result *script.Result
}

// CheckResult holds the overall check result.
type CheckResult struct {
	Scripts  []ScriptReport   `json:"scripts"`
	Passed   int              `json:"passed"`
	Failed   int              `json:"failed"`
	Total    int              `json:"total"`
	Recorded int              `json:"recorded"`
	Metrics  []metrics.Sample `json:"metrics,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <path>...",
		Short: "Check proof scripts against the kernel",
		Long: `Check proof scripts against the kernel.

Paths may be files or directories; directories are searched for .yaml,
.yml and .cue scripts. Independent scripts are checked concurrently.
With --db, every theorem proved by a passing script is recorded.

Exit codes:
  0 - All scripts passed
  1 - One or more scripts failed
  2 - Command error (invalid paths, database error, etc.)

Examples:
  ndk check ./proofs
  ndk check ./proofs --db theorems.db
  ndk check syllogism.yaml --metrics --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), opts, args, cmd)
		},
	}

	cmd.Flags().String(config.KeyDatabase, "", "record proved theorems in this SQLite database")
	cmd.Flags().Int(config.KeyConcurrency, runtime.NumCPU(), "maximum scripts checked at once")
	cmd.Flags().String(config.KeyLabels, config.LabelsSequential, "scoped hypothesis labels (sequential|uuid)")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "print rule counters after the run")

	return cmd
}

func runCheck(ctx context.Context, opts *CheckOptions, paths []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	m := metrics.New()
	result, err := checkPass(ctx, opts.RootOptions, paths, m, formatter)
	if err != nil {
		return err
	}

	if opts.Metrics {
		samples, err := m.Snapshot()
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, "gather metrics", err)
		}
		result.Metrics = samples
	}

	if err := writeCheckResult(formatter, result); err != nil {
		return err
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d script(s) failed", result.Failed, result.Total))
	}
	return nil
}

// checkPass loads, checks and (with a configured database) records the
// scripts under paths. Command-level problems are printed through
// formatter and returned as *ExitError.
func checkPass(ctx context.Context, opts *RootOptions, paths []string, m *metrics.Metrics, formatter *OutputFormatter) (CheckResult, error) {
	loaded, err := LoadScripts(paths)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			return CheckResult{}, formatter.Fail(ExitCommandError, le.Code, le.Message, nil)
		}
		return CheckResult{}, formatter.Fail(ExitCommandError, ErrCodeGeneric, "load scripts", err)
	}
	formatter.VerboseLog("Found %d script file(s), %d script(s)", loaded.FileCount, len(loaded.Scripts))

	result, err := checkScripts(ctx, opts, loaded, m)
	if err != nil {
		return CheckResult{}, formatter.Fail(ExitCommandError, ErrCodeGeneric, "check interrupted", err)
	}

	if db := opts.Config.Database; db != "" {
		if err := recordTheorems(ctx, db, &result); err != nil {
			return CheckResult{}, formatter.Fail(ExitCommandError, ErrCodeStore, "record theorems", err)
		}
	}
	return result, nil
}

func writeCheckResult(formatter *OutputFormatter, result CheckResult) error {
	if formatter.JSON() {
		return formatter.Report(result.Failed == 0, result)
	}
	writeCheckText(formatter.Writer, result)
	return nil
}

// checkScripts runs every loaded script, bounded by the configured
// concurrency. Reports keep load order regardless of completion order.
func checkScripts(ctx context.Context, opts *RootOptions, loaded *LoadResult, m *metrics.Metrics) (CheckResult, error) {
	cfg := opts.Config
	runner := script.NewRunner(
		script.WithMetrics(m),
		script.WithLogger(opts.logger()),
		script.WithLabels(cfg.NewLabels),
	)

	reports := make([]ScriptReport, len(loaded.Scripts))

	g, gctx := errgroup.WithContext(ctx)
	limit := cfg.Concurrency
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, s := range loaded.Scripts {
		i, s := i, s
		g.Go(func() error {
			rep := ScriptReport{Name: s.Name, Path: s.Path, Expect: s.ExpectError}

			res, err := runner.Run(gctx, s)
			var invalid *script.InvalidError
			switch {
			case errors.As(err, &invalid):
				for _, ve := range invalid.Errors {
					rep.Errors = append(rep.Errors, ve.Error())
				}
			case err != nil:
				return err
			default:
				rep.Pass = res.Pass
				rep.Failure = res.Failure
				rep.Errors = res.Errors
				rep.Theorem = res.Theorem
				rep.result = res
			}
			reports[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return CheckResult{}, err
	}

	for _, le := range loaded.Errors {
		reports = append(reports, ScriptReport{
			Name:   le.Path,
			Path:   le.Path,
			Errors: []string{le.Error()},
		})
	}

	result := CheckResult{Scripts: reports, Total: len(reports)}
	for _, rep := range reports {
		if rep.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}
	return result, nil
}

// recordTheorems writes every proved theorem to the store at path.
// A name already bound to a different statement fails that script.
func recordTheorems(ctx context.Context, path string, result *CheckResult) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()

	for i := range result.Scripts {
		rep := &result.Scripts[i]
		if !rep.Pass || rep.result == nil || rep.result.Theorem == nil {
			continue
		}
		inserted, err := st.WriteTheorem(ctx, rep.result)
		if store.IsConflict(err) {
			rep.Pass = false
			rep.Errors = append(rep.Errors, err.Error())
			result.Passed--
			result.Failed++
			continue
		}
		if err != nil {
			return err
		}
		if inserted {
			rep.Recorded = true
			result.Recorded++
		}
	}
	return nil
}

func writeCheckText(w io.Writer, result CheckResult) {
	for _, rep := range result.Scripts {
		if rep.Pass {
			switch {
			case rep.Expect != "":
				fmt.Fprintf(w, "✓ %s (rejected: %s)\n", rep.Name, rep.Expect)
			case rep.Theorem != nil:
				fmt.Fprintf(w, "✓ %s  ⊢ %s\n", rep.Name, rep.Theorem.Display)
			default:
				fmt.Fprintf(w, "✓ %s\n", rep.Name)
			}
			continue
		}

		fmt.Fprintf(w, "✗ %s\n", rep.Name)
		for _, e := range rep.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
		if f := rep.Failure; f != nil {
			fmt.Fprintf(w, "  code=%s rule=%s step=%s", f.Code, f.Rule, f.Step)
			if f.Label != "" {
				fmt.Fprintf(w, " label=%s", f.Label)
			}
			if len(f.Formulas) > 0 {
				fmt.Fprintf(w, " formulas=[%s]", strings.Join(f.Formulas, "; "))
			}
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintf(w, "\n%d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	if result.Recorded > 0 {
		fmt.Fprintf(w, "%d theorem(s) recorded\n", result.Recorded)
	}
	if len(result.Metrics) > 0 {
		fmt.Fprintln(w)
		for _, s := range result.Metrics {
			fmt.Fprintf(w, "%s %g\n", s.Key(), s.Value)
		}
	}
}
