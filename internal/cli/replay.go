package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/ndk/internal/config"
)

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Verify every recorded theorem",
		Long: `Re-derive every recorded theorem's identity from its stored statement.

Each statement is re-parsed from canonical JSON and re-encoded; its
fingerprint, id and display text must match what was recorded.

Exit codes:
  0 - Every theorem verified
  1 - One or more theorems did not verify
  2 - Command error (database not found, etc.)

Examples:
  ndk replay --db theorems.db
  ndk replay --db theorems.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(rootOpts, cmd)
		},
	}

	cmd.Flags().String(config.KeyDatabase, "", "path to SQLite database (required)")

	return cmd
}

func runReplay(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	st, err := openStore(opts, formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	report, err := st.Replay(cmd.Context())
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "replay", err)
	}

	if formatter.JSON() {
		if err := formatter.Report(report.OK(), report); err != nil {
			return err
		}
	} else {
		w := formatter.Writer
		for _, e := range report.Entries {
			if e.OK {
				formatter.VerboseLog("✓ %s", e.Name)
				continue
			}
			fmt.Fprintf(w, "✗ %s (%s)\n", e.Name, e.ID)
			for _, p := range e.Problems {
				fmt.Fprintf(w, "  %s\n", p)
			}
		}
		fmt.Fprintf(w, "%d verified, %d failed\n", len(report.Entries)-report.Failed, report.Failed)
	}

	if !report.OK() {
		return NewExitError(ExitFailure, fmt.Sprintf("%d theorem(s) did not verify", report.Failed))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
