package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ndk/internal/formula"
	"github.com/roach88/ndk/internal/notation"
)

// ParseResult describes a parsed formula.
type ParseResult struct {
	Input       string   `json:"input"`
	Formula     string   `json:"formula"`
	Canonical   string   `json:"canonical"`
	Fingerprint string   `json:"fingerprint"`
	Vars        []string `json:"vars"`
	Size        int      `json:"size"`
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <formula>",
		Short: "Parse a formula and print its canonical forms",
		Long: `Parse a formula and print its display text, canonical JSON and
fingerprint. Multiple arguments are joined with spaces, so quoting is
optional for simple formulas.

Examples:
  ndk parse "p & q -> q & p"
  ndk parse '(p -> q) -> (q -> r) -> p -> r' --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(rootOpts, strings.Join(args, " "), cmd)
		},
	}

	return cmd
}

func runParse(opts *RootOptions, input string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	f, err := notation.Parse(input)
	if err != nil {
		details := map[string]any{"input": input}
		if pe, ok := err.(*notation.ParseError); ok {
			details["pos"] = pe.Pos
		}
		_ = formatter.Error(ErrCodeParse, err.Error(), details)
		return WrapExitError(ExitFailure, ErrCodeParse+": formula does not parse", err)
	}

	canon, err := formula.MarshalCanonical(f)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "encode formula", err)
	}
	fp, err := formula.Fingerprint(f)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "fingerprint formula", err)
	}

	result := ParseResult{
		Input:       input,
		Formula:     f.String(),
		Canonical:   string(canon),
		Fingerprint: fp,
		Vars:        formula.Vars(f),
		Size:        formula.Size(f),
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "formula:     %s\n", result.Formula)
	fmt.Fprintf(w, "canonical:   %s\n", result.Canonical)
	fmt.Fprintf(w, "fingerprint: %s\n", result.Fingerprint)
	fmt.Fprintf(w, "vars:        %s\n", strings.Join(result.Vars, ", "))
	fmt.Fprintf(w, "size:        %d\n", result.Size)
	return nil
}
