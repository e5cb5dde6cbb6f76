package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ndk/internal/script"
)

// ScriptValidation holds the validation errors of one script.
type ScriptValidation struct {
	Name   string                   `json:"name"`
	Path   string                   `json:"path,omitempty"`
	Errors []script.ValidationError `json:"errors,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool               `json:"valid"`
	Scripts []ScriptValidation `json:"scripts"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <path>...",
		Short: "Validate proof scripts without checking them",
		Long: `Validate proof scripts without running them through the kernel.

Checks script structure only: known rules, per-rule fields and arity,
references to earlier steps, parseable formulas and the kernel version
constraint. Faster than check for editing feedback.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	loaded, err := LoadScripts(paths)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			return formatter.Fail(ExitCommandError, le.Code, le.Message, nil)
		}
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "load scripts", err)
	}
	formatter.VerboseLog("Found %d script file(s)", loaded.FileCount)

	result := ValidationResult{Valid: true, Scripts: []ScriptValidation{}}
	for _, s := range loaded.Scripts {
		formatter.VerboseLog("Validating script: %s", s.Name)
		sv := ScriptValidation{Name: s.Name, Path: s.Path, Errors: script.Validate(s)}
		if len(sv.Errors) > 0 {
			result.Valid = false
		}
		result.Scripts = append(result.Scripts, sv)
	}
	for _, le := range loaded.Errors {
		result.Valid = false
		result.Scripts = append(result.Scripts, ScriptValidation{
			Name: le.Path,
			Path: le.Path,
			Errors: []script.ValidationError{{
				Field:   "load",
				Message: le.Message,
				Code:    le.Code,
			}},
		})
	}

	if formatter.JSON() {
		if err := formatter.Report(result.Valid, result); err != nil {
			return err
		}
	} else {
		w := formatter.Writer
		invalid := 0
		for _, sv := range result.Scripts {
			if len(sv.Errors) == 0 {
				continue
			}
			invalid++
			fmt.Fprintf(w, "✗ %s\n", sv.Name)
			for _, e := range sv.Errors {
				fmt.Fprintf(w, "  %s\n", e.Error())
			}
		}
		if invalid == 0 {
			fmt.Fprintf(w, "✓ All %d script(s) valid\n", len(result.Scripts))
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, "validation failed")
	}
	return nil
}
