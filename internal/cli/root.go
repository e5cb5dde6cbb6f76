package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/ndk/internal/config"
)

// RootOptions holds global flags for all commands, plus the effective
// configuration resolved before each command runs.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	Config config.Config
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the ndk CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "ndk",
		Short: "ndk - natural deduction kernel",
		Long: `A trusted propositional natural deduction kernel.

Proof scripts are checked step by step against the kernel's rules; only
statements the kernel accepts with no open assumptions become theorems.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, config.KeyFormat, "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default: ndk.yaml in the user config dir or .)")
	cmd.PersistentFlags().String(config.KeyLogLevel, "warn", "log level (debug|info|warn|error)")

	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewParseCommand(opts))
	cmd.AddCommand(NewTheoremsCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewReplCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))

	return cmd
}

// load resolves configuration for cmd and installs the logger.
func (o *RootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd, o.ConfigPath)
	if err != nil {
		f := &OutputFormatter{Format: "text", Writer: cmd.ErrOrStderr()}
		if isValidFormat(o.Format) {
			f.Format = o.Format
		}
		return f.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}
	o.Config = cfg
	o.Format = cfg.Format

	level := cfg.SlogLevel()
	if o.Verbose {
		level = slog.LevelDebug
	}
	o.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

// logger returns the configured logger, or one that discards.
func (o *RootOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
