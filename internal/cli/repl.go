package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/robertkrimen/isatty"
	"github.com/spf13/cobra"

	"github.com/roach88/ndk/internal/config"
	"github.com/roach88/ndk/internal/kernel"
)

const replPrompt = "ndk> "

// ReplOptions holds flags for the repl command.
type ReplOptions struct {
	*RootOptions
	History string // readline history file
}

// NewReplCommand creates the repl command.
func NewReplCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive proof session",
		Long: `Start an interactive proof session.

Each accepted proof is numbered and can be reused by later rules.
Scoped hypotheses opened with assume are closed innermost-first with
discharge. Type help for the command list.

When stdin is not a terminal, commands are read line by line with no
prompt, so a session can be piped in.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(opts, cmd)
		},
	}

	cmd.Flags().String(config.KeyLabels, config.LabelsSequential, "scoped hypothesis labels (sequential|uuid)")
	cmd.Flags().StringVar(&opts.History, "history", defaultHistoryFile(), "history file (empty disables history)")

	return cmd
}

func defaultHistoryFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ndk", "history")
}

func runRepl(opts *ReplOptions, cmd *cobra.Command) error {
	session := NewSession(opts.Config.NewLabels())
	in := cmd.InOrStdin()

	f, ok := in.(*os.File)
	if !ok || !isatty.Check(f.Fd()) {
		sc := bufio.NewScanner(in)
		if err := replLoop(session, sc.Scan, sc.Text, cmd.OutOrStdout()); err != nil {
			return err
		}
		if err := sc.Err(); err != nil {
			return WrapExitError(ExitCommandError, "read input", err)
		}
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "ndk %s proof session\nhelp for commands, quit to leave\n", kernel.Version)
	if opts.History != "" {
		_ = os.MkdirAll(filepath.Dir(opts.History), 0o755)
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            replPrompt,
		HistoryFile:       opts.History,
		InterruptPrompt:   "^C",
		EOFPrompt:         "quit",
		HistorySearchFold: true,
		Stdin:             f,
		Stdout:            cmd.OutOrStdout(),
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "start line editor", err)
	}
	defer rl.Close()

	var line string
	next := func() bool {
		line, err = rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			line, err = "", nil
			return true
		}
		return err == nil
	}
	return replLoop(session, next, func() string { return line }, cmd.OutOrStdout())
}

// replLoop feeds lines to session until next reports no more input or
// the session quits. text returns the line next just read.
func replLoop(session *Session, next func() bool, text func() string, out io.Writer) error {
	for next() {
		res, err := session.Exec(text())
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		if res != "" {
			fmt.Fprintln(out, res)
		}
	}
	return nil
}
