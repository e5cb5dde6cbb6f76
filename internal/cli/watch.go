package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/roach88/ndk/internal/config"
	"github.com/roach88/ndk/internal/metrics"
	"github.com/roach88/ndk/internal/script"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*RootOptions
	MetricsAddr string        // serve /metrics here while watching
	Debounce    time.Duration // quiet period before re-checking
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch <path>...",
		Short: "Re-check proof scripts whenever they change",
		Long: `Check proof scripts, then check them again every time a script file
under the given paths is created, written, renamed or removed.

Rule counters accumulate across runs; with --metrics-addr they are served
in Prometheus format at /metrics. Stop with Ctrl+C.

Examples:
  ndk watch ./proofs
  ndk watch ./proofs --db theorems.db --metrics-addr :9464`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), opts, args, cmd)
		},
	}

	cmd.Flags().String(config.KeyDatabase, "", "record proved theorems in this SQLite database")
	cmd.Flags().Int(config.KeyConcurrency, runtime.NumCPU(), "maximum scripts checked at once")
	cmd.Flags().String(config.KeyLabels, config.LabelsSequential, "scoped hypothesis labels (sequential|uuid)")
	cmd.Flags().StringVar(&opts.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", 200*time.Millisecond, "quiet period before re-checking")

	return cmd
}

func runWatch(ctx context.Context, opts *WatchOptions, paths []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "start watcher", err)
	}
	defer w.Close()

	for _, p := range paths {
		if err := watchTree(w, p); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("cannot watch %s", p), err)
		}
	}

	m := metrics.New()
	if opts.MetricsAddr != "" {
		srv := serveMetrics(opts.MetricsAddr, m, logger)
		defer srv.Close()
		logger.Info("serving metrics", "addr", opts.MetricsAddr)
	}

	run := 0
	check := func() {
		run++
		fmt.Fprintf(formatter.Writer, "=== run %d ===\n", run)
		result, err := checkPass(ctx, opts.RootOptions, paths, m, formatter)
		if err != nil {
			logger.Warn("check failed", "run", run, "error", err)
			return
		}
		if err := writeCheckResult(formatter, result); err != nil {
			logger.Error("write result", "error", err)
		}
	}
	check()

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) && isDir(ev.Name) {
				if err := watchTree(w, ev.Name); err != nil {
					logger.Warn("watch new directory", "path", ev.Name, "error", err)
				}
			}
			if !relevantEvent(ev) {
				continue
			}
			logger.Debug("change", "path", ev.Name, "op", ev.Op.String())
			pending = time.After(opts.Debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)

		case <-pending:
			pending = nil
			check()
		}
	}
}

// watchTree adds path's directory tree (or a file's directory) to w,
// skipping hidden directories like script.Find does.
func watchTree(w *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.Add(filepath.Dir(path))
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != path && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.Add(p)
	})
}

func relevantEvent(ev fsnotify.Event) bool {
	if !script.IsScriptFile(ev.Name) {
		return false
	}
	return ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) ||
		ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func serveMetrics(addr string, m *metrics.Metrics, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "addr", addr, "error", err)
		}
	}()
	return srv
}
