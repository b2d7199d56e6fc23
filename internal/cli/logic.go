package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/idelchi/dirtree/internal/dirtree"
)

// newLogger constructs a zap logger configured for human-readable console output on stderr.
func newLogger(debug bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.TimeKey = ""
	config.EncoderConfig.NameKey = ""
	config.EncoderConfig.CallerKey = ""
	config.EncoderConfig.StacktraceKey = ""

	config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if debug {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	return config.Build()
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && isatty.IsTerminal(f.Fd())
}

func logic(ctx context.Context, s settings, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := newLogger(s.Debug)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}

	defer func() { _ = logger.Sync() }()

	s.Logger = logger

	enableProgress := s.Output != "json" && !s.Debug && isTerminal(stderr)

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(stderr, "\033[?25l")
		defer fmt.Fprint(stderr, "\033[?25h")

		s.ProgressHook = func(entries, bytes int64) {
			msg := fmt.Sprintf("Scanning… %d entries, %s",
				entries, humanize.IBytes(uint64(bytes))) //nolint:gosec // Bytes is always positive
			fmt.Fprintf(stderr, "\r\033[2K%s\r", msg)
		}
	}

	tree, err := dirtree.Build(ctx, s.Options)

	// Clear the status line
	if enableProgress {
		fmt.Fprint(stderr, "\r\033[2K\r")
	}

	if err != nil {
		return err
	}

	if skipped := tree.Errors(); skipped > 0 {
		logger.Warn("skipped unreadable entries", zap.Int64("count", skipped))
	}

	switch s.Output {
	case "json":
		return PrintJSON(tree, stdout)
	case "report":
		return PrintReport(tree, stdout)
	case "paths":
		return PrintPaths(tree, stdout)
	default:
		return PrintTree(tree, stdout, newStyles(stdout, !s.NoColor && isTerminal(stdout)))
	}
}
