package dirtree

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"
)

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// calculateDepth returns the depth of a path relative to the root.
func calculateDepth(path, root string) int {
	relPath := strings.TrimPrefix(path, root)

	relPath = strings.TrimPrefix(relPath, string(filepath.Separator))
	if relPath == "" {
		return 0
	}

	return strings.Count(relPath, string(filepath.Separator)) + 1
}

// canonicalRoot resolves path to an absolute, symlink-free directory that can be read.
func canonicalRoot(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrRootNotFound, path, err)
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrRootNotFound, absPath, err)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrRootNotFound, resolved, err)
	}

	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrRootNotDirectory, resolved)
	}

	dir, err := os.Open(resolved)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrRootNotFound, resolved, err)
	}

	_ = dir.Close()

	return resolved, nil
}

// walker enumerates the root in parallel and emits an Entry per visited object.
// Filtering happens here, so skipped directories are never descended into.
type walker struct {
	root      string
	opts      Options
	log       *zap.Logger
	ignore    *ignoreRules
	overrides *overrides

	entries atomic.Int64
	bytes   atomic.Int64
	errors  atomic.Int64
}

// newWalker validates the root and compiles the filtering policy.
// It fails before any goroutine is started.
func newWalker(opts Options) (*walker, error) {
	root, err := canonicalRoot(opts.Path)
	if err != nil {
		return nil, err
	}

	globs, err := compileOverrides(opts.Globs, opts.IGlobs)
	if err != nil {
		return nil, err
	}

	w := &walker{
		root:      root,
		opts:      opts,
		log:       opts.Logger,
		overrides: globs,
	}

	if !opts.NoIgnore {
		w.ignore = newIgnoreRules(root)
	}

	return w, nil
}

// excluded applies overrides, then hidden and ignore-file rules, to a non-root entry.
func (w *walker) excluded(path string, d fs.DirEntry) (bool, string) {
	isDir := d.IsDir()

	if w.overrides != nil {
		rel, err := filepath.Rel(w.root, path)
		if err == nil {
			switch w.overrides.match(filepath.ToSlash(rel), isDir) {
			case overrideExclude:
				return true, "override"
			case overrideInclude:
				return false, ""
			case overrideNone:
			}
		}
	}

	if !w.opts.Hidden && isHidden(d.Name()) {
		return true, "hidden"
	}

	if w.ignore != nil && w.ignore.ignored(path, isDir) {
		return true, "ignore file"
	}

	return false, ""
}

// stat returns metadata for d, resolving symbolic links when they are followed.
func (w *walker) stat(path string, d fs.DirEntry) (fs.FileInfo, error) {
	if w.opts.FollowLinks && d.Type()&fs.ModeSymlink != 0 {
		return os.Stat(path)
	}

	return d.Info()
}

// skip returns the walk directive for an entry that is left out.
// Symbolic links get SkipDir too, so a followed link is never traversed.
func skip(d fs.DirEntry) error {
	if d.IsDir() || d.Type()&fs.ModeSymlink != 0 {
		return filepath.SkipDir
	}

	return nil
}

// run walks the root, sending entries on events and a single done event at the end.
//
//nolint:varnamelen // d is standard for DirEntry
func (w *walker) run(ctx context.Context, events chan<- event) error {
	conf := &fastwalk.Config{
		Follow:     w.opts.FollowLinks,
		NumWorkers: w.opts.Threads,
	}

	walkErr := fastwalk.Walk(conf, w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.errors.Add(1)
			w.log.Debug("skipping unreadable entry", zap.String("path", path), zap.Error(err))

			return nil
		}

		depth := calculateDepth(path, w.root)

		if depth > 0 {
			if excluded, reason := w.excluded(path, d); excluded {
				w.log.Debug("excluding entry", zap.String("path", path), zap.String("reason", reason))

				return skip(d)
			}
		}

		info, err := w.stat(path, d)
		if err != nil {
			w.errors.Add(1)
			w.log.Debug("skipping entry without metadata", zap.String("path", path), zap.Error(err))

			return skip(d)
		}

		entry := newEntry(path, depth, d.Type()&fs.ModeSymlink != 0, info)

		w.entries.Add(1)
		w.bytes.Add(int64(entry.Bytes(w.opts.DiskUsage))) //nolint:gosec // Sizes fit in int64

		select {
		case events <- event{entry: entry}:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	if walkErr != nil {
		return fmt.Errorf("walking %s: %w", w.root, walkErr)
	}

	select {
	case events <- event{done: true}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// startProgressReporter invokes hook(entries, bytes) on each tick until ctx is done.
func startProgressReporter(ctx context.Context, w *walker, hook func(int64, int64), interval time.Duration) {
	if hook == nil {
		return
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(w.entries.Load(), w.bytes.Load())
			case <-ctx.Done():
				return
			}
		}
	}()
}
