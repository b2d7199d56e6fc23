package dirtree

import (
	"runtime"
	"time"

	"go.uber.org/zap"
)

// Options configures traversal and tree assembly.
type Options struct {
	// Path is the root directory.
	Path string
	// Threads is the number of walker goroutines (0 = available parallelism).
	Threads int
	// FollowLinks follows symbolic links during the walk.
	FollowLinks bool
	// NoIgnore disables .gitignore and .ignore rules.
	NoIgnore bool
	// Hidden includes entries whose name starts with a dot.
	Hidden bool
	// Globs are case-sensitive include patterns; a "!" prefix excludes.
	Globs []string
	// IGlobs are case-insensitive include patterns; a "!" prefix excludes.
	IGlobs []string
	// Prune removes empty directories after assembly.
	Prune bool
	// DirsOnly keeps only directories after assembly.
	DirsOnly bool
	// Sort is the sibling ordering.
	Sort SortKey
	// Reverse flips the sibling ordering.
	Reverse bool
	// DiskUsage selects logical or physical sizes.
	DiskUsage DiskUsage
	// Prefix selects binary or SI units.
	Prefix Prefix
	// Scale is the number of decimals for scaled sizes.
	Scale int
	// Level is the maximum display depth (0 = unlimited). The tree is always built in full.
	Level int
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// ProgressHook receives the number of entries and bytes seen so far.
	ProgressHook func(entries, bytes int64)
	// Logger receives debug output about skipped entries. Nil disables logging.
	Logger *zap.Logger
}

// SizePolicy returns the size policy described by the options.
func (o Options) SizePolicy() SizePolicy {
	return SizePolicy{Usage: o.DiskUsage, Prefix: o.Prefix, Scale: o.Scale}
}

func (o Options) withDefaults() Options {
	if o.Path == "" {
		o.Path = "."
	}

	if o.Threads <= 0 {
		o.Threads = runtime.NumCPU()
	}

	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}

	return o
}
