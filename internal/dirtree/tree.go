package dirtree

import (
	"context"
	"iter"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// eventBuffer is the capacity of the walker-to-collector channel.
const eventBuffer = 4096

// Tree is the finished, read-only directory tree.
type Tree struct {
	arena   *Arena
	root    NodeID
	opts    Options
	errors  int64
	elapsed time.Duration
}

// Build walks opts.Path in parallel and assembles the result into a Tree.
//
// The walker goroutines and the single collector run concurrently; assembly,
// sorting and the optional prune and dirs-only passes run afterwards on the
// calling goroutine. No partial tree is returned on error.
func Build(ctx context.Context, opts Options) (*Tree, error) {
	opts = opts.withDefaults()
	log := opts.Logger

	start := time.Now()

	w, err := newWalker(opts)
	if err != nil {
		return nil, err
	}

	log.Debug("walking",
		zap.String("root", w.root),
		zap.Int("threads", opts.Threads),
		zap.Bool("follow", opts.FollowLinks),
		zap.Bool("hidden", opts.Hidden),
		zap.Bool("ignore", !opts.NoIgnore),
	)

	events := make(chan event, eventBuffer)
	group, groupCtx := errgroup.WithContext(ctx)

	startProgressReporter(groupCtx, w, opts.ProgressHook, opts.ProgressInterval)

	var collected *collection

	group.Go(func() error {
		return w.run(groupCtx, events)
	})

	group.Go(func() error {
		c, err := newCollector(opts.SizePolicy()).run(groupCtx, events)
		collected = c

		return err
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	if err := assemble(collected, opts.SizePolicy(), Comparator(opts.Sort, opts.Reverse)); err != nil {
		return nil, err
	}

	if opts.Prune {
		prune(collected.arena, collected.root)
	}

	if opts.DirsOnly {
		filterDirectories(collected.arena, collected.root)
	}

	tree := &Tree{
		arena:   collected.arena,
		root:    collected.root,
		opts:    opts,
		errors:  w.errors.Load(),
		elapsed: time.Since(start),
	}

	log.Debug("assembled tree",
		zap.Int("nodes", tree.arena.Len()),
		zap.Int64("errors", tree.errors),
		zap.Duration("elapsed", tree.elapsed),
	)

	return tree, nil
}

// Root returns the root handle.
func (t *Tree) Root() NodeID { return t.root }

// Node returns the node for id.
func (t *Tree) Node(id NodeID) *Node { return t.arena.Get(id) }

// Children yields the children of id in rendering order.
func (t *Tree) Children(id NodeID) iter.Seq[NodeID] { return t.arena.Children(id) }

// Descendants yields id and every node reachable below it, depth-first.
func (t *Tree) Descendants(id NodeID) iter.Seq[NodeID] { return t.arena.Descendants(id) }

// Options returns the configuration the tree was built with.
func (t *Tree) Options() Options { return t.opts }

// Errors returns the number of entries skipped because of I/O errors.
func (t *Tree) Errors() int64 { return t.errors }

// Elapsed returns how long the walk and assembly took.
func (t *Tree) Elapsed() time.Duration { return t.elapsed }

// Count tallies the kinds of the children of id.
func (t *Tree) Count(id NodeID) FileCount {
	var count FileCount

	for child := range t.arena.Children(id) {
		count.update(t.arena.Get(child))
	}

	return count
}

// TotalCount tallies every node reachable from the root, the root excluded.
func (t *Tree) TotalCount() FileCount {
	var count FileCount

	for id := range t.arena.Descendants(t.root) {
		if id != t.root {
			count.update(t.arena.Get(id))
		}
	}

	return count
}
