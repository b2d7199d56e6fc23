package dirtree

import (
	"context"
	"fmt"
)

// event is a single message from the walker to the collector.
// A done event terminates the stream.
type event struct {
	entry *Entry
	done  bool
}

// collection is the output of the collector: the populated arena, the root
// handle, and the children gathered for every directory path.
type collection struct {
	arena    *Arena
	root     NodeID
	branches map[string][]NodeID
}

// collector drains walker events on a single goroutine. It is the only
// mutator of the arena, so no locking is needed.
type collector struct {
	policy   SizePolicy
	arena    *Arena
	root     NodeID
	branches map[string][]NodeID
	inodes   map[inodeKey]struct{}
}

// newCollector creates a collector for the given size policy.
func newCollector(policy SizePolicy) *collector {
	return &collector{
		policy:   policy,
		arena:    NewArena(),
		root:     None,
		branches: make(map[string][]NodeID),
		inodes:   make(map[inodeKey]struct{}),
	}
}

// run consumes events until the done event, the channel closes, or ctx is cancelled.
func (c *collector) run(ctx context.Context, events <-chan event) (*collection, error) {
	for {
		var (
			ev event
			ok bool
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case ev, ok = <-events:
		}

		if !ok || ev.done {
			return c.finalize()
		}

		if err := c.add(ev.entry); err != nil {
			return nil, err
		}
	}
}

// add inserts one entry into the arena.
func (c *collector) add(entry *Entry) error {
	if entry.IsDir() {
		c.ensureBranch(entry.Path)

		if entry.Depth == 0 {
			c.root = c.insert(entry)

			return nil
		}
	}

	// Only the first alias of a hard-linked file is kept.
	if inode := entry.Inode; inode != nil && inode.Nlink > 1 {
		key := inode.key()
		if _, seen := c.inodes[key]; seen {
			return nil
		}

		c.inodes[key] = struct{}{}
	}

	parent, ok := entry.ParentPath()
	if !ok {
		return fmt.Errorf("%w: %s", ErrExpectedParent, entry.Path)
	}

	id := c.insert(entry)
	c.branches[parent] = append(c.branches[parent], id)

	return nil
}

func (c *collector) insert(entry *Entry) NodeID {
	id := c.arena.NewNode(entry)

	if entry.Kind == KindFile {
		c.arena.Get(id).setSize(NewSize(entry.Bytes(c.policy.Usage), c.policy))
	}

	return id
}

func (c *collector) ensureBranch(path string) {
	if _, ok := c.branches[path]; !ok {
		c.branches[path] = nil
	}
}

func (c *collector) finalize() (*collection, error) {
	if c.root == None {
		return nil, ErrMissingRoot
	}

	return &collection{
		arena:    c.arena,
		root:     c.root,
		branches: c.branches,
	}, nil
}
