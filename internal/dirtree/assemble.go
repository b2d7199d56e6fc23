package dirtree

import (
	"fmt"
	"slices"
)

// assembler attaches collected children to their directories, aggregates
// directory sizes bottom-up and orders siblings.
type assembler struct {
	arena    *Arena
	branches map[string][]NodeID
	policy   SizePolicy
	compare  func(a, b *Node) int
}

// assemble consumes the collection's branches starting at its root.
func assemble(c *collection, policy SizePolicy, compare func(a, b *Node) int) error {
	a := assembler{
		arena:    c.arena,
		branches: c.branches,
		policy:   policy,
		compare:  compare,
	}

	return a.directory(c.root)
}

// directory assembles id after all of its subdirectories (post-order).
func (a *assembler) directory(id NodeID) error {
	path := a.arena.Get(id).Path()

	children, ok := a.branches[path]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingBranch, path)
	}

	delete(a.branches, path)

	total := NewSize(0, a.policy)

	for _, child := range children {
		if a.arena.Get(child).IsDir() {
			if err := a.directory(child); err != nil {
				return err
			}
		}

		if size, ok := a.arena.Get(child).Size(); ok {
			total.Add(size.Bytes)
		}
	}

	// A zero total leaves the aggregate absent.
	if total.Bytes > 0 {
		a.arena.Get(id).setSize(total)
	}

	if a.compare != nil {
		slices.SortStableFunc(children, func(x, y NodeID) int {
			return a.compare(a.arena.Get(x), a.arena.Get(y))
		})
	}

	for _, child := range children {
		a.arena.Append(id, child)
	}

	return nil
}
