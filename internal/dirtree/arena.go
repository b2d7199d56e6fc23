package dirtree

import "iter"

// NodeID is a stable handle to a node in an Arena.
type NodeID int

// None is the absent handle.
const None NodeID = -1

// Node wraps an Entry with its size and structural links.
type Node struct {
	entry   *Entry
	size    Size
	hasSize bool

	parent     NodeID
	firstChild NodeID
	lastChild  NodeID
	prev       NodeID
	next       NodeID
	removed    bool
}

// Entry returns the underlying entry.
func (n *Node) Entry() *Entry { return n.entry }

// Path returns the absolute path of the node.
func (n *Node) Path() string { return n.entry.Path }

// Name returns the base name of the node.
func (n *Node) Name() string { return n.entry.Name() }

// Kind returns the entry kind.
func (n *Node) Kind() Kind { return n.entry.Kind }

// IsDir reports whether the node is a directory.
func (n *Node) IsDir() bool { return n.entry.IsDir() }

// Depth returns the distance from the root.
func (n *Node) Depth() int { return n.entry.Depth }

// Size returns the own size of a file or the aggregate size of a directory.
// The second result is false when no size is known.
func (n *Node) Size() (Size, bool) { return n.size, n.hasSize }

// Bytes returns the known size in bytes, or zero.
func (n *Node) Bytes() uint64 {
	if !n.hasSize {
		return 0
	}

	return n.size.Bytes
}

func (n *Node) setSize(size Size) {
	n.size = size
	n.hasSize = true
}

// Arena is a pool of nodes addressed by NodeID. Parent, child and sibling
// relationships are handles, so navigation in any direction is O(1).
type Arena struct {
	nodes []Node
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// NewNode stores entry as a detached node and returns its handle.
func (a *Arena) NewNode(entry *Entry) NodeID {
	a.nodes = append(a.nodes, Node{
		entry:      entry,
		parent:     None,
		firstChild: None,
		lastChild:  None,
		prev:       None,
		next:       None,
	})

	return NodeID(len(a.nodes) - 1)
}

// Get returns the node for id.
func (a *Arena) Get(id NodeID) *Node {
	return &a.nodes[id]
}

// Len returns the number of nodes ever stored, detached or removed included.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// Parent returns the parent of id, or None.
func (a *Arena) Parent(id NodeID) NodeID {
	return a.nodes[id].parent
}

// HasChildren reports whether id has at least one attached child.
func (a *Arena) HasChildren(id NodeID) bool {
	return a.nodes[id].firstChild != None
}

// Removed reports whether id was discarded by RemoveSubtree.
func (a *Arena) Removed(id NodeID) bool {
	return a.nodes[id].removed
}

// Append attaches child as the last child of parent, detaching it first.
func (a *Arena) Append(parent, child NodeID) {
	a.Detach(child)

	c := &a.nodes[child]
	p := &a.nodes[parent]

	c.parent = parent
	c.prev = p.lastChild

	if p.lastChild != None {
		a.nodes[p.lastChild].next = child
	} else {
		p.firstChild = child
	}

	p.lastChild = child
}

// Detach unlinks id from its parent and siblings. The subtree below id stays intact.
func (a *Arena) Detach(id NodeID) {
	n := &a.nodes[id]

	if n.prev != None {
		a.nodes[n.prev].next = n.next
	} else if n.parent != None {
		a.nodes[n.parent].firstChild = n.next
	}

	if n.next != None {
		a.nodes[n.next].prev = n.prev
	} else if n.parent != None {
		a.nodes[n.parent].lastChild = n.prev
	}

	n.parent, n.prev, n.next = None, None, None
}

// RemoveSubtree detaches id and marks it and all of its descendants removed.
func (a *Arena) RemoveSubtree(id NodeID) {
	a.Detach(id)

	for descendant := range a.Descendants(id) {
		a.nodes[descendant].removed = true
	}
}

// Children yields the children of id in order.
func (a *Arena) Children(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		for child := a.nodes[id].firstChild; child != None; child = a.nodes[child].next {
			if !yield(child) {
				return
			}
		}
	}
}

// Descendants yields id and everything below it in depth-first pre-order.
func (a *Arena) Descendants(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		current := id

		for {
			if !yield(current) {
				return
			}

			if first := a.nodes[current].firstChild; first != None {
				current = first

				continue
			}

			for current != id && a.nodes[current].next == None {
				current = a.nodes[current].parent
			}

			if current == id {
				return
			}

			current = a.nodes[current].next
		}
	}
}
