package dirtree

import (
	"context"
	"path/filepath"
	"testing"
)

func p(path string) string {
	return filepath.FromSlash(path)
}

func dirEntry(path string, depth int) *Entry {
	return &Entry{Path: p(path), Depth: depth, Kind: KindDir}
}

func fileEntry(path string, depth int, size uint64) *Entry {
	return &Entry{Path: p(path), Depth: depth, Kind: KindFile, Length: size, Blocks: size}
}

// collectEntries feeds entries to a collector in the given order.
func collectEntries(t *testing.T, entries ...*Entry) (*collection, error) {
	t.Helper()

	events := make(chan event, len(entries)+1)
	for _, e := range entries {
		events <- event{entry: e}
	}
	events <- event{done: true}

	return newCollector(SizePolicy{}).run(context.Background(), events)
}

// buildEntries collects and assembles entries, failing the test on error.
func buildEntries(t *testing.T, compare func(a, b *Node) int, entries ...*Entry) (*Arena, NodeID) {
	t.Helper()

	c, err := collectEntries(t, entries...)
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}

	if err := assemble(c, SizePolicy{}, compare); err != nil {
		t.Fatalf("assemble failed: %v", err)
	}

	return c.arena, c.root
}

func childNames(arena *Arena, id NodeID) []string {
	var names []string
	for child := range arena.Children(id) {
		names = append(names, arena.Get(child).Name())
	}

	return names
}

func findNode(t *testing.T, arena *Arena, root NodeID, path string) NodeID {
	t.Helper()

	for id := range arena.Descendants(root) {
		if arena.Get(id).Path() == p(path) {
			return id
		}
	}

	t.Fatalf("node %s not reachable from root", path)

	return None
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
