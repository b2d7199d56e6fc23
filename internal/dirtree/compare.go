package dirtree

import (
	"cmp"
	"fmt"
	"strings"
)

// SortKey selects how siblings are ordered.
type SortKey uint8

const (
	// SortNone keeps the order in which entries were collected.
	SortNone SortKey = iota
	// SortName orders by file name.
	SortName
	// SortSize orders by own or aggregate size.
	SortSize
	// SortType orders directories before files, then by name.
	SortType
)

func (k SortKey) String() string {
	switch k {
	case SortName:
		return "name"
	case SortSize:
		return "size"
	case SortType:
		return "type"
	default:
		return "none"
	}
}

// ParseSortKey parses one of none, name, size or type.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(s) {
	case "none", "":
		return SortNone, nil
	case "name":
		return SortName, nil
	case "size":
		return SortSize, nil
	case "type":
		return SortType, nil
	default:
		return SortNone, fmt.Errorf("unknown sort key %q: must be one of none, name, size, type", s)
	}
}

// Comparator returns the ordering for key, or nil for SortNone.
// Equal nodes compare as 0 so a stable sort keeps their collected order.
func Comparator(key SortKey, reverse bool) func(a, b *Node) int {
	var compare func(a, b *Node) int

	switch key {
	case SortName:
		compare = byName
	case SortSize:
		compare = bySize
	case SortType:
		compare = byType
	default:
		return nil
	}

	if reverse {
		return func(a, b *Node) int { return compare(b, a) }
	}

	return compare
}

func byName(a, b *Node) int {
	return strings.Compare(a.Name(), b.Name())
}

func bySize(a, b *Node) int {
	return cmp.Compare(a.Bytes(), b.Bytes())
}

func byType(a, b *Node) int {
	if c := cmp.Compare(typeRank(a), typeRank(b)); c != 0 {
		return c
	}

	return byName(a, b)
}

func typeRank(n *Node) int {
	switch n.Kind() {
	case KindDir:
		return 0
	case KindFile:
		return 1
	case KindSymlink:
		return 2
	default:
		return 3
	}
}
