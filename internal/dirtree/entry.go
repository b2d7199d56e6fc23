package dirtree

import (
	"io/fs"
	"path/filepath"
)

// Kind represents the type of filesystem entry.
type Kind uint8

const (
	KindFile Kind = iota
	KindDir
	KindSymlink
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	case KindSymlink:
		return "symlink"
	default:
		return "other"
	}
}

// kindFromMode derives the Kind from a file mode.
func kindFromMode(mode fs.FileMode) Kind {
	switch {
	case mode.IsRegular():
		return KindFile
	case mode.IsDir():
		return KindDir
	case mode&fs.ModeSymlink != 0:
		return KindSymlink
	default:
		return KindOther
	}
}

// Inode identifies the storage behind an entry.
type Inode struct {
	Dev   uint64
	Ino   uint64
	Nlink uint64
}

type inodeKey struct {
	dev uint64
	ino uint64
}

func (i Inode) key() inodeKey {
	return inodeKey{dev: i.Dev, ino: i.Ino}
}

// Entry describes a single filesystem object discovered by the walk.
// It is immutable once created.
type Entry struct {
	// Path is the absolute path of the entry.
	Path string
	// Depth is the distance from the root (root = 0).
	Depth int
	// Kind is the resolved type. A followed symbolic link reports the type of its target.
	Kind Kind
	// Link is true when the entry itself is a symbolic link.
	Link bool
	// Length is the apparent size in bytes. Zero for anything but files.
	Length uint64
	// Blocks is the allocated size in bytes, or Length where the platform does not report it.
	Blocks uint64
	// Inode is set for non-directories on platforms that expose device and inode numbers.
	Inode *Inode
}

// newEntry builds an Entry from the metadata gathered by the walker.
func newEntry(path string, depth int, link bool, info fs.FileInfo) *Entry {
	entry := &Entry{
		Path:  path,
		Depth: depth,
		Kind:  kindFromMode(info.Mode()),
		Link:  link,
	}

	if entry.Kind == KindFile {
		entry.Length = uint64(info.Size()) //nolint:gosec // Sizes are never negative
	}

	entry.Blocks = entry.Length

	inode, blocks, ok := platformStat(info)
	if ok {
		if entry.Kind == KindFile {
			entry.Blocks = blocks
		}
		// Directories report nlink > 1 for every subdirectory.
		if entry.Kind != KindDir {
			entry.Inode = inode
		}
	}

	return entry
}

// Name returns the last element of the entry path.
func (e *Entry) Name() string {
	return filepath.Base(e.Path)
}

// IsDir reports whether the entry is (or resolves to) a directory.
func (e *Entry) IsDir() bool {
	return e.Kind == KindDir
}

// ParentPath returns the path of the directory containing the entry.
func (e *Entry) ParentPath() (string, bool) {
	if e.Depth == 0 {
		return "", false
	}

	parent := filepath.Dir(e.Path)
	if parent == e.Path {
		return "", false
	}

	return parent, true
}

// Bytes returns the size of the entry under the given disk usage policy.
func (e *Entry) Bytes(usage DiskUsage) uint64 {
	if usage == Physical {
		return e.Blocks
	}

	return e.Length
}
