//go:build unix

package dirtree

import (
	"io/fs"
	"syscall"
)

// blockSize is the unit of Stat_t.Blocks.
const blockSize = 512

// platformStat extracts inode identity and allocated size from file info.
//
//nolint:unconvert // Field widths differ between platforms
func platformStat(info fs.FileInfo) (*Inode, uint64, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return nil, 0, false
	}

	inode := &Inode{
		Dev:   uint64(stat.Dev), //nolint:gosec // Device numbers are never negative
		Ino:   uint64(stat.Ino),
		Nlink: uint64(stat.Nlink),
	}

	return inode, uint64(stat.Blocks) * blockSize, true //nolint:gosec // Block counts are never negative
}
