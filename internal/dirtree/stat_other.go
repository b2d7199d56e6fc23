//go:build !unix

package dirtree

import "io/fs"

// platformStat reports nothing where Sys() carries no inode numbers.
func platformStat(fs.FileInfo) (*Inode, uint64, bool) {
	return nil, 0, false
}
