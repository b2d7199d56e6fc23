// Package dirtree builds an in-memory tree of a directory hierarchy.
//
// It walks directory trees using fastwalk for parallel traversal, funnels
// every discovered entry through a single collector goroutine into an arena,
// and then assembles the arena into an ordered tree with aggregated
// directory sizes. Optional passes prune empty directories or keep only
// directories.
package dirtree
