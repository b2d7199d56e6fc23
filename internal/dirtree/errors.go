package dirtree

import "errors"

var (
	// ErrRootNotFound is returned when the root cannot be resolved or its metadata cannot be read.
	ErrRootNotFound = errors.New("root not found")
	// ErrRootNotDirectory is returned when the root exists but is not a directory.
	ErrRootNotDirectory = errors.New("root is not a directory")
	// ErrMissingRoot is returned when the walk finished without producing the root entry.
	ErrMissingRoot = errors.New("walk produced no root entry")
	// ErrExpectedParent is returned when a non-root entry has no parent path.
	ErrExpectedParent = errors.New("entry has no parent")
	// ErrMissingBranch is returned when a directory has no pending-children list at assembly time.
	ErrMissingBranch = errors.New("directory has no collected children")
)
