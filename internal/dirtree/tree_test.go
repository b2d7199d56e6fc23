package dirtree

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"
)

// writeTree creates files (path -> content) below root.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for f, content := range files {
		fullPath := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to create file: %v", err)
		}
	}
}

func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()

	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(d)), 0o755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
	}
}

// reachable returns root-relative slash paths of all nodes below the root.
func reachable(tree *Tree) map[string]*Node {
	rootPath := tree.Node(tree.Root()).Path()
	nodes := make(map[string]*Node)

	for id := range tree.Descendants(tree.Root()) {
		if id == tree.Root() {
			continue
		}

		rel, _ := filepath.Rel(rootPath, tree.Node(id).Path())
		nodes[filepath.ToSlash(rel)] = tree.Node(id)
	}

	return nodes
}

func sortedKeys(nodes map[string]*Node, keep func(*Node) bool) []string {
	var keys []string
	for k, n := range nodes {
		if keep == nil || keep(n) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	return keys
}

func TestBuild_PruneScenario(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"x":   "0123456789",
		"b/y": "01234",
	})
	mkdirs(t, root, "empty")

	tree, err := Build(context.Background(), Options{Path: root, Prune: true, Sort: SortName, Threads: 4})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	nodes := reachable(tree)

	if _, ok := nodes["empty"]; ok {
		t.Error("Expected empty directory to be pruned")
	}

	if got := tree.Node(tree.Root()).Bytes(); got != 15 {
		t.Errorf("Expected root aggregate 15, got %d", got)
	}

	if got := nodes["b"].Bytes(); got != 5 {
		t.Errorf("Expected b aggregate 5, got %d", got)
	}

	if tree.Node(tree.Root()).Depth() != 0 || nodes["b/y"].Depth() != 2 {
		t.Error("Unexpected depths")
	}
}

func TestBuild_FileSetMatchesFilesystem(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"a.txt":               "a",
		"dir/b.txt":           "bb",
		"dir/nested/c.txt":    "ccc",
		"dir/nested/deep/d":   "dddd",
		"other/e.go":          "eeeee",
		".hidden/f":           "f",
		".secret":             "s",
		"logs/app.log":        "log",
		"keep.log.d/kept.txt": "k",
		".gitignore":          "*.log\n",
	}
	writeTree(t, root, files)

	tree, err := Build(context.Background(), Options{Path: root})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	got := sortedKeys(reachable(tree), func(n *Node) bool { return !n.IsDir() })
	want := []string{"a.txt", "dir/b.txt", "dir/nested/c.txt", "dir/nested/deep/d", "keep.log.d/kept.txt", "other/e.go"}

	if !slices.Equal(got, want) {
		t.Errorf("Expected files %v, got %v", want, got)
	}
}

func TestBuild_HiddenAndNoIgnore(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".hidden/f":  "f",
		"app.log":    "log",
		".gitignore": "*.log\n",
	})

	tree, err := Build(context.Background(), Options{Path: root, Hidden: true, NoIgnore: true})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	nodes := reachable(tree)
	for _, want := range []string{".hidden/f", "app.log", ".gitignore"} {
		if _, ok := nodes[want]; !ok {
			t.Errorf("Expected %s to be present", want)
		}
	}
}

func TestBuild_Globs(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"main.go":       "package main",
		"README.md":     "readme",
		"pkg/util.go":   "package pkg",
		"vendor/x/x.go": "package x",
		"pkg/notes.txt": "notes",
	})

	tree, err := Build(context.Background(), Options{Path: root, Globs: []string{"*.go", "!vendor"}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	got := sortedKeys(reachable(tree), nil)
	want := []string{"main.go", "pkg", "pkg/util.go"}

	if !slices.Equal(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestBuild_HardLinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("hard-link identity is not reported on windows")
	}

	root := t.TempDir()
	writeTree(t, root, map[string]string{"p": "01234567"})

	if err := os.Link(filepath.Join(root, "p"), filepath.Join(root, "q")); err != nil {
		t.Skipf("hard links unsupported: %v", err)
	}

	tree, err := Build(context.Background(), Options{Path: root})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	nodes := reachable(tree)
	_, hasP := nodes["p"]
	_, hasQ := nodes["q"]

	if hasP == hasQ {
		t.Errorf("Expected exactly one of p and q, got p=%v q=%v", hasP, hasQ)
	}

	if got := tree.Node(tree.Root()).Bytes(); got != 8 {
		t.Errorf("Expected root aggregate 8, got %d", got)
	}
}

func TestBuild_DirsOnly(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"f":     "12",
		"c/x":   "123",
		"a/y":   "1",
		"b/d/z": "1234",
	})

	tree, err := Build(context.Background(), Options{Path: root, DirsOnly: true, Sort: SortName})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	var names []string
	for child := range tree.Children(tree.Root()) {
		names = append(names, tree.Node(child).Name())
	}

	if !slices.Equal(names, []string{"a", "b", "c"}) {
		t.Errorf("Expected [a b c], got %v", names)
	}

	for _, n := range reachable(tree) {
		if !n.IsDir() {
			t.Errorf("Unexpected non-directory %s", n.Path())
		}
	}

	if got := tree.Node(tree.Root()).Bytes(); got != 10 {
		t.Errorf("Expected root aggregate 10, got %d", got)
	}

	if got := tree.TotalCount(); got.Dirs != 4 || got.Files != 0 {
		t.Errorf("Expected 4 directories and 0 files, got %+v", got)
	}
}

func TestBuild_FollowLinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}

	root := t.TempDir()
	target := t.TempDir()
	writeTree(t, target, map[string]string{"inside": "123"})

	if err := os.Symlink(target, filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	tree, err := Build(context.Background(), Options{Path: root})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if n := reachable(tree)["link"]; n == nil || n.Kind() != KindSymlink {
		t.Errorf("Expected unfollowed link to be a symlink node")
	}

	tree, err = Build(context.Background(), Options{Path: root, FollowLinks: true})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	nodes := reachable(tree)
	if n := nodes["link"]; n == nil || !n.IsDir() || !n.Entry().Link {
		t.Fatalf("Expected followed link to be a directory")
	}

	if _, ok := nodes["link/inside"]; !ok {
		t.Error("Expected followed link contents")
	}

	if got := tree.TotalCount(); got.Links != 1 || got.Files != 1 {
		t.Errorf("Expected 1 link and 1 file, got %+v", got)
	}
}

func TestBuild_ExcludedLinkNotFollowed(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}

	root := t.TempDir()
	outside := t.TempDir()
	writeTree(t, root, map[string]string{"real": "0123456"})

	if err := os.Link(filepath.Join(root, "real"), filepath.Join(outside, "alias")); err != nil {
		t.Skipf("hard links unsupported: %v", err)
	}

	if err := os.Symlink(outside, filepath.Join(root, ".hid")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	for range 20 {
		tree, err := Build(context.Background(), Options{Path: root, FollowLinks: true})
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}

		nodes := reachable(tree)
		if got := sortedKeys(nodes, nil); !slices.Equal(got, []string{"real"}) {
			t.Fatalf("Expected [real], got %v", got)
		}

		if got := tree.Node(tree.Root()).Bytes(); got != 7 {
			t.Fatalf("Expected root aggregate 7, got %d", got)
		}
	}
}

func TestBuild_UnreadableDirectory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on windows")
	}

	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"sibling":    "12",
		"sub/hidden": "123",
	})

	sub := filepath.Join(root, "sub")
	if err := os.Chmod(sub, 0); err != nil {
		t.Fatalf("Failed to change mode: %v", err)
	}

	t.Cleanup(func() { _ = os.Chmod(sub, 0o755) })

	tree, err := Build(context.Background(), Options{Path: root})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	nodes := reachable(tree)
	if got := sortedKeys(nodes, nil); !slices.Equal(got, []string{"sibling", "sub"}) {
		t.Errorf("Expected [sibling sub], got %v", got)
	}

	if n := nodes["sub"]; n == nil || !n.IsDir() {
		t.Fatal("Expected sub to be a directory node")
	} else if tree.arena.HasChildren(findNode(t, tree.arena, tree.Root(), n.Path())) {
		t.Error("Expected unreadable sub to have no children")
	}

	if tree.Errors() == 0 {
		t.Error("Expected the unreadable directory to be counted as an error")
	}
}

func TestBuild_RootErrors(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"file": "x"})

	if _, err := Build(context.Background(), Options{Path: filepath.Join(root, "missing")}); !errors.Is(err, ErrRootNotFound) {
		t.Errorf("Expected ErrRootNotFound, got %v", err)
	}

	if _, err := Build(context.Background(), Options{Path: filepath.Join(root, "file")}); !errors.Is(err, ErrRootNotDirectory) {
		t.Errorf("Expected ErrRootNotDirectory, got %v", err)
	}
}

func TestBuild_EmptyRoot(t *testing.T) {
	tree, err := Build(context.Background(), Options{Path: t.TempDir(), Prune: true})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if _, ok := tree.Node(tree.Root()).Size(); ok {
		t.Error("Expected empty root to have no aggregate")
	}

	if got := tree.Count(tree.Root()); got != (FileCount{}) {
		t.Errorf("Expected no children, got %+v", got)
	}
}
