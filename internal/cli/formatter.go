package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/idelchi/dirtree/internal/dirtree"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
)

// Tree guides.
const (
	branchMiddle = "├── "
	branchLast   = "└── "
	guideOpen    = "│   "
	guideBlank   = "    "
)

// styles colors node names and sizes in the tree view.
type styles struct {
	dir  lipgloss.Style
	link lipgloss.Style
	size lipgloss.Style
}

// newStyles binds styles to writer. Without color every style renders plain text.
func newStyles(writer io.Writer, color bool) styles {
	renderer := lipgloss.NewRenderer(writer)
	if !color {
		renderer.SetColorProfile(termenv.Ascii)
	}

	return styles{
		dir:  renderer.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		link: renderer.NewStyle().Foreground(lipgloss.Color("14")),
		size: renderer.NewStyle().Foreground(lipgloss.Color("10")),
	}
}

func (st styles) name(node *dirtree.Node) string {
	switch {
	case node.Entry().Link:
		return st.link.Render(node.Name())
	case node.IsDir():
		return st.dir.Render(node.Name())
	default:
		return node.Name()
	}
}

// visible reports whether a node at depth is within the display level.
func visible(tree *dirtree.Tree, depth int) bool {
	level := tree.Options().Level

	return level == 0 || depth <= level
}

// sizeText formats the own or aggregate size, or "" when absent.
func sizeText(node *dirtree.Node) string {
	size, ok := node.Size()
	if !ok {
		return ""
	}

	return size.Format()
}

// relativePath returns the slash path of node relative to the tree root.
func relativePath(tree *dirtree.Tree, node *dirtree.Node) string {
	rel, err := filepath.Rel(tree.Node(tree.Root()).Path(), node.Path())
	if err != nil {
		return node.Path()
	}

	return filepath.ToSlash(rel)
}

// PrintTree outputs the tree with box-drawing guides, truncated at the display level.
func PrintTree(tree *dirtree.Tree, writer io.Writer, st styles) error {
	out := bufio.NewWriter(writer)

	width := 0

	for id := range tree.Descendants(tree.Root()) {
		node := tree.Node(id)
		if visible(tree, node.Depth()) {
			width = max(width, len(sizeText(node)))
		}
	}

	line := func(node *dirtree.Node, prefix string) {
		fmt.Fprintf(out, "%s %s%s\n",
			st.size.Render(fmt.Sprintf("%*s", width, sizeText(node))), prefix, st.name(node))
	}

	var children func(id dirtree.NodeID, indent string, depth int)

	children = func(id dirtree.NodeID, indent string, depth int) {
		if !visible(tree, depth) {
			return
		}

		ids := slices.Collect(tree.Children(id))

		for i, child := range ids {
			branch, guide := branchMiddle, guideOpen
			if i == len(ids)-1 {
				branch, guide = branchLast, guideBlank
			}

			node := tree.Node(child)
			line(node, indent+branch)

			if node.IsDir() {
				children(child, indent+guide, depth+1)
			}
		}
	}

	line(tree.Node(tree.Root()), "")
	children(tree.Root(), "", 1)

	fmt.Fprintf(out, "\n%s\n", tree.TotalCount())

	return out.Flush()
}

// PrintReport outputs one line per node with its kind, size and path.
func PrintReport(tree *dirtree.Tree, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	fmt.Fprintln(w, "Kind\tSize\tPath")

	for id := range tree.Descendants(tree.Root()) {
		node := tree.Node(id)
		if !visible(tree, node.Depth()) {
			continue
		}

		size := sizeText(node)
		if size == "" {
			size = "-"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\n", node.Kind(), size, relativePath(tree, node))
	}

	fmt.Fprintf(w, "\nTotal:\t%s\n", tree.TotalCount())

	return w.Flush()
}

// PrintPaths outputs one path per line, joined to the root as it was given.
func PrintPaths(tree *dirtree.Tree, writer io.Writer) error {
	out := bufio.NewWriter(writer)
	base := tree.Options().Path

	for id := range tree.Descendants(tree.Root()) {
		node := tree.Node(id)
		if !visible(tree, node.Depth()) {
			continue
		}

		fmt.Fprintln(out, filepath.Join(base, filepath.FromSlash(relativePath(tree, node))))
	}

	return out.Flush()
}

type jsonNode struct {
	Name     string     `json:"name"`
	Path     string     `json:"path"`
	Kind     string     `json:"kind"`
	Size     *uint64    `json:"size,omitempty"`
	Children []jsonNode `json:"children,omitempty"`
}

type jsonTree struct {
	Root   jsonNode          `json:"root"`
	Count  dirtree.FileCount `json:"count"`
	Errors int64             `json:"errors"`
}

func toJSON(tree *dirtree.Tree, id dirtree.NodeID) jsonNode {
	node := tree.Node(id)
	out := jsonNode{
		Name: node.Name(),
		Path: relativePath(tree, node),
		Kind: node.Kind().String(),
	}

	if size, ok := node.Size(); ok {
		bytes := size.Bytes
		out.Size = &bytes
	}

	if visible(tree, node.Depth()+1) {
		for child := range tree.Children(id) {
			out.Children = append(out.Children, toJSON(tree, child))
		}
	}

	return out
}

// PrintJSON outputs the tree as nested JSON, truncated at the display level.
func PrintJSON(tree *dirtree.Tree, writer io.Writer) error {
	data, err := json.MarshalIndent(jsonTree{
		Root:   toJSON(tree, tree.Root()),
		Count:  tree.TotalCount(),
		Errors: tree.Errors(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}
