package dirtree

import "fmt"

// FileCount tallies node kinds.
type FileCount struct {
	Dirs  int `json:"dirs"`
	Files int `json:"files"`
	Links int `json:"links"`
}

func (c *FileCount) update(n *Node) {
	switch {
	case n.Entry().Link:
		c.Links++
	case n.IsDir():
		c.Dirs++
	default:
		c.Files++
	}
}

func (c FileCount) String() string {
	return fmt.Sprintf("%s, %s, %s",
		plural(c.Dirs, "directory", "directories"),
		plural(c.Files, "file", "files"),
		plural(c.Links, "link", "links"))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}

	return fmt.Sprintf("%d %s", n, many)
}
