package dirtree

// prune removes empty directories below root until none are left.
// The root itself is never removed.
func prune(arena *Arena, root NodeID) {
	for {
		var empty []NodeID

		for id := range arena.Descendants(root) {
			if id == root {
				continue
			}

			if arena.Get(id).IsDir() && !arena.HasChildren(id) {
				empty = append(empty, id)
			}
		}

		if len(empty) == 0 {
			return
		}

		for _, id := range empty {
			arena.RemoveSubtree(id)
		}
	}
}

// filterDirectories detaches every non-directory below root.
func filterDirectories(arena *Arena, root NodeID) {
	var files []NodeID

	for id := range arena.Descendants(root) {
		if id != root && !arena.Get(id).IsDir() {
			files = append(files, id)
		}
	}

	for _, id := range files {
		arena.Detach(id)
	}
}
