package notes

import (
	"slices"
	"strings"
)

// Sort puts the children of dir, and recursively of every directory below
// it, in canonical order: directories before files, each group ascending by
// name. Subdirectories are sorted before their parent's children are
// compared. Sorting an already sorted tree changes nothing.
func Sort(t *Tree, dir NodeID) {
	if t.nodes[dir].Kind != KindDirectory {
		return
	}
	children := t.nodes[dir].Children
	for _, id := range children {
		if t.nodes[id].Kind == KindDirectory {
			Sort(t, id)
		}
	}
	slices.SortFunc(children, func(a, b NodeID) int {
		return compareNodes(&t.nodes[a], &t.nodes[b])
	})
}

func compareNodes(a, b *Node) int {
	if a.Kind != b.Kind {
		if a.Kind == KindDirectory {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Name, b.Name)
}
