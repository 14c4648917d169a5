package notes

import (
	"strings"

	"github.com/pkg/errors"
)

// Kind distinguishes the two node variants.
type Kind uint8

const (
	KindDirectory Kind = iota
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

// NodeID is a handle into a Tree's node arena.
type NodeID int

// RootID is the synthetic root directory standing for the container itself.
// It is never written to the log.
const RootID NodeID = 0

// noNode marks an absent parent or an unset current file.
const noNode NodeID = -1

// Node is one entry of the tree. Directories own Children, files own
// Content; the other field is always empty. Parent is a non-owning handle.
type Node struct {
	Kind     Kind
	Name     string
	Path     string
	Parent   NodeID
	Children []NodeID
	Content  []byte

	// Deleted marks a tombstone kept for round-trip rewriting. Tombstones
	// hang off the root but are never listed among its children.
	Deleted bool
	// Declared is set on directories that have their own record in the log,
	// as opposed to ones created while walking an intermediate segment.
	Declared bool
	// Line is the log line that declared the node, zero if synthesised.
	Line int
}

// IsDir reports whether the node is a live directory.
func (n *Node) IsDir() bool { return n.Kind == KindDirectory && !n.Deleted }

// Tree is the in-memory form of a container: an arena of nodes rooted at
// RootID plus the flat list of records in log order.
type Tree struct {
	nodes   []Node
	records []NodeID
	issues  []Issue
}

// NewTree returns a tree holding only the root directory.
func NewTree() *Tree {
	return &Tree{
		nodes: []Node{{Kind: KindDirectory, Parent: noNode, Declared: true}},
	}
}

// Node returns the node behind id. The pointer is only valid until the next
// node is added to the tree.
func (t *Tree) Node(id NodeID) *Node { return &t.nodes[id] }

// Root returns the root directory.
func (t *Tree) Root() *Node { return &t.nodes[RootID] }

// Len returns the number of nodes in the arena, the root included.
func (t *Tree) Len() int { return len(t.nodes) }

// Records returns the flat record list in log order: declared directories,
// files and tombstones.
func (t *Tree) Records() []NodeID { return t.records }

// Issues returns the problems recorded by a lenient parse.
func (t *Tree) Issues() []Issue { return t.issues }

// Children returns the children of a directory node.
func (t *Tree) Children(id NodeID) []NodeID { return t.nodes[id].Children }

func (t *Tree) child(dir NodeID, name string) (NodeID, bool) {
	for _, id := range t.nodes[dir].Children {
		if t.nodes[id].Name == name {
			return id, true
		}
	}
	return noNode, false
}

func (t *Tree) add(n Node) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, n)
	if n.Parent != noNode && !n.Deleted {
		t.nodes[n.Parent].Children = append(t.nodes[n.Parent].Children, id)
	}
	return id
}

func (t *Tree) addDir(parent NodeID, name string, line int) NodeID {
	return t.add(Node{
		Kind:   KindDirectory,
		Name:   name,
		Path:   t.nodes[parent].Path + name + string(Separator),
		Parent: parent,
		Line:   line,
	})
}

func (t *Tree) addFile(parent NodeID, name string, line int) NodeID {
	return t.add(Node{
		Kind:   KindFile,
		Name:   name,
		Path:   t.nodes[parent].Path + name,
		Parent: parent,
		Line:   line,
	})
}

func (t *Tree) addTombstone(payload string, line int) NodeID {
	return t.add(Node{
		Kind:    KindFile,
		Name:    payload,
		Path:    payload,
		Parent:  RootID,
		Deleted: true,
		Line:    line,
	})
}

// Lookup finds the live node at path. Directory paths end with the
// separator, file paths do not; the empty path is the root.
func (t *Tree) Lookup(path string) (NodeID, bool) {
	if path == "" {
		return RootID, true
	}
	isDir := strings.HasSuffix(path, string(Separator))
	parents, name := splitPath(path)

	dir := RootID
	for _, segment := range parents {
		id, ok := t.child(dir, segment)
		if !ok || t.nodes[id].Kind != KindDirectory {
			return noNode, false
		}
		dir = id
	}
	id, ok := t.child(dir, name)
	if !ok || (t.nodes[id].Kind == KindDirectory) != isDir {
		return noNode, false
	}
	return id, true
}

// MkdirAll declares the directory at path and any missing ancestors.
func (t *Tree) MkdirAll(path string) (NodeID, error) {
	if err := ValidatePath(path, true); err != nil {
		return noNode, err
	}
	parents, name := splitPath(path)
	dir, err := t.walk(append(parents, name), path, true, 0)
	if err != nil {
		return noNode, err
	}
	if !t.nodes[dir].Declared {
		t.nodes[dir].Declared = true
		t.records = append(t.records, dir)
	}
	return dir, nil
}

// AddFile adds a file at path holding content, creating missing parent
// directories. It fails if anything already exists at path.
func (t *Tree) AddFile(path string, content []byte) (NodeID, error) {
	if err := ValidatePath(path, false); err != nil {
		return noNode, err
	}
	parents, name := splitPath(path)
	dir, err := t.walk(parents, path, true, 0)
	if err != nil {
		return noNode, err
	}
	if _, ok := t.child(dir, name); ok {
		return noNode, &RecordError{Op: "add", Path: path, Err: ErrDuplicateRecord}
	}
	id := t.addFile(dir, name, 0)
	t.nodes[id].Content = append([]byte(nil), content...)
	t.records = append(t.records, id)
	return id, nil
}

// walk descends from the root through segments, creating missing
// directories when create is set. Directories created here are not declared.
func (t *Tree) walk(segments []string, path string, create bool, line int) (NodeID, error) {
	dir := RootID
	for _, segment := range segments {
		id, ok := t.child(dir, segment)
		switch {
		case !ok && !create:
			return noNode, &RecordError{Op: "walk", Path: path,
				Err: errors.Wrapf(ErrMissingIntermediateDirectory, "%q", t.nodes[dir].Path+segment+string(Separator))}
		case !ok:
			id = t.addDir(dir, segment, line)
		case t.nodes[id].Kind != KindDirectory:
			return noNode, &RecordError{Op: "walk", Path: path,
				Err: errors.Wrapf(ErrDuplicateRecord, "%q is a file", t.nodes[id].Path)}
		}
		dir = id
	}
	return dir, nil
}

// Walk visits every live node below the root depth first, in child order,
// parents before their children.
func (t *Tree) Walk(fn func(id NodeID, n *Node) error) error {
	return t.walkDir(RootID, fn)
}

func (t *Tree) walkDir(dir NodeID, fn func(NodeID, *Node) error) error {
	for _, id := range t.nodes[dir].Children {
		if err := fn(id, &t.nodes[id]); err != nil {
			return err
		}
		if t.nodes[id].Kind == KindDirectory {
			if err := t.walkDir(id, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Files returns every live file in Walk order.
func (t *Tree) Files() []NodeID { return t.collect(KindFile) }

// Dirs returns every live directory below the root in Walk order.
func (t *Tree) Dirs() []NodeID { return t.collect(KindDirectory) }

func (t *Tree) collect(kind Kind) []NodeID {
	var out []NodeID
	_ = t.Walk(func(id NodeID, n *Node) error {
		if n.Kind == kind {
			out = append(out, id)
		}
		return nil
	})
	return out
}
