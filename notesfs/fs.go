package notesfs

import (
	"context"
	"os"
	"sync"
	"syscall"
	"time"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
	"github.com/dendrascience/notesfs/notes"
	"github.com/taigrr/colorhash"
)

// FS serves a parsed container tree as a read-only filesystem.
type FS struct {
	tree     *notes.Tree
	modified time.Time
	mu       sync.RWMutex // Protects tree and modified
}

// NewFS creates a filesystem over t. Every node reports modified as its
// modification time, the container having no per-record timestamps.
func NewFS(t *notes.Tree, modified time.Time) *FS {
	return &FS{tree: t, modified: modified}
}

// Reload swaps in a freshly parsed tree. Nodes handed out earlier resolve
// by path against the new tree; those whose path is gone report ENOENT.
func (f *FS) Reload(t *notes.Tree, modified time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tree = t
	f.modified = modified
}

// Root returns the root directory node
func (f *FS) Root() (fs.Node, error) {
	return &Dir{fs: f}, nil
}

// node resolves path against the current tree, checking it still has the
// expected kind. The read lock must be held.
func (f *FS) node(path string, kind notes.Kind) (notes.NodeID, *notes.Node, error) {
	id, ok := f.tree.Lookup(path)
	if !ok {
		return 0, nil, syscall.ENOENT
	}
	n := f.tree.Node(id)
	if n.Deleted || n.Kind != kind {
		return 0, nil, syscall.ENOENT
	}
	return id, n, nil
}

// inode derives a stable inode number from an internal path, so a path
// keeps its number across reloads. The root is 1; every other path lands
// above 1<<32.
func inode(path string) uint64 {
	if path == "" {
		return 1
	}
	return 1<<32 | uint64(uint32(colorhash.HashString(path)))
}

// Dir is a directory of the container. The root has the empty path.
type Dir struct {
	fs   *FS
	path string
}

// Attr returns directory attributes
func (d *Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	d.fs.mu.RLock()
	defer d.fs.mu.RUnlock()

	if _, _, err := d.fs.node(d.path, notes.KindDirectory); err != nil {
		return err
	}
	a.Inode = inode(d.path)
	a.Mode = os.ModeDir | 0o555
	a.Mtime = d.fs.modified
	a.Ctime = d.fs.modified
	a.Atime = d.fs.modified
	return nil
}

// Lookup resolves a child by name.
func (d *Dir) Lookup(ctx context.Context, name string) (fs.Node, error) {
	d.fs.mu.RLock()
	defer d.fs.mu.RUnlock()

	id, _, err := d.fs.node(d.path, notes.KindDirectory)
	if err != nil {
		return nil, err
	}
	for _, cid := range d.fs.tree.Children(id) {
		child := d.fs.tree.Node(cid)
		if child.Name != name {
			continue
		}
		switch child.Kind {
		case notes.KindDirectory:
			return &Dir{fs: d.fs, path: child.Path}, nil
		case notes.KindFile:
			return &File{fs: d.fs, path: child.Path}, nil
		}
	}
	return nil, syscall.ENOENT
}

// ReadDirAll lists the live children in tree order.
func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	d.fs.mu.RLock()
	defer d.fs.mu.RUnlock()

	id, _, err := d.fs.node(d.path, notes.KindDirectory)
	if err != nil {
		return nil, err
	}
	children := d.fs.tree.Children(id)
	dirents := make([]fuse.Dirent, 0, len(children))
	for _, cid := range children {
		child := d.fs.tree.Node(cid)
		dirent := fuse.Dirent{Inode: inode(child.Path), Name: child.Name}
		switch child.Kind {
		case notes.KindDirectory:
			dirent.Type = fuse.DT_Dir
		case notes.KindFile:
			dirent.Type = fuse.DT_File
		}
		dirents = append(dirents, dirent)
	}
	return dirents, nil
}

// File is a file of the container.
type File struct {
	fs   *FS
	path string
}

// Attr returns file attributes
func (f *File) Attr(ctx context.Context, a *fuse.Attr) error {
	f.fs.mu.RLock()
	defer f.fs.mu.RUnlock()

	_, n, err := f.fs.node(f.path, notes.KindFile)
	if err != nil {
		return err
	}
	a.Inode = inode(f.path)
	a.Mode = 0o444
	a.Size = uint64(len(n.Content))
	a.Mtime = f.fs.modified
	a.Ctime = f.fs.modified
	a.Atime = f.fs.modified
	return nil
}

// ReadAll returns the file content.
func (f *File) ReadAll(ctx context.Context) ([]byte, error) {
	f.fs.mu.RLock()
	defer f.fs.mu.RUnlock()

	_, n, err := f.fs.node(f.path, notes.KindFile)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), n.Content...), nil
}
