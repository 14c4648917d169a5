// Package notesfs exposes a .notes container as a read-only FUSE
// filesystem using bazil.org/fuse.
//
// The container is parsed once into a notes.Tree and served from memory.
// Directory and file nodes are handles holding an internal path, resolved
// against the current tree on every call. Inode numbers are hashed from the
// path, the root being inode 1. Reload replaces the tree, so a mount can
// pick up changes made to the container by the notes command without being
// remounted; handles whose path is gone report ENOENT.
package notesfs
