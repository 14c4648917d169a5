package notesfs

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"bazil.org/fuse"
	"github.com/dendrascience/notesfs/notes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTree(t *testing.T) *notes.Tree {
	t.Helper()
	tree := notes.NewTree()
	_, err := tree.MkdirAll("docs/empty/")
	require.NoError(t, err)
	_, err = tree.AddFile("docs/readme.txt", []byte("hello\nworld\n"))
	require.NoError(t, err)
	_, err = tree.AddFile("top.txt", []byte("top\n"))
	require.NoError(t, err)
	return tree
}

func TestLookupAndRead(t *testing.T) {
	ctx := context.Background()
	modified := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	filesystem := NewFS(testTree(t), modified)

	root, err := filesystem.Root()
	require.NoError(t, err)

	var attr fuse.Attr
	require.NoError(t, root.Attr(ctx, &attr))
	assert.Equal(t, uint64(1), attr.Inode)
	assert.True(t, attr.Mode.IsDir())

	docs, err := root.(*Dir).Lookup(ctx, "docs")
	require.NoError(t, err)
	require.IsType(t, &Dir{}, docs)

	readme, err := docs.(*Dir).Lookup(ctx, "readme.txt")
	require.NoError(t, err)
	require.IsType(t, &File{}, readme)

	require.NoError(t, readme.Attr(ctx, &attr))
	assert.Equal(t, uint64(len("hello\nworld\n")), attr.Size)
	assert.Equal(t, os.FileMode(0o444), attr.Mode)
	assert.Equal(t, modified, attr.Mtime)

	data, err := readme.(*File).ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld\n", string(data))

	_, err = root.(*Dir).Lookup(ctx, "missing")
	assert.Equal(t, syscall.ENOENT, err)
}

func TestReadDirAll(t *testing.T) {
	ctx := context.Background()
	filesystem := NewFS(testTree(t), time.Now())
	root, err := filesystem.Root()
	require.NoError(t, err)

	dirents, err := root.(*Dir).ReadDirAll(ctx)
	require.NoError(t, err)

	var names []string
	for _, d := range dirents {
		names = append(names, d.Name)
		switch d.Name {
		case "docs":
			assert.Equal(t, fuse.DT_Dir, d.Type)
		case "top.txt":
			assert.Equal(t, fuse.DT_File, d.Type)
		}
	}
	assert.ElementsMatch(t, []string{"docs", "top.txt"}, names)
}

func TestReloadInvalidatesStaleNodes(t *testing.T) {
	ctx := context.Background()
	filesystem := NewFS(testTree(t), time.Now())
	root, err := filesystem.Root()
	require.NoError(t, err)

	top, err := root.(*Dir).Lookup(ctx, "top.txt")
	require.NoError(t, err)

	filesystem.Reload(notes.NewTree(), time.Now())

	_, err = top.(*File).ReadAll(ctx)
	assert.Equal(t, syscall.ENOENT, err)

	dirents, err := root.(*Dir).ReadDirAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, dirents)
}

func TestReloadDoesNotReuseHandlesForOtherFiles(t *testing.T) {
	ctx := context.Background()
	before := notes.NewTree()
	_, err := before.AddFile("secret.txt", []byte("old secret\n"))
	require.NoError(t, err)
	filesystem := NewFS(before, time.Now())
	root, err := filesystem.Root()
	require.NoError(t, err)

	secret, err := root.(*Dir).Lookup(ctx, "secret.txt")
	require.NoError(t, err)

	// other.txt takes the arena slot secret.txt had.
	after := notes.NewTree()
	otherID, err := after.AddFile("other.txt", []byte("unrelated\n"))
	require.NoError(t, err)
	secretID, ok := before.Lookup("secret.txt")
	require.True(t, ok)
	require.Equal(t, secretID, otherID)
	filesystem.Reload(after, time.Now())

	data, err := secret.(*File).ReadAll(ctx)
	assert.Equal(t, syscall.ENOENT, err)
	assert.Nil(t, data)

	var attr fuse.Attr
	assert.Equal(t, syscall.ENOENT, secret.Attr(ctx, &attr))
}

func TestReloadKeepsHandlesForSurvivingPaths(t *testing.T) {
	ctx := context.Background()
	filesystem := NewFS(testTree(t), time.Now())
	root, err := filesystem.Root()
	require.NoError(t, err)

	top, err := root.(*Dir).Lookup(ctx, "top.txt")
	require.NoError(t, err)
	var before fuse.Attr
	require.NoError(t, top.Attr(ctx, &before))

	// Same path, different position in the arena and new content.
	after := notes.NewTree()
	_, err = after.AddFile("first.txt", []byte("1\n"))
	require.NoError(t, err)
	_, err = after.AddFile("top.txt", []byte("changed\n"))
	require.NoError(t, err)
	filesystem.Reload(after, time.Now())

	data, err := top.(*File).ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "changed\n", string(data))

	var attr fuse.Attr
	require.NoError(t, top.Attr(ctx, &attr))
	assert.Equal(t, before.Inode, attr.Inode)
}

func TestInodesAreDistinctFromRoot(t *testing.T) {
	assert.Equal(t, uint64(1), inode(""))
	for _, p := range []string{"a", "a/", "docs/readme.txt", "top.txt"} {
		assert.Greater(t, inode(p), uint64(1)<<32, p)
		assert.Equal(t, inode(p), inode(p), p)
	}
	assert.NotEqual(t, inode("docs/readme.txt"), inode("top.txt"))
}
