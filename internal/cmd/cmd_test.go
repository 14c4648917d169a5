package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/dendrascience/notesfs/config"
	"github.com/dendrascience/notesfs/util"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useMemFs points the commands at a fresh in-memory filesystem for the
// duration of the test.
func useMemFs(t *testing.T) afero.Fs {
	t.Helper()
	t.Setenv(config.EnvConfigFile, "")
	fsys := afero.NewMemMapFs()
	prev := hostFs
	hostFs = fsys
	t.Cleanup(func() {
		hostFs = prev
		cfg = config.NewDefaultConfig()
	})
	return fsys
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, out)
	return out
}

func readFile(t *testing.T, fsys afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fsys, path)
	require.NoError(t, err)
	return string(data)
}

func TestContainerWorkflow(t *testing.T) {
	fsys := useMemFs(t)
	require.NoError(t, afero.WriteFile(fsys, "/host/a.txt", []byte("line1\n"), 0o644))

	mustRun(t, "init", "/c.notes")
	mustRun(t, "mkdir", "/c.notes", "docs")
	mustRun(t, "copyin", "/c.notes", "/host/a.txt", "docs/a.txt")
	assert.Equal(t, "NOTES V1.0\n=docs/\n@docs/a.txt\n line1\n", readFile(t, fsys, "/c.notes"))

	out := mustRun(t, "list", "/c.notes", "--checksum")
	assert.Contains(t, out, "docs/a.txt")
	assert.Contains(t, out, util.ShortHash(util.ContentHash([]byte("line1\n"))))

	mustRun(t, "copyout", "/c.notes", "docs/a.txt", "/host/out.txt")
	assert.Equal(t, "line1\n", readFile(t, fsys, "/host/out.txt"))

	_, err := run(t, "copyin", "/c.notes", "/host/a.txt", "docs/a.txt")
	assert.Error(t, err, "existing file needs --force")
	mustRun(t, "copyin", "--force", "/c.notes", "/host/a.txt", "docs/a.txt")

	mustRun(t, "rm", "/c.notes", "docs/a.txt")
	_, err = run(t, "copyout", "/c.notes", "docs/a.txt", "/host/out.txt")
	assert.Error(t, err)

	out = mustRun(t, "list", "--deleted", "/c.notes")
	assert.Contains(t, out, "#")

	out = mustRun(t, "defrag", "/c.notes")
	assert.Contains(t, out, "Defragmented /c.notes")
	assert.Equal(t, "NOTES V1.0\n=docs/\n", readFile(t, fsys, "/c.notes"))

	mustRun(t, "rmdir", "/c.notes", "docs")
	assert.Equal(t, "NOTES V1.0\n#docs/\n", readFile(t, fsys, "/c.notes"))
}

func TestCopyInParents(t *testing.T) {
	fsys := useMemFs(t)
	require.NoError(t, afero.WriteFile(fsys, "/a.txt", []byte("x\n"), 0o644))
	mustRun(t, "init", "/c.notes")

	_, err := run(t, "copyin", "/c.notes", "/a.txt", "deep/a.txt")
	assert.Error(t, err)

	mustRun(t, "copyin", "-p", "/c.notes", "/a.txt", "deep/a.txt")
	assert.Equal(t, "NOTES V1.0\n=deep/\n@deep/a.txt\n x\n", readFile(t, fsys, "/c.notes"))
}

func TestCopyInBinary(t *testing.T) {
	fsys := useMemFs(t)
	blob := []byte{0x00, 0x01, 0xff, 0xfe, '\n', 0x00}
	require.NoError(t, afero.WriteFile(fsys, "/blob.bin", blob, 0o644))
	mustRun(t, "init", "/c.notes")

	out := mustRun(t, "copyin", "/c.notes", "/blob.bin", "blob")
	assert.Contains(t, out, "base64")

	mustRun(t, "copyout", "--binary", "/c.notes", "blob", "/restored.bin")
	assert.Equal(t, string(blob), readFile(t, fsys, "/restored.bin"))
}

func TestCopyInRejectsBinaryWithoutAutoBinary(t *testing.T) {
	fsys := useMemFs(t)
	require.NoError(t, afero.WriteFile(fsys, "/blob.bin", []byte{0x00}, 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/notes.yaml", []byte("auto_binary: false\n"), 0o644))
	mustRun(t, "init", "/c.notes")

	_, err := run(t, "--config", "/notes.yaml", "copyin", "/c.notes", "/blob.bin", "blob")
	assert.ErrorContains(t, err, "not text")
}

func TestConfigDefaultsForFlags(t *testing.T) {
	fsys := useMemFs(t)
	require.NoError(t, afero.WriteFile(fsys, "/a.txt", []byte("x\n"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/notes.json", []byte(`{"create_parents": true}`), 0o644))
	t.Setenv(config.EnvConfigFile, "/notes.json")

	mustRun(t, "init", "/c.notes")
	mustRun(t, "copyin", "/c.notes", "/a.txt", "deep/a.txt")
	assert.Contains(t, readFile(t, fsys, "/c.notes"), "=deep/\n")

	_, err := run(t, "--config", "/missing.yaml", "list", "/c.notes")
	assert.Error(t, err)
}

func TestCompressedContainerCommands(t *testing.T) {
	fsys := useMemFs(t)
	require.NoError(t, afero.WriteFile(fsys, "/a.txt", []byte("hello\n"), 0o644))

	mustRun(t, "init", "/c.notes.gz")
	mustRun(t, "copyin", "/c.notes.gz", "/a.txt", "a.txt")
	mustRun(t, "copyout", "/c.notes.gz", "a.txt", "/b.txt")
	assert.Equal(t, "hello\n", readFile(t, fsys, "/b.txt"))

	entries, err := afero.ReadDir(fsys, "/")
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"a.txt", "b.txt", "c.notes.gz"}, names)
}

func TestValidateCmd(t *testing.T) {
	fsys := useMemFs(t)
	require.NoError(t, afero.WriteFile(fsys, "/good.notes", []byte("NOTES V1.0\n=d/\n"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/bad.notes", []byte("NOTES V1.0\n@x\n 1\n?\n"), 0o644))

	out, err := run(t, "validate", "-v", "/good.notes", "/bad.notes")
	assert.ErrorIs(t, err, ErrInvalidContainer)
	assert.Contains(t, out, "Container /good.notes is valid")
	assert.Contains(t, out, "line 4")

	out = mustRun(t, "validate", "--repair", "/bad.notes")
	assert.Contains(t, out, "Repaired /bad.notes")
	assert.Equal(t, "NOTES V1.0\n@x\n 1\n#\n", readFile(t, fsys, "/bad.notes"))

	mustRun(t, "validate", "/bad.notes")
}

func TestInfoCmd(t *testing.T) {
	fsys := useMemFs(t)
	require.NoError(t, afero.WriteFile(fsys, "/c.notes", []byte("NOTES V1.0\n=d/\n@d/a\n abc\n#old\n"), 0o644))

	out := mustRun(t, "info", "/c.notes")
	assert.Contains(t, out, "/c.notes")

	out = mustRun(t, "info", "-o", "json", "/c.notes")
	var m util.Metadata
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.Equal(t, 1, m.DirectoryCount)
	assert.Equal(t, 1, m.FileCount)
	assert.Equal(t, int64(4), m.ContentSize)
	assert.Equal(t, 1, m.TombstoneCount)

	out = mustRun(t, "info", "-o", "yaml", "/c.notes")
	assert.Contains(t, out, "file_count: 1")

	_, err := run(t, "info", "-o", "xml", "/c.notes")
	assert.Error(t, err)
}

func TestImportExport(t *testing.T) {
	fsys := useMemFs(t)
	require.NoError(t, afero.WriteFile(fsys, "/src/top.txt", []byte("top\n"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/src/a/b/deep.txt", []byte("deep\n"), 0o644))
	require.NoError(t, fsys.MkdirAll("/src/empty", 0o755))

	mustRun(t, "import", "/c.notes", "/src")
	assert.Equal(t, "NOTES V1.0\n=a/\n=a/b/\n@a/b/deep.txt\n deep\n=empty/\n@top.txt\n top\n", readFile(t, fsys, "/c.notes"))

	// Importing again into the existing container needs --force.
	_, err := run(t, "import", "/c.notes", "/src")
	assert.Error(t, err)
	mustRun(t, "import", "--force", "/c.notes", "/src")
	mustRun(t, "defrag", "/c.notes")

	mustRun(t, "export", "/c.notes", "/dst")
	assert.Equal(t, "top\n", readFile(t, fsys, "/dst/top.txt"))
	assert.Equal(t, "deep\n", readFile(t, fsys, "/dst/a/b/deep.txt"))
	ok, err := afero.IsDir(fsys, "/dst/empty")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = run(t, "import", "/other.notes", "/src/top.txt")
	assert.ErrorIs(t, err, util.ErrExpectedDirectory)
}

func TestSeedIsReproducible(t *testing.T) {
	fsys := useMemFs(t)

	mustRun(t, "seed", "--count", "50", "--seed", "42", "/one.notes")
	mustRun(t, "seed", "--count", "50", "--seed", "42", "/two.notes")
	assert.Equal(t, readFile(t, fsys, "/one.notes"), readFile(t, fsys, "/two.notes"))

	out := mustRun(t, "info", "-o", "json", "/one.notes")
	var m util.Metadata
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.Equal(t, 50, m.FileCount)

	// Seeded containers are already canonical.
	before := readFile(t, fsys, "/one.notes")
	mustRun(t, "defrag", "/one.notes")
	assert.Equal(t, before, readFile(t, fsys, "/one.notes"))
}
