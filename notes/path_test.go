package notes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		path  string
		isDir bool
		valid bool
	}{
		{"a.txt", false, true},
		{"docs/a.txt", false, true},
		{"docs/", true, true},
		{"docs/sub/", true, true},
		{".hidden", false, true},
		{"a..b", false, true},

		{"", false, false},
		{"", true, false},
		{"/a.txt", false, false},
		{"/docs/", true, false},
		{"docs", true, false},
		{"docs/", false, false},
		{"./a.txt", false, false},
		{"docs/../a.txt", false, false},
		{"docs/./", true, false},
		{"../", true, false},
		{"docs//a.txt", false, false},
		{"a\nb", false, false},
		{strings.Repeat("x", MaxPayloadLength+1), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := ValidatePath(tt.path, tt.isDir)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrValidation)
			}
		})
	}
}

// Checks the validator against its definition over combinations of
// segments: valid iff no leading separator, no relative segment, and a
// trailing separator exactly when naming a directory.
func TestValidatePathProperty(t *testing.T) {
	segments := []string{"a", "b.txt", ".", "..", "...", "x y"}
	for _, s1 := range segments {
		for _, s2 := range segments {
			for _, lead := range []string{"", "/"} {
				for _, trail := range []string{"", "/"} {
					path := lead + s1 + "/" + s2 + trail
					relative := s1 == "." || s1 == ".." || s2 == "." || s2 == ".."
					for _, isDir := range []bool{false, true} {
						want := lead == "" && !relative && (trail == "/") == isDir
						err := ValidatePath(path, isDir)
						assert.Equal(t, want, err == nil, "ValidatePath(%q, %v) = %v", path, isDir, err)
					}
				}
			}
		}
	}
}

func TestDirPath(t *testing.T) {
	assert.Equal(t, "docs/", DirPath("docs"))
	assert.Equal(t, "docs/", DirPath("docs/"))
	assert.Equal(t, "", DirPath(""))
}

func TestSplitAndParentPath(t *testing.T) {
	parents, name := splitPath("a/b/c.txt")
	assert.Equal(t, []string{"a", "b"}, parents)
	assert.Equal(t, "c.txt", name)

	parents, name = splitPath("a/b/")
	assert.Equal(t, []string{"a"}, parents)
	assert.Equal(t, "b", name)

	assert.Equal(t, "a/b/", parentPath("a/b/c.txt"))
	assert.Equal(t, "a/", parentPath("a/b/"))
	assert.Equal(t, "", parentPath("c.txt"))
	assert.Equal(t, "", parentPath("a/"))
}
