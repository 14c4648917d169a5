package notes

import (
	"strings"
)

// ValidatePath checks an internal path. Directory paths must end with the
// separator and file paths must not. Neither may be empty, start with the
// separator, contain an empty, "." or ".." segment, contain a newline, or be
// too long to fit in a single record.
func ValidatePath(path string, isDir bool) error {
	fail := func(reason string) error {
		return &PathError{Path: path, IsDir: isDir, Reason: reason}
	}

	hasTrailing := strings.HasSuffix(path, string(Separator))
	switch {
	case path == "":
		return fail("path is empty")
	case path[0] == Separator:
		return fail("path must not begin with a separator")
	case isDir && !hasTrailing:
		return fail("directory path must end with a separator")
	case !isDir && hasTrailing:
		return fail("file path must not end with a separator")
	case strings.ContainsRune(path, '\n'):
		return fail("path must not contain a line break")
	case len(path) > MaxPayloadLength:
		return fail("path is longer than the maximum record length")
	}

	for _, segment := range strings.Split(strings.TrimSuffix(path, string(Separator)), string(Separator)) {
		switch segment {
		case "":
			return fail("path contains an empty segment")
		case ".", "..":
			return fail("path contains a relative segment")
		}
	}
	return nil
}

// DirPath normalises user input naming a directory by appending the
// separator when it is missing.
func DirPath(path string) string {
	if path == "" || strings.HasSuffix(path, string(Separator)) {
		return path
	}
	return path + string(Separator)
}

// splitPath breaks a validated path into its parent segments and its final
// name. Directory paths lose their trailing separator first.
func splitPath(path string) (parents []string, name string) {
	segments := strings.Split(strings.TrimSuffix(path, string(Separator)), string(Separator))
	return segments[:len(segments)-1], segments[len(segments)-1]
}

// parentPath returns the directory path containing path, or "" for entries
// at the top level.
func parentPath(path string) string {
	trimmed := strings.TrimSuffix(path, string(Separator))
	i := strings.LastIndexByte(trimmed, Separator)
	if i < 0 {
		return ""
	}
	return trimmed[:i+1]
}
