// Package version reports the build of the notes binary.
//
// Release builds stamp Version, Commit and Date through -ldflags:
//
//	-ldflags "-X github.com/dendrascience/notesfs/version.Version=v1.0.0 -X github.com/dendrascience/notesfs/version.Commit=abc123"
//
// Unstamped builds fall back to the module build info embedded by the Go
// toolchain, and finally to "development".
package version
