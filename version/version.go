package version

import (
	"fmt"
	"io"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/dendrascience/notesfs/version.Version=..."
// at release time. Left unset, build info from the module is used instead.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)

// Package names the module in version reports.
const Package = "notesfs"

// Info describes the running build.
type Info struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
	Package string `json:"package" yaml:"package"`
}

// Get returns the build description, falling back to the module build info
// for every field not stamped by the linker.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date, Package: Package}

	bi, ok := debug.ReadBuildInfo()
	if info.Version == "" {
		info.Version = "development"
		if ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
	}
	if info.Commit == "" {
		info.Commit = buildSetting(bi, ok, "vcs.revision")
	}
	if info.Date == "" {
		info.Date = buildSetting(bi, ok, "vcs.time")
	}
	return info
}

func buildSetting(bi *debug.BuildInfo, ok bool, key string) string {
	if ok {
		for _, s := range bi.Settings {
			if s.Key == key {
				return s.Value
			}
		}
	}
	return "unknown"
}

// String renders the version with a short commit and the build date when
// they are known.
func (i Info) String() string {
	if i.Commit == "unknown" || len(i.Commit) <= 7 {
		return i.Version
	}
	if i.Date == "unknown" {
		return fmt.Sprintf("%s (%s)", i.Version, i.Commit[:7])
	}
	return fmt.Sprintf("%s (%s, built %s)", i.Version, i.Commit[:7], i.Date)
}

// Fprint writes a multi-line version report for appName.
func Fprint(w io.Writer, appName string) {
	info := Get()
	fmt.Fprintf(w, "%s version %s\n", appName, info)
	fmt.Fprintf(w, "Package: %s\n", info.Package)
	fmt.Fprintf(w, "Commit: %s\n", info.Commit)
	fmt.Fprintf(w, "Build Date: %s\n", info.Date)
}
