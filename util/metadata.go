package util

import (
	"encoding/json"
	"io"
	"time"

	"github.com/dendrascience/notesfs/version"
	"gopkg.in/yaml.v3"
)

// Metadata summarises a container: how much of it is live and how much is
// garbage that a defrag would reclaim.
type Metadata struct {
	Path           string    `json:"path" yaml:"path"`
	NotesVersion   string    `json:"notes_version" yaml:"notes_version"`
	Compressed     bool      `json:"compressed" yaml:"compressed"`
	CompressedSize int64     `json:"compressed_size,omitempty" yaml:"compressed_size,omitempty"`
	LogSize        int64     `json:"log_size" yaml:"log_size"`
	ContentSize    int64     `json:"content_size" yaml:"content_size"`
	DirectoryCount int       `json:"directory_count" yaml:"directory_count"`
	FileCount      int       `json:"file_count" yaml:"file_count"`
	TombstoneCount int       `json:"tombstone_count" yaml:"tombstone_count"`
	TombstoneSize  int64     `json:"tombstone_size" yaml:"tombstone_size"`
	Modified       time.Time `json:"modified" yaml:"modified"`
}

// GetVersion returns the current notes version string.
// It delegates to the version package to get the version information.
func GetVersion() string {
	return version.Get().Version
}

// GarbageRatio is the fraction of the log taken up by tombstoned bytes.
func (m Metadata) GarbageRatio() float64 {
	if m.LogSize == 0 {
		return 0
	}
	return float64(m.TombstoneSize) / float64(m.LogSize)
}

// WriteJSON encodes the metadata as a single JSON document.
func (m Metadata) WriteJSON(w io.Writer) error {
	je := json.NewEncoder(w)
	je.SetIndent("", "  ")
	return je.Encode(m)
}

// WriteYAML encodes the metadata as a YAML document.
func (m Metadata) WriteYAML(w io.Writer) error {
	ye := yaml.NewEncoder(w)
	ye.SetIndent(2)
	if err := ye.Encode(m); err != nil {
		return err
	}
	return ye.Close()
}
