package notes

import (
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

const (
	// Header is the byte-exact first line of every container.
	Header = "NOTES V1.0"

	// Extension is the required suffix of an uncompressed container.
	Extension = ".notes"
	// GzipExtension is appended to Extension for gzip compressed containers.
	GzipExtension = ".gz"

	// MaxRecordLength bounds a record line, counting the marker and the
	// terminating newline.
	MaxRecordLength = 255
	// MaxPayloadLength is the longest payload that fits in a record line.
	MaxPayloadLength = MaxRecordLength - 2

	// Separator delimits internal path segments.
	Separator = '/'
)

// Marker is the one byte type tag at the start of every record line.
type Marker byte

const (
	MarkerFile    Marker = '@'
	MarkerDir     Marker = '='
	MarkerContent Marker = ' '
	MarkerDeleted Marker = '#'
)

func (m Marker) String() string {
	switch m {
	case MarkerFile:
		return "file"
	case MarkerDir:
		return "dir"
	case MarkerContent:
		return "content"
	case MarkerDeleted:
		return "deleted"
	default:
		return "unknown(" + string(rune(m)) + ")"
	}
}

// Record is a decoded log line.
type Record struct {
	Marker  Marker
	Payload string
}

// DecodeRecord splits a log line (without its terminator) into marker and
// payload. A recognised marker with an empty payload is valid; an empty line
// or an unrecognised marker is a FormatError.
func DecodeRecord(line string) (Record, error) {
	if line == "" {
		return Record{}, &FormatError{Err: ErrEmptyLine}
	}
	switch m := Marker(line[0]); m {
	case MarkerFile, MarkerDir, MarkerContent, MarkerDeleted:
		return Record{Marker: m, Payload: line[1:]}, nil
	default:
		return Record{}, &FormatError{Err: errors.Wrapf(ErrUnknownMarker, "%q", line[0])}
	}
}

// String renders the record as a log line without its terminator.
func (r Record) String() string {
	return string([]byte{byte(r.Marker)}) + r.Payload
}

// FileRecord returns the record declaring the file at path.
func FileRecord(path string) (Record, error) {
	if err := ValidatePath(path, false); err != nil {
		return Record{}, err
	}
	return Record{Marker: MarkerFile, Payload: path}, nil
}

// DirRecord returns the record declaring the directory at path, which must
// already carry its trailing separator.
func DirRecord(path string) (Record, error) {
	if err := ValidatePath(path, true); err != nil {
		return Record{}, err
	}
	return Record{Marker: MarkerDir, Payload: path}, nil
}

// ContentRecords encodes file content as content records: one per line of
// content, with lines longer than MaxPayloadLength continued on the next
// record. A single trailing newline is implied by the encoding and does not
// produce an extra empty record.
func ContentRecords(content []byte) []Record {
	if len(content) == 0 {
		return nil
	}
	text := strings.TrimSuffix(string(content), "\n")

	var out []Record
	for _, line := range strings.Split(text, "\n") {
		for _, chunk := range wrapPayload(line) {
			out = append(out, Record{Marker: MarkerContent, Payload: chunk})
		}
	}
	return out
}

// wrapPayload cuts s into chunks of at most MaxPayloadLength bytes, backing
// off to a rune boundary where one exists in the chunk.
func wrapPayload(s string) []string {
	if len(s) <= MaxPayloadLength {
		return []string{s}
	}
	var out []string
	for len(s) > MaxPayloadLength {
		cut := MaxPayloadLength
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		if cut == 0 {
			cut = MaxPayloadLength
		}
		out = append(out, s[:cut])
		s = s[cut:]
	}
	return append(out, s)
}

// contentLines splits accumulated content back into its stored lines.
func contentLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
}
