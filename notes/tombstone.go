package notes

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Tombstone overwrites the marker of a line already read from f with
// MarkerDeleted. The line must have been produced by a Scanner reading the
// same handle from offset zero, otherwise the computed offset is wrong and
// the log is corrupted. The position of f is restored afterwards and the
// length of the file never changes.
func Tombstone(f io.WriteSeeker, l Line) error {
	if l.Text == "" {
		return errors.Errorf("line %d: cannot tombstone an empty line", l.Number)
	}
	pos, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return errors.Wrap(err, "saving log position")
	}
	// The marker is the first byte of the line, len(Text)+1 bytes before
	// the end of a terminated line.
	if _, err = f.Seek(l.Start, io.SeekStart); err != nil {
		return errors.Wrapf(err, "seeking to line %d", l.Number)
	}
	if _, err = f.Write([]byte{byte(MarkerDeleted)}); err != nil {
		return errors.Wrapf(err, "tombstoning line %d", l.Number)
	}
	if _, err = f.Seek(pos, io.SeekStart); err != nil {
		return errors.Wrap(err, "restoring log position")
	}
	return nil
}

// DeleteRecord tombstones the first file record for path together with every
// content line directly following it. It reports whether the file was found.
func DeleteRecord(f io.ReadWriteSeeker, path string) (bool, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return false, errors.Wrap(err, "rewinding log")
	}

	sc := NewScanner(f)
	for sc.Scan() {
		l := sc.Line()
		if l.Number == 1 || !isRecord(l.Text, MarkerFile, path) {
			continue
		}
		if err := Tombstone(f, l); err != nil {
			return false, err
		}
		for sc.Scan() && hasMarker(sc.Line().Text, MarkerContent) {
			if err := Tombstone(f, sc.Line()); err != nil {
				return false, err
			}
		}
		log.WithFields(log.Fields{"path": path, "line": l.Number}).Debug("tombstoned file record")
		return true, sc.Err()
	}
	return false, sc.Err()
}

// DeleteDir tombstones the directory record for dirPath and every file or
// directory record anywhere in the log whose path starts with dirPath, file
// content included. Matching is a literal prefix test on the record text,
// not a walk of the tree. Existing tombstones are left alone. It reports
// whether the directory record was found; nothing is modified if it was not.
func DeleteDir(f io.ReadWriteSeeker, dirPath string) (bool, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return false, errors.Wrap(err, "rewinding log")
	}

	var (
		found  bool
		doomed []Line
		inFile bool // inside the content of a matched file
		sc     = NewScanner(f)
	)
	for sc.Scan() {
		l := sc.Line()
		if l.Number == 1 || l.Text == "" {
			inFile = false
			continue
		}
		switch Marker(l.Text[0]) {
		case MarkerContent:
			if inFile {
				doomed = append(doomed, l)
			}
		case MarkerFile, MarkerDir:
			inFile = false
			if !strings.HasPrefix(l.Text[1:], dirPath) {
				continue
			}
			if isRecord(l.Text, MarkerDir, dirPath) {
				found = true
			}
			doomed = append(doomed, l)
			inFile = l.Text[0] == byte(MarkerFile)
		default:
			inFile = false
		}
	}
	if err := sc.Err(); err != nil {
		return false, errors.Wrap(err, "scanning log")
	}
	if !found {
		return false, nil
	}

	for _, l := range doomed {
		if err := Tombstone(f, l); err != nil {
			return true, err
		}
	}
	log.WithFields(log.Fields{"path": dirPath, "lines": len(doomed)}).Debug("tombstoned directory")
	return true, nil
}

func hasMarker(line string, m Marker) bool {
	return line != "" && line[0] == byte(m)
}

func isRecord(line string, m Marker, path string) bool {
	return hasMarker(line, m) && line[1:] == path
}
