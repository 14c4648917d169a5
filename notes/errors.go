package notes

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors for package notes.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// Error classes
	ErrFormat          = errors.New("malformed container")
	ErrValidation      = errors.New("invalid internal path")
	ErrDuplicateRecord = errors.New("record already exists")
	ErrNotFound        = errors.New("record not found")

	// Format errors
	ErrBadHeader                    = errors.New("first record must be \"" + Header + "\"")
	ErrEmptyLine                    = errors.New("empty record line")
	ErrUnknownMarker                = errors.New("unknown record marker")
	ErrOrphanContent                = errors.New("content record without a preceding file record")
	ErrMissingIntermediateDirectory = errors.New("intermediate directory does not exist")

	// Container errors
	ErrExtension = errors.New("container must end with the \"" + Extension + "\" or \"" + Extension + GzipExtension + "\" extension")
)

// FormatError reports a structural problem in the log. Line is the 1-based
// line number of the offending record, or zero when it is not known.
type FormatError struct {
	Line int
	Err  error
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Err)
	}
	return e.Err.Error()
}

func (e *FormatError) Unwrap() error { return e.Err }

// Is reports every FormatError as an ErrFormat.
func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// atLine attaches a line number to err, wrapping it in a FormatError if it
// is not one already.
func atLine(err error, line int) error {
	var fe *FormatError
	if errors.As(err, &fe) {
		return &FormatError{Line: line, Err: fe.Err}
	}
	return &FormatError{Line: line, Err: err}
}

// PathError is returned by ValidatePath for internal paths that break the
// naming rules.
type PathError struct {
	Path   string
	IsDir  bool
	Reason string
}

func (e *PathError) Error() string {
	kind := "file"
	if e.IsDir {
		kind = "directory"
	}
	return fmt.Sprintf("invalid %s path %q: %s", kind, e.Path, e.Reason)
}

// Is reports every PathError as an ErrValidation.
func (e *PathError) Is(target error) bool { return target == ErrValidation }

// RecordError records a failed container operation and the internal path
// that caused it.
type RecordError struct {
	Op   string
	Path string
	Err  error
}

func (e *RecordError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *RecordError) Unwrap() error { return e.Err }
