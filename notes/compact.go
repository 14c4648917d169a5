package notes

import (
	"io"
)

// Compact parses the log read from r and writes its canonical, garbage-free
// form to w: tombstones are dropped and the tree is sorted before it is
// written. The parsed tree is returned for reporting.
func Compact(r io.Reader, w io.Writer) (*Tree, error) {
	t, err := Parse(r, ParseOptions{})
	if err != nil {
		return nil, err
	}
	Sort(t, RootID)
	if err := WriteTree(w, t); err != nil {
		return nil, err
	}
	return t, nil
}
