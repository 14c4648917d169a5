package notes

import (
	"bufio"
	"io"
)

type recordWriter struct {
	w   *bufio.Writer
	err error
}

func newRecordWriter(w io.Writer) *recordWriter {
	return &recordWriter{w: bufio.NewWriter(w)}
}

func (rw *recordWriter) line(marker Marker, payload string) {
	if rw.err != nil {
		return
	}
	if err := rw.w.WriteByte(byte(marker)); err != nil {
		rw.err = err
		return
	}
	if _, err := rw.w.WriteString(payload); err != nil {
		rw.err = err
		return
	}
	rw.err = rw.w.WriteByte('\n')
}

func (rw *recordWriter) record(r Record) { rw.line(r.Marker, r.Payload) }

func (rw *recordWriter) header() {
	if rw.err == nil {
		_, rw.err = rw.w.WriteString(Header + "\n")
	}
}

func (rw *recordWriter) file(n *Node) {
	rw.line(MarkerFile, n.Path)
	for _, r := range ContentRecords(n.Content) {
		rw.record(r)
	}
}

func (rw *recordWriter) flush() error {
	if rw.err != nil {
		return rw.err
	}
	return rw.w.Flush()
}

// WriteTree writes a complete log for the live tree: the header, then every
// directory followed by its contents, depth first in child order.
// Tombstones are not written.
func WriteTree(w io.Writer, t *Tree) error {
	rw := newRecordWriter(w)
	rw.header()
	_ = t.Walk(func(_ NodeID, n *Node) error {
		switch n.Kind {
		case KindDirectory:
			rw.line(MarkerDir, n.Path)
		case KindFile:
			rw.file(n)
		}
		return rw.err
	})
	return rw.flush()
}

// WriteRecords writes the tree's flat record list back out in log order.
// Tombstones are reproduced byte for byte; directories that were only
// implied by deeper paths are not given records of their own.
func WriteRecords(w io.Writer, t *Tree) error {
	rw := newRecordWriter(w)
	rw.header()
	for _, id := range t.records {
		n := &t.nodes[id]
		switch {
		case n.Deleted:
			rw.line(MarkerDeleted, n.Name)
			for _, l := range contentLines(n.Content) {
				rw.line(MarkerDeleted, l)
			}
		case n.Kind == KindDirectory:
			rw.line(MarkerDir, n.Path)
		case n.Kind == KindFile:
			rw.file(n)
		}
	}
	return rw.flush()
}
