package notes

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ParseOptions control how strictly Parse treats the log.
type ParseOptions struct {
	// CreateIntermediate allows a file record to name directories that were
	// never declared; they are created on the fly. Directory records always
	// create their intermediates.
	CreateIntermediate bool
	// Lenient records structural problems as Issues instead of failing. The
	// offending line is kept as a tombstone so a round-trip rewrite preserves
	// its bytes. A bad header is fatal regardless.
	Lenient bool
}

// Issue is a structural problem found by a lenient parse.
type Issue struct {
	Line int
	Err  error
}

// String reports the problem with its line number given once.
func (i Issue) String() string {
	var fe *FormatError
	if errors.As(i.Err, &fe) && fe.Line == i.Line {
		return i.Err.Error()
	}
	return fmt.Sprintf("line %d: %s", i.Line, i.Err)
}

type parser struct {
	t       *Tree
	opts    ParseOptions
	current NodeID // file receiving content records, or noNode
}

// Parse reads a complete log and rebuilds its tree. Records are never
// reordered: the flat record list of the returned tree follows the log.
func Parse(r io.Reader, opts ParseOptions) (*Tree, error) {
	p := &parser{t: NewTree(), opts: opts, current: noNode}
	sc := NewScanner(r)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, errors.Wrap(err, "reading header")
		}
		return nil, &FormatError{Line: 1, Err: ErrBadHeader}
	}
	if sc.Line().Text != Header {
		return nil, &FormatError{Line: 1, Err: ErrBadHeader}
	}

	for sc.Scan() {
		line := sc.Line()
		err := p.line(line)
		if err == nil {
			continue
		}
		err = atLine(err, line.Number)
		if !opts.Lenient {
			return nil, err
		}

		log.WithFields(log.Fields{"line": line.Number, "err": err}).Debug("keeping malformed line as tombstone")
		p.t.issues = append(p.t.issues, Issue{Line: line.Number, Err: err})
		if line.Text != "" {
			p.deleted(line.Text[1:], line.Number)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading log")
	}
	return p.t, nil
}

func (p *parser) line(l Line) error {
	rec, err := DecodeRecord(l.Text)
	if err != nil {
		return err
	}

	switch rec.Marker {
	case MarkerFile:
		return p.file(rec.Payload, l.Number)
	case MarkerDir:
		return p.dir(rec.Payload, l.Number)
	case MarkerContent:
		if p.current == noNode || p.t.nodes[p.current].Deleted {
			return ErrOrphanContent
		}
		n := &p.t.nodes[p.current]
		n.Content = append(append(n.Content, rec.Payload...), '\n')
	case MarkerDeleted:
		p.deleted(rec.Payload, l.Number)
	}
	return nil
}

func (p *parser) file(path string, line int) error {
	p.current = noNode
	if err := ValidatePath(path, false); err != nil {
		return err
	}
	parents, name := splitPath(path)
	dir, err := p.t.walk(parents, path, p.opts.CreateIntermediate, line)
	if err != nil {
		return err
	}
	if _, ok := p.t.child(dir, name); ok {
		return &RecordError{Op: "parse", Path: path, Err: ErrDuplicateRecord}
	}

	id := p.t.addFile(dir, name, line)
	p.t.records = append(p.t.records, id)
	p.current = id
	return nil
}

func (p *parser) dir(path string, line int) error {
	p.current = noNode
	if err := ValidatePath(path, true); err != nil {
		return err
	}
	parents, name := splitPath(path)
	id, err := p.t.walk(append(parents, name), path, true, line)
	if err != nil {
		return err
	}

	n := &p.t.nodes[id]
	if n.Declared {
		return &RecordError{Op: "parse", Path: path, Err: ErrDuplicateRecord}
	}
	n.Declared = true
	n.Line = line
	p.t.records = append(p.t.records, id)
	return nil
}

// deleted groups consecutive tombstoned lines into one detached node: the
// first line becomes its name and the rest its content.
func (p *parser) deleted(payload string, line int) {
	if p.current != noNode && p.t.nodes[p.current].Deleted {
		n := &p.t.nodes[p.current]
		n.Content = append(append(n.Content, payload...), '\n')
		return
	}
	id := p.t.addTombstone(payload, line)
	p.t.records = append(p.t.records, id)
	p.current = id
}
