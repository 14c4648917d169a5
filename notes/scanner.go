package notes

import (
	"bufio"
	"io"
	"strings"
)

// Line is one line of the log as read from the container.
type Line struct {
	// Number is 1-based; the header is line 1.
	Number int
	// Start is the byte offset of the line's first byte, its marker.
	Start int64
	// Text is the line without its terminator.
	Text string
	// Terminated is false only for a final line missing its newline.
	Terminated bool
}

// End returns the offset just past the line and its terminator. For a
// terminated line the marker sits len(Text)+1 bytes before End.
func (l Line) End() int64 {
	end := l.Start + int64(len(l.Text))
	if l.Terminated {
		end++
	}
	return end
}

// Scanner reads the log line by line, keeping track of the exact byte offset
// of every line so records can later be tombstoned in place.
type Scanner struct {
	r      *bufio.Reader
	offset int64
	line   Line
	err    error
}

// NewScanner returns a Scanner reading from the current position of r, which
// is taken to be offset zero.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: bufio.NewReader(r)}
}

// Scan advances to the next line, returning false at EOF or on error.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	text, err := s.r.ReadString('\n')
	if err != nil && err != io.EOF {
		s.err = err
		return false
	}
	if len(text) == 0 {
		return false
	}

	s.line = Line{
		Number:     s.line.Number + 1,
		Start:      s.offset,
		Text:       strings.TrimSuffix(text, "\n"),
		Terminated: strings.HasSuffix(text, "\n"),
	}
	s.offset += int64(len(text))
	return true
}

// Line returns the most recent line read by Scan.
func (s *Scanner) Line() Line { return s.line }

// Err returns the first non-EOF error encountered.
func (s *Scanner) Err() error { return s.err }
