package notes

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dendrascience/notesfs/util"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Options configure how a Container is opened.
type Options struct {
	// GzipLevel is used when recompressing a ".notes.gz" container on
	// Close. Zero selects the default level.
	GzipLevel int
}

// InsertOptions control Insert.
type InsertOptions struct {
	// Parents appends a record for the parent directory when it is missing
	// instead of failing.
	Parents bool
	// Overwrite replaces an existing file by tombstoning its records before
	// the new ones are appended.
	Overwrite bool
}

// DefragStats describes the outcome of a Defrag.
type DefragStats struct {
	BytesBefore int64
	BytesAfter  int64
	Directories int
	Files       int
	Tombstones  int
}

// Container is an open .notes file on an afero.Fs. Each operation opens the
// log, performs a single pass (or one read pass and one write pass), and
// releases the handle again; nothing is cached between operations.
//
// A Container must not be used concurrently, and no two processes may
// operate on the same container file at once. No locking is performed.
type Container struct {
	fs   afero.Fs
	path string
	// logPath is the uncompressed log the engine reads and edits. It equals
	// path unless the container is gzip compressed, in which case it is a
	// scratch file next to it.
	logPath    string
	compressed bool
	dirty      bool
	opts       Options
}

// Open opens an existing container. Compressed containers are decompressed
// into a scratch file until Close.
func Open(fsys afero.Fs, path string, opts Options) (*Container, error) {
	compressed, err := checkExtension(path)
	if err != nil {
		return nil, err
	}
	if _, err := fsys.Stat(path); err != nil {
		return nil, errors.Wrapf(err, "opening container %s", path)
	}

	c := &Container{fs: fsys, path: path, logPath: path, compressed: compressed, opts: opts}
	if compressed {
		c.logPath = scratchPath(path)
		if err := util.GunzipFile(fsys, path, c.logPath); err != nil {
			return nil, errors.Wrapf(err, "decompressing %s", path)
		}
	}
	if err := c.checkHeader(); err != nil {
		c.discard()
		return nil, err
	}
	return c, nil
}

// Create writes a new container holding only the header. It fails if path
// already exists.
func Create(fsys afero.Fs, path string, opts Options) (*Container, error) {
	return CreateFromTree(fsys, path, NewTree(), opts)
}

// CreateFromTree writes a new container holding the canonical form of t.
// It fails if path already exists.
func CreateFromTree(fsys afero.Fs, path string, t *Tree, opts Options) (*Container, error) {
	compressed, err := checkExtension(path)
	if err != nil {
		return nil, err
	}
	if ok, err := afero.Exists(fsys, path); err != nil {
		return nil, errors.Wrapf(err, "creating container %s", path)
	} else if ok {
		return nil, &RecordError{Op: "create", Path: path, Err: os.ErrExist}
	}

	c := &Container{fs: fsys, path: path, logPath: path, compressed: compressed, opts: opts}
	if compressed {
		c.logPath = scratchPath(path)
	}

	Sort(t, RootID)
	var buf bytes.Buffer
	if err := WriteTree(&buf, t); err != nil {
		return nil, err
	}
	if err := c.replace(buf.Bytes()); err != nil {
		c.discard()
		return nil, err
	}
	return c, nil
}

// Close recompresses a modified gzip container and removes its scratch
// file. It is a no-op for uncompressed containers.
func (c *Container) Close() error {
	if !c.compressed {
		return nil
	}
	defer c.discard()

	if !c.dirty {
		return nil
	}
	level := c.opts.GzipLevel
	if level == 0 {
		level = util.DefaultGzipLevel
	}
	if err := util.GzipFile(c.fs, c.logPath, c.path, level); err != nil {
		return errors.Wrapf(err, "compressing %s", c.path)
	}
	c.dirty = false
	return nil
}

// Path returns the container path the caller opened.
func (c *Container) Path() string { return c.path }

// Compressed reports whether the container is stored gzip compressed.
func (c *Container) Compressed() bool { return c.compressed }

// Tree parses the log. createIntermediate is passed on as
// ParseOptions.CreateIntermediate.
func (c *Container) Tree(createIntermediate bool) (*Tree, error) {
	return c.parse(ParseOptions{CreateIntermediate: createIntermediate})
}

// Insert appends a new file record at the end of the log.
func (c *Container) Insert(path string, content []byte, opts InsertOptions) error {
	fileRec, err := FileRecord(path)
	if err != nil {
		return err
	}
	t, err := c.Tree(true)
	if err != nil {
		return err
	}
	fail := func(err error) error { return &RecordError{Op: "insert", Path: path, Err: err} }

	if _, ok := t.Lookup(DirPath(path)); ok {
		return fail(errors.Wrap(ErrDuplicateRecord, "a directory has that name"))
	}
	_, exists := t.Lookup(path)
	if exists && !opts.Overwrite {
		return fail(ErrDuplicateRecord)
	}

	var records []Record
	parent := parentPath(path)
	if err := checkAncestors(t, parent); err != nil {
		return fail(err)
	}
	if _, ok := t.Lookup(parent); !ok {
		if !opts.Parents {
			return fail(errors.Wrapf(ErrMissingIntermediateDirectory, "%q", parent))
		}
		dirRec, err := DirRecord(parent)
		if err != nil {
			return fail(err)
		}
		records = append(records, dirRec)
	}
	records = append(records, fileRec)
	records = append(records, ContentRecords(content)...)

	return c.mutate(func(f afero.File) error {
		if exists {
			if _, err := DeleteRecord(f, path); err != nil {
				return err
			}
		}
		if err := appendRecords(f, records); err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"container": c.path,
			"path":      path,
			"records":   len(records),
			"replaced":  exists,
		}).Debug("inserted file")
		return nil
	})
}

// Extract returns the content of the live file at path.
func (c *Container) Extract(path string) ([]byte, error) {
	if err := ValidatePath(path, false); err != nil {
		return nil, err
	}
	t, err := c.Tree(true)
	if err != nil {
		return nil, err
	}
	id, ok := t.Lookup(path)
	if !ok {
		return nil, &RecordError{Op: "extract", Path: path, Err: ErrNotFound}
	}
	return append([]byte(nil), t.Node(id).Content...), nil
}

// Mkdir appends a directory record. A missing trailing separator is added.
func (c *Container) Mkdir(path string) error {
	path = DirPath(path)
	dirRec, err := DirRecord(path)
	if err != nil {
		return err
	}
	t, err := c.Tree(true)
	if err != nil {
		return err
	}
	fail := func(err error) error { return &RecordError{Op: "mkdir", Path: path, Err: err} }

	if id, ok := t.Lookup(path); ok && t.Node(id).Declared {
		return fail(ErrDuplicateRecord)
	}
	if _, ok := t.Lookup(strings.TrimSuffix(path, string(Separator))); ok {
		return fail(errors.Wrap(ErrDuplicateRecord, "a file has that name"))
	}
	if err := checkAncestors(t, parentPath(path)); err != nil {
		return fail(err)
	}

	return c.mutate(func(f afero.File) error {
		return appendRecords(f, []Record{dirRec})
	})
}

// Remove tombstones the file at path.
func (c *Container) Remove(path string) error {
	if err := ValidatePath(path, false); err != nil {
		return err
	}
	return c.mutate(func(f afero.File) error {
		found, err := DeleteRecord(f, path)
		if err != nil {
			return err
		} else if !found {
			return &RecordError{Op: "rm", Path: path, Err: ErrNotFound}
		}
		return nil
	})
}

// RemoveDir tombstones the directory at path and everything beneath it. A
// missing trailing separator is added.
func (c *Container) RemoveDir(path string) error {
	path = DirPath(path)
	if err := ValidatePath(path, true); err != nil {
		return err
	}
	return c.mutate(func(f afero.File) error {
		found, err := DeleteDir(f, path)
		if err != nil {
			return err
		} else if !found {
			return &RecordError{Op: "rmdir", Path: path, Err: ErrNotFound}
		}
		return nil
	})
}

// Defrag compacts the container: the log is rebuilt from its live tree in
// canonical order and every tombstone is dropped. The log is truncated and
// rewritten in place; a crash during the write leaves it incomplete.
func (c *Container) Defrag() (DefragStats, error) {
	var stats DefragStats

	f, err := c.openLog(os.O_RDONLY)
	if err != nil {
		return stats, err
	}
	var buf bytes.Buffer
	t, err := Compact(f, &buf)
	if closeErr := f.Close(); closeErr != nil && err == nil {
		err = errors.Wrapf(closeErr, "closing %s", c.logPath)
	}
	if err != nil {
		return stats, err
	}

	if stats.BytesBefore, err = c.logSize(); err != nil {
		return stats, err
	}
	if err := c.replace(buf.Bytes()); err != nil {
		return stats, err
	}
	stats.BytesAfter = int64(buf.Len())

	_ = t.Walk(func(_ NodeID, n *Node) error {
		switch n.Kind {
		case KindDirectory:
			stats.Directories++
		case KindFile:
			stats.Files++
		}
		return nil
	})
	for _, id := range t.Records() {
		if t.Node(id).Deleted {
			stats.Tombstones++
		}
	}

	log.WithFields(log.Fields{
		"container": c.path,
		"before":    stats.BytesBefore,
		"after":     stats.BytesAfter,
	}).Debug("defragmented container")
	return stats, nil
}

// Validate parses the log leniently and returns every structural problem
// found. The container is not modified.
func (c *Container) Validate() ([]Issue, error) {
	t, err := c.parse(ParseOptions{Lenient: true})
	if err != nil {
		return nil, err
	}
	return t.Issues(), nil
}

// Repair rewrites the log with every malformed line turned into a
// tombstone, keeping the order of records and every existing tombstone. It
// returns the problems that were repaired; a valid log is left untouched.
func (c *Container) Repair() ([]Issue, error) {
	t, err := c.parse(ParseOptions{Lenient: true})
	if err != nil {
		return nil, err
	}
	if len(t.Issues()) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	if err := WriteRecords(&buf, t); err != nil {
		return nil, err
	}
	if err := c.replace(buf.Bytes()); err != nil {
		return nil, err
	}
	return t.Issues(), nil
}

// Metadata summarises the container.
func (c *Container) Metadata() (util.Metadata, error) {
	m := util.Metadata{
		Path:         c.path,
		NotesVersion: util.GetVersion(),
		Compressed:   c.compressed,
	}

	info, err := c.fs.Stat(c.path)
	if err != nil {
		return m, errors.Wrapf(err, "stat %s", c.path)
	}
	m.Modified = info.ModTime()
	if c.compressed {
		m.CompressedSize = info.Size()
	}
	if m.LogSize, err = c.logSize(); err != nil {
		return m, err
	}

	t, err := c.Tree(true)
	if err != nil {
		return m, err
	}
	_ = t.Walk(func(_ NodeID, n *Node) error {
		switch n.Kind {
		case KindDirectory:
			m.DirectoryCount++
		case KindFile:
			m.FileCount++
			m.ContentSize += int64(len(n.Content))
		}
		return nil
	})
	for _, id := range t.Records() {
		if n := t.Node(id); n.Deleted {
			m.TombstoneCount++
			// Marker and terminator of the name line plus one marker per
			// content line, whose terminators are already in Content.
			m.TombstoneSize += int64(len(n.Name)+2+len(n.Content)) + int64(len(contentLines(n.Content)))
		}
	}
	return m, nil
}

func (c *Container) parse(opts ParseOptions) (*Tree, error) {
	f, err := c.openLog(os.O_RDONLY)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, opts)
}

func (c *Container) checkHeader() error {
	f, err := c.openLog(os.O_RDONLY)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := NewScanner(f)
	if !sc.Scan() || sc.Line().Text != Header {
		if err := sc.Err(); err != nil {
			return errors.Wrapf(err, "reading %s", c.path)
		}
		return &FormatError{Line: 1, Err: ErrBadHeader}
	}
	return nil
}

func (c *Container) openLog(flag int) (afero.File, error) {
	f, err := c.fs.OpenFile(c.logPath, flag, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "opening container %s", c.path)
	}
	return f, nil
}

func (c *Container) logSize() (int64, error) {
	info, err := c.fs.Stat(c.logPath)
	if err != nil {
		return 0, errors.Wrapf(err, "stat %s", c.path)
	}
	return info.Size(), nil
}

// mutate runs fn against the log opened for reading and writing.
func (c *Container) mutate(fn func(afero.File) error) error {
	f, err := c.openLog(os.O_RDWR)
	if err != nil {
		return err
	}
	if err = fn(f); err != nil {
		f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return errors.Wrapf(err, "closing container %s", c.path)
	}
	c.dirty = true
	return nil
}

// replace truncates the log and writes data in its place.
func (c *Container) replace(data []byte) error {
	f, err := c.fs.OpenFile(c.logPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrapf(err, "rewriting container %s", c.path)
	}
	if _, err = f.Write(data); err != nil {
		f.Close()
		return errors.Wrapf(err, "rewriting container %s", c.path)
	}
	if err = f.Close(); err != nil {
		return errors.Wrapf(err, "rewriting container %s", c.path)
	}
	c.dirty = true
	return nil
}

// discard removes the scratch log of a compressed container.
func (c *Container) discard() {
	if !c.compressed {
		return
	}
	if err := c.fs.Remove(c.logPath); err != nil && !os.IsNotExist(err) {
		log.WithFields(log.Fields{"err": err, "path": c.logPath}).
			Warn("failed to cleanup scratch log")
	}
}

// appendRecords writes records at the end of the log, first terminating a
// final line that lacks its newline.
func appendRecords(f afero.File, records []Record) error {
	end, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return errors.Wrap(err, "seeking to end of log")
	}

	rw := newRecordWriter(f)
	if end > 0 {
		last := make([]byte, 1)
		if _, err := f.ReadAt(last, end-1); err != nil {
			return errors.Wrap(err, "reading end of log")
		}
		if _, err := f.Seek(end, io.SeekStart); err != nil {
			return errors.Wrap(err, "seeking to end of log")
		}
		if last[0] != '\n' {
			rw.err = rw.w.WriteByte('\n')
		}
	}
	for _, r := range records {
		rw.record(r)
	}
	return rw.flush()
}

// checkAncestors fails if any directory on dirPath is already taken by a
// file.
func checkAncestors(t *Tree, dirPath string) error {
	var prefix string
	for _, segment := range strings.Split(strings.TrimSuffix(dirPath, string(Separator)), string(Separator)) {
		if segment == "" {
			continue
		}
		if _, ok := t.Lookup(prefix + segment); ok {
			return errors.Wrapf(ErrDuplicateRecord, "%q is a file", prefix+segment)
		}
		prefix += segment + string(Separator)
	}
	return nil
}

func checkExtension(path string) (compressed bool, err error) {
	switch {
	case strings.HasSuffix(path, Extension):
		return false, nil
	case strings.HasSuffix(path, Extension+GzipExtension):
		return true, nil
	default:
		return false, ErrExtension
	}
}

// scratchPath names the uncompressed working copy of a compressed
// container: a hidden, uniquely named sibling.
func scratchPath(path string) string {
	dir, base := filepath.Split(path)
	base = strings.TrimSuffix(base, GzipExtension)
	return filepath.Join(dir, "."+base+"."+uuid.NewString()+".partial")
}
