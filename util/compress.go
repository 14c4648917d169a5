package util

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// GzipExtension is the suffix of a gzip compressed file.
const GzipExtension = ".gz"

// IsGzipPath reports whether path names a gzip compressed file.
func IsGzipPath(path string) bool {
	return strings.HasSuffix(path, GzipExtension)
}

// GunzipFile decompresses the gzip file at src into dst, replacing dst.
func GunzipFile(fsys afero.Fs, src, dst string) error {
	if !IsGzipPath(src) {
		return ErrNotGzipExtension
	}
	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	zr, err := gzip.NewReader(in)
	if err != nil {
		return errors.Wrapf(err, "reading gzip header of %s", src)
	}
	defer zr.Close()

	return writeThrough(fsys, dst, func(w io.Writer) error {
		_, err := io.Copy(w, zr)
		return err
	})
}

// GzipFile compresses src into the gzip file at dst, replacing dst. The
// compressed output is staged in a temporary sibling of dst and only moved
// into place once complete.
func GzipFile(fsys afero.Fs, src, dst string, level int) error {
	if !IsGzipPath(dst) {
		return ErrNotGzipExtension
	}
	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	return writeThrough(fsys, dst, func(w io.Writer) error {
		zw, err := gzip.NewWriterLevel(w, level)
		if err != nil {
			return err
		}
		if _, err = io.Copy(zw, in); err != nil {
			return err
		}
		return zw.Close()
	})
}

// writeThrough stages the output of fn in a temporary file next to dst,
// then renames it over dst.
func writeThrough(fsys afero.Fs, dst string, fn func(io.Writer) error) error {
	f, err := afero.TempFile(fsys, filepath.Dir(dst), ".partial-"+filepath.Base(dst))
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if rmErr := fsys.Remove(tmp); rmErr != nil && !isNotExist(fsys, tmp) {
			log.WithFields(log.Fields{"err": rmErr, "path": tmp}).
				Warn("failed to cleanup temp file")
		}
	}()

	if err = fn(f); err == nil {
		err = f.Close()
	} else {
		f.Close()
	}
	if err == nil {
		err = fsys.Rename(tmp, dst)
	}
	return err
}

func isNotExist(fsys afero.Fs, path string) bool {
	ok, err := afero.Exists(fsys, path)
	return err == nil && !ok
}

// DefaultGzipLevel is the compression level used when none is configured.
const DefaultGzipLevel = gzip.DefaultCompression
