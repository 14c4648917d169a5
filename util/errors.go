package util

import "github.com/pkg/errors"

// Sentinel errors for package util.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// File and directory errors
	ErrExpectedFile      = errors.New("expected file, got directory")
	ErrExpectedDirectory = errors.New("expected directory but got file")
	ErrUnexpectedSymlink = errors.New("expected file, got symlink")

	// Compression errors
	ErrNotGzipExtension = errors.New("file path extension is not '.gz'")

	// Transcoding errors
	ErrInvalidEncoding = errors.New("content is not valid base64")
)
