// Package main provides the notes command-line interface.
//
// notes manages .notes containers: a whole directory tree stored in one
// plain-text file as a log of records. Files are appended, deletions
// tombstone records in place and defrag compacts the log.
//
// The main binary supports multiple subcommands:
//   - init, list, copyin, copyout, mkdir, rm, rmdir: edit a container
//   - defrag, validate, info: maintain and inspect a container
//   - import, export, seed: move whole directory trees in and out
//   - mount: serve a container read-only over FUSE
package main
