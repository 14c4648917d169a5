// Package notes implements the log engine behind a .notes container.
//
// A container is a single host file holding an entire directory hierarchy as a
// sequence of newline-terminated text records. The first line is always the
// header "NOTES V1.0"; every line after it starts with a one byte marker:
//
//	@path      declares a file
//	=path/     declares a directory
//	 payload   one line of the preceding file's content
//	#payload   a tombstoned line, its original marker overwritten
//
// The package provides the pieces needed to work with that log:
//
// Records and Paths:
//   - DecodeRecord and the record constructors define the wire grammar
//   - ValidatePath rejects internal paths that cannot be represented
//
// Tree Building:
//   - Parse reconstructs an arena-backed Tree and the flat record list
//   - Sort imposes the canonical directories-first, name-ascending order
//
// Mutation:
//   - Tombstone, DeleteRecord and DeleteDir mark records deleted in place
//     without changing the length of the log
//   - Compact rewrites the log from the live tree, dropping tombstones
//
// Container wraps all of the above behind the operations the notes command
// exposes (insert, extract, mkdir, rm, rmdir, defrag, validate).
//
// Nothing in this package is safe for concurrent use against the same
// container file. The tombstone editor overwrites bytes at computed offsets and
// the compactor truncates and rewrites the file, so two writers racing on one
// log will corrupt it. No locking is attempted.
package notes
