// Package util provides supporting infrastructure for the notes tools.
//
// It holds the pieces that sit around the container engine rather than in
// it:
//
// Compression:
//   - GunzipFile and GzipFile convert between a ".notes.gz" container and
//     the plain log the engine edits, staging output in a temporary sibling
//     so a failed write never replaces the destination
//
// Transcoding:
//   - IsText decides whether a host file can be stored as content lines
//   - EncodeBase64Lines and DecodeBase64Lines store anything else as
//     wrapped base64
//
// Hashing:
//   - SHA-256 content hashes for listings
//
// Metadata:
//   - Metadata summarises a container and renders as JSON or YAML
//
// Logging:
//   - InitLogger configures the process-wide logrus logger
package util
