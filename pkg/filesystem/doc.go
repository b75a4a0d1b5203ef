// Package filesystem provides filesystem implementations for the pack manager.
//
// This package contains implementations of the types.FS interface,
// including the standard OS filesystem and afero-backed filesystems used
// by tests (in-memory and read-only wrappers).
package filesystem
