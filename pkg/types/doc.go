// Package types defines the core data types shared by the pack manager.
//
// ResourcePack is the unit every other package passes around; FS is the
// filesystem abstraction used by validation, scanning and deletion so that
// tests can run against an in-memory filesystem.
package types
