// Package validator decides whether a filesystem entry qualifies as a
// resource pack.
//
// Two shapes are accepted: an archive whose extension matches the
// configured container extension (case-insensitive) with the manifest at
// its root, or a directory holding the manifest file. The manifest must be
// JSON with a "pack" object declaring a numeric pack_format.
//
// Packs whose format falls outside the configured range are admitted and
// flagged Incompatible. Validation never modifies the candidate.
package validator
