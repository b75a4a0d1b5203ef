// Package testutil provides fixtures for testing packorder components.
//
// PackDir builds a packs directory on an in-memory filesystem with archive
// packs, directory packs and stray files, so validation, scanning and
// manager tests never touch the real disk.
package testutil
