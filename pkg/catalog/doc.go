// Package catalog scans a packs directory and partitions what it finds.
//
// Every entry is validated on every scan; nothing is cached between scans
// because the game and the user change the directory behind our back.
// Entries that fail validation are reported as problems and never abort the
// scan. Identities named by the persisted order form the enabled partition
// in that order; all other valid packs are disabled.
package catalog
