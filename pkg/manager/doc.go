// Package manager owns the pack list and applies every change to it.
//
// One mutex serialises list mutations, saves and the swap at the end of a
// rescan. Rescans do their directory and archive work without the lock and
// then re-partition the fresh packs against the live order, so an edit made
// while a scan was running is kept. Concurrent rescans share one scan.
//
// Deleting a pack removes it from disk first; the list only changes once
// the filesystem has confirmed the removal.
package manager
