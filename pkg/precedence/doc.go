// Package precedence holds the ordered list of known resource packs.
//
// A List keeps every pack in one sequence and marks each entry enabled or
// disabled. The two partitions are read-only projections of that sequence:
//
//	Enabled()  - ordered by precedence, index 0 wins
//	Disabled() - most recently disabled first
//
// Enable and Disable move the pack to the front of the sequence, which puts
// it at index 0 of its new partition. MoveUp and MoveDown swap a pack with
// its nearest enabled neighbour, so disabled entries never affect
// precedence.
//
// A List is not safe for concurrent use. The manager package owns the list
// and serialises every call.
package precedence
