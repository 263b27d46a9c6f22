// Package ownership tracks native allocations that have crossed the boundary and
// enforces who may release them.
//
// # Modes
//
//	TransferToCaller  the receiver owns the value and releases it exactly once
//	BorrowForCall     valid for one call or callback; the native side reclaims it
//	BorrowFromCaller  an input the caller owns; never tracked or released here
//
// # Table
//
// Every value handed out by the native side is tracked under the pointer the
// other side sees, together with the allocations that make it up:
//
//	table := ownership.NewTable(arena)
//	table.Track(ownership.Entry{Ptr: ptr, Kind: ownership.KindString,
//	    Mode: ownership.TransferToCaller, Allocs: list})
//
//	// receiver hands it back
//	err := table.Release(ptr, ownership.KindString)
//
// # Release Discipline
//
// Releases are checked rather than left undefined:
//
//	second release of the same pointer     double_release
//	release of a pointer never handed out  not_owned
//	receiver releasing a borrowed value    not_owned
//	release under the wrong kind           invalid_input
//
// A released pointer keeps a tombstone until the allocator reissues the same
// address, so a stale pointer is reported as double_release until then.
//
// # Observers
//
// Observers receive Created, Released and Reclaimed events synchronously, in
// the order the table processes them.
package ownership
