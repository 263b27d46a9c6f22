// Package codec converts between Go strings and the null-terminated byte strings
// that cross the boundary.
//
// # Byte Strings
//
// A byte string is a sequence of UTF-8 bytes followed by a single zero byte:
//
//	┌──────────────────────────────┬────┐
//	│ H  e  l  l  o  ,     W  o ...│ 00 │
//	└──────────────────────────────┴────┘
//	ptr                            ptr+len
//
// The text may not contain an interior zero byte.
//
// # Ownership
//
// Decode borrows its pointer: it never frees or retains it. Encode allocates a
// new byte string that the caller of Encode owns and must release exactly once,
// either with Free or through an ownership table that does it on their behalf.
//
// # Allocation Lists
//
// Composite values (a greeting set is a struct, an array and N strings) are built
// from several allocations. An AllocationList collects them so that a partially
// built value can be rolled back, or a complete one released as a unit:
//
//	list := codec.NewAllocationList()
//	ptr, err := c.EncodeInto(text, list)
//	if err != nil {
//	    list.FreeAndRelease(alloc)
//	}
//
// # Errors
//
//	[decode] null_pointer: type byte-string - null pointer
//	[decode] invalid_encoding at name: invalid UTF-8 sequence: ff
//	[decode] out_of_bounds: offset 65536 out of bounds (memory size 65536)
package codec
