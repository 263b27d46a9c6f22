// Package layout defines the byte-exact shapes of the structs that cross the
// boundary and reads and writes them in linear memory.
//
// Shapes are described as WIT records so their size, alignment and field
// offsets follow the Canonical ABI rules. Pointers are u32 and counts s32:
//
//	Shape          Size  Align  Fields (offset)
//	───────────────────────────────────────────────────────────────
//	greeting       4     4      text (0)
//	greeting-set   8     4      greetings (0), number-of-greetings (4)
//	person         8     4      first-name (0), last-name (4)
//
// A greeting-set's greetings field points at number-of-greetings contiguous
// greeting values allocated as a single block.
//
// Any party holding the same description can read or write these structs
// without calling into the side that created them. Layout is a contract, not a
// runtime check: reading a struct at an address that does not hold one yields
// garbage field values, not an error.
package layout
