package wasm

const (
	// Magic is the WebAssembly binary magic number ("\0asm" in little-endian).
	Magic uint32 = 0x6D736100

	// Version is the supported WebAssembly binary format version.
	Version uint32 = 0x01
)

// Section IDs define the binary identifiers for each module section.
// Sections must appear in increasing order by ID (except custom sections).
const (
	SectionMemory byte = 5 // Memory section
	SectionExport byte = 7 // Export section
)

// External kinds for exports.
const (
	KindFunc   byte = 0 // Function export
	KindTable  byte = 1 // Table export
	KindMemory byte = 2 // Memory export
	KindGlobal byte = 3 // Global export
)

// Limits flags
const (
	LimitsNoMax    byte = 0x00
	LimitsHasMax   byte = 0x01
	LimitsShared   byte = 0x02
	LimitsMemory64 byte = 0x04
)

// PageSize is the size of one linear memory page.
const PageSize = 65536
