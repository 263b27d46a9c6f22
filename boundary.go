package greetbridge

// NullPtr is the null boundary pointer. Allocators never return it.
const NullPtr uint32 = 0

// PtrSize is the width of a pointer field in every boundary struct.
const PtrSize = 4

// Memory represents the linear memory shared by both sides of the boundary
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	ReadU8(offset uint32) (uint8, error)
	ReadU32(offset uint32) (uint32, error)
	WriteU32(offset uint32, value uint32) error
}

// MemorySizer provides the current size of linear memory in bytes.
type MemorySizer interface {
	Size() uint32
}

// Grower is implemented by memories that can grow by whole 64KiB pages.
// Grow returns the previous size in pages.
type Grower interface {
	Grow(deltaPages uint32) (uint32, bool)
}

// Allocator allocates memory in linear memory
type Allocator interface {
	Alloc(size, align uint32) (uint32, error)
	Free(ptr, size, align uint32)
}
