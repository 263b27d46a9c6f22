package codec

import (
	"sync"

	greetbridge "github.com/wippyai/greetbridge"
)

// Allocation is one block recorded in an AllocationList.
type Allocation struct {
	Ptr   uint32
	Size  uint32
	Align uint32
}

// AllocationList records the blocks that make up one composite value.
type AllocationList struct {
	allocations []Allocation
}

var allocationListPool = sync.Pool{
	New: func() any {
		return &AllocationList{allocations: make([]Allocation, 0, 8)}
	},
}

// NewAllocationList returns an empty list from the pool.
func NewAllocationList() *AllocationList {
	return allocationListPool.Get().(*AllocationList)
}

const maxPooledAllocationCapacity = 128

// Release returns to pool. Must call after Free(); list invalid after Release.
func (al *AllocationList) Release() {
	// Only pool small allocations to prevent memory bloat
	if cap(al.allocations) > maxPooledAllocationCapacity {
		return
	}
	al.Reset()
	allocationListPool.Put(al)
}

// FreeAndRelease frees every block and returns the list to the pool.
func (al *AllocationList) FreeAndRelease(allocator greetbridge.Allocator) {
	al.Free(allocator)
	al.Release()
}

// Add records a block.
func (al *AllocationList) Add(ptr, size, align uint32) {
	al.allocations = append(al.allocations, Allocation{
		Ptr:   ptr,
		Size:  size,
		Align: align,
	})
}

// Free frees every block in reverse allocation order.
func (al *AllocationList) Free(allocator greetbridge.Allocator) {
	if allocator == nil {
		return
	}
	for i := len(al.allocations) - 1; i >= 0; i-- {
		a := al.allocations[i]
		if a.Ptr != 0 {
			allocator.Free(a.Ptr, a.Size, a.Align)
		}
	}
}

// Reset empties the list without freeing.
func (al *AllocationList) Reset() {
	al.allocations = al.allocations[:0]
}

// Count returns the number of recorded blocks.
func (al *AllocationList) Count() int {
	return len(al.allocations)
}

// Bytes returns the total size of recorded blocks.
func (al *AllocationList) Bytes() uint64 {
	var total uint64
	for _, a := range al.allocations {
		total += uint64(a.Size)
	}
	return total
}
