package memory

import (
	"math"
	"sort"
	"sync"

	"go.uber.org/zap"

	greetbridge "github.com/wippyai/greetbridge"
	"github.com/wippyai/greetbridge/errors"
)

// arenaBase keeps the first bytes of memory unallocated so that 0 stays null.
const arenaBase = 8

var _ greetbridge.Allocator = (*Arena)(nil)

type block struct {
	off  uint32
	size uint32
}

// Arena is a first-fit free-list allocator over a linear memory.
// Adjacent free blocks are coalesced. It is safe for concurrent use.
type Arena struct {
	mem       greetbridge.Memory
	live      map[uint32]uint32
	free      []block // sorted by offset
	top       uint32
	liveBytes uint64
	mu        sync.Mutex
}

// NewArena creates an allocator that manages mem from offset 8 upwards.
func NewArena(mem greetbridge.Memory) *Arena {
	return &Arena{
		mem:  mem,
		live: make(map[uint32]uint32),
		top:  arenaBase,
	}
}

// Alloc returns the offset of a block of at least size bytes aligned to align.
// A zero size is rounded up to one byte so every live pointer is distinct.
func (a *Arena) Alloc(size, align uint32) (uint32, error) {
	if align == 0 {
		align = 1
	}
	if align&(align-1) != 0 {
		return 0, errors.InvalidInput(errors.PhaseAlloc, "alignment must be a power of two")
	}
	if size == 0 {
		size = 1
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if ptr, ok := a.takeFree(size, align); ok {
		a.track(ptr, size)
		return ptr, nil
	}

	ptr := alignTo(a.top, align)
	end := uint64(ptr) + uint64(size)
	if ptr < a.top || end > math.MaxUint32 {
		return 0, errors.AllocationFailed(errors.PhaseAlloc, size, align)
	}
	if err := a.ensure(uint32(end)); err != nil {
		return 0, err
	}
	if ptr > a.top {
		a.insertFree(block{off: a.top, size: ptr - a.top})
	}
	a.top = uint32(end)
	a.track(ptr, size)
	return ptr, nil
}

// Free returns a block to the free list. Unknown pointers are ignored.
// The recorded block size is used; size and align are accepted for interface
// compatibility.
func (a *Arena) Free(ptr, size, align uint32) {
	a.mu.Lock()
	defer a.mu.Unlock()

	recorded, ok := a.live[ptr]
	if !ok {
		Logger().Warn("free of unknown pointer ignored",
			zap.Uint32("ptr", ptr),
			zap.Uint32("size", size))
		return
	}
	delete(a.live, ptr)
	a.liveBytes -= uint64(recorded)
	a.insertFree(block{off: ptr, size: recorded})
	a.trimTop()
}

// SizeOf returns the size of a live allocation.
func (a *Arena) SizeOf(ptr uint32) (uint32, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	size, ok := a.live[ptr]
	return size, ok
}

// Live returns the number of outstanding allocations and their total size.
func (a *Arena) Live() (count int, bytes uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.live), a.liveBytes
}

func (a *Arena) track(ptr, size uint32) {
	a.live[ptr] = size
	a.liveBytes += uint64(size)
}

func (a *Arena) takeFree(size, align uint32) (uint32, bool) {
	for i, b := range a.free {
		ptr := alignTo(b.off, align)
		pad := ptr - b.off
		if ptr < b.off || uint64(pad)+uint64(size) > uint64(b.size) {
			continue
		}
		rest := b.size - pad - size

		replace := make([]block, 0, 2)
		if pad > 0 {
			replace = append(replace, block{off: b.off, size: pad})
		}
		if rest > 0 {
			replace = append(replace, block{off: ptr + size, size: rest})
		}
		a.free = append(a.free[:i], append(replace, a.free[i+1:]...)...)
		return ptr, true
	}
	return 0, false
}

func (a *Arena) insertFree(b block) {
	i := sort.Search(len(a.free), func(i int) bool { return a.free[i].off >= b.off })
	a.free = append(a.free, block{})
	copy(a.free[i+1:], a.free[i:])
	a.free[i] = b

	// merge with successor, then predecessor
	if i+1 < len(a.free) && a.free[i].off+a.free[i].size == a.free[i+1].off {
		a.free[i].size += a.free[i+1].size
		a.free = append(a.free[:i+1], a.free[i+2:]...)
	}
	if i > 0 && a.free[i-1].off+a.free[i-1].size == a.free[i].off {
		a.free[i-1].size += a.free[i].size
		a.free = append(a.free[:i], a.free[i+1:]...)
	}
}

// trimTop gives a trailing free block back to the bump region.
func (a *Arena) trimTop() {
	n := len(a.free)
	if n == 0 {
		return
	}
	last := a.free[n-1]
	if last.off+last.size == a.top {
		a.top = last.off
		a.free = a.free[:n-1]
	}
}

// ensure grows memory until end fits.
func (a *Arena) ensure(end uint32) error {
	sizer, ok := a.mem.(greetbridge.MemorySizer)
	if !ok {
		return nil
	}
	current := sizer.Size()
	if end <= current {
		return nil
	}
	grower, ok := a.mem.(greetbridge.Grower)
	if !ok {
		return errors.AllocationFailed(errors.PhaseAlloc, end-current, 1)
	}
	need := (uint64(end) - uint64(current) + PageSize - 1) / PageSize
	if _, ok := grower.Grow(uint32(need)); !ok {
		return errors.New(errors.PhaseAlloc, errors.KindAllocation).
			Detail("cannot grow memory by %d pages", need).
			Build()
	}
	Logger().Debug("memory grown", zap.Uint64("pages", need), zap.Uint32("size", sizer.Size()))
	return nil
}

func alignTo(offset, align uint32) uint32 {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}
