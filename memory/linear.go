package memory

import (
	"encoding/binary"
	"fmt"
	"sync"

	greetbridge "github.com/wippyai/greetbridge"
	"github.com/wippyai/greetbridge/wasm"
)

// PageSize is the size of one linear memory page.
const PageSize = wasm.PageSize

var (
	_ greetbridge.Memory      = (*Linear)(nil)
	_ greetbridge.MemorySizer = (*Linear)(nil)
	_ greetbridge.Grower      = (*Linear)(nil)
)

// Linear is a heap-backed little-endian linear memory.
// It is safe for concurrent use.
type Linear struct {
	data     []byte
	maxPages uint32
	mu       sync.RWMutex
}

// NewLinear creates a memory of initialPages pages that can grow to maxPages.
// maxPages of 0 means the 32-bit address space limit.
func NewLinear(initialPages, maxPages uint32) *Linear {
	if maxPages == 0 || maxPages > 65536 {
		maxPages = 65536
	}
	if initialPages > maxPages {
		initialPages = maxPages
	}
	return &Linear{
		data:     make([]byte, int(initialPages)*PageSize),
		maxPages: maxPages,
	}
}

// Size returns the current memory size in bytes.
func (m *Linear) Size() uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return uint32(len(m.data))
}

// Grow grows memory by deltaPages and returns the previous size in pages.
func (m *Linear) Grow(deltaPages uint32) (uint32, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := uint32(len(m.data) / PageSize)
	if uint64(prev)+uint64(deltaPages) > uint64(m.maxPages) {
		return prev, false
	}
	if deltaPages == 0 {
		return prev, true
	}
	grown := make([]byte, len(m.data)+int(deltaPages)*PageSize)
	copy(grown, m.data)
	m.data = grown
	return prev, true
}

func (m *Linear) bounds(offset uint32, length uint64) bool {
	return uint64(offset)+length <= uint64(len(m.data))
}

// Read returns a copy of length bytes at offset.
func (m *Linear) Read(offset uint32, length uint32) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.bounds(offset, uint64(length)) {
		return nil, fmt.Errorf("memory read out of bounds: offset=%d, length=%d", offset, length)
	}
	out := make([]byte, length)
	copy(out, m.data[offset:])
	return out, nil
}

// Write writes bytes to memory.
func (m *Linear) Write(offset uint32, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.bounds(offset, uint64(len(data))) {
		return fmt.Errorf("memory write out of bounds: offset=%d, length=%d", offset, len(data))
	}
	copy(m.data[offset:], data)
	return nil
}

// ReadU8 reads an unsigned 8-bit value.
func (m *Linear) ReadU8(offset uint32) (uint8, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.bounds(offset, 1) {
		return 0, fmt.Errorf("memory read out of bounds: offset=%d", offset)
	}
	return m.data[offset], nil
}

// ReadU32 reads an unsigned 32-bit little-endian value.
func (m *Linear) ReadU32(offset uint32) (uint32, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.bounds(offset, 4) {
		return 0, fmt.Errorf("memory read out of bounds: offset=%d", offset)
	}
	return binary.LittleEndian.Uint32(m.data[offset:]), nil
}

// WriteU32 writes an unsigned 32-bit little-endian value.
func (m *Linear) WriteU32(offset uint32, value uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.bounds(offset, 4) {
		return fmt.Errorf("memory write out of bounds: offset=%d", offset)
	}
	binary.LittleEndian.PutUint32(m.data[offset:], value)
	return nil
}

