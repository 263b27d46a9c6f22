package memory

import (
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero/api"

	greetbridge "github.com/wippyai/greetbridge"
)

var (
	_ greetbridge.Memory      = (*Wrapper)(nil)
	_ greetbridge.MemorySizer = (*Wrapper)(nil)
	_ greetbridge.Grower      = (*Wrapper)(nil)
)

// WrapMemory wraps a wazero api.Memory to implement greetbridge.Memory.
func WrapMemory(mem api.Memory) *Wrapper {
	if mem == nil {
		return nil
	}
	return &Wrapper{mem: mem}
}

// Wrapper adapts wazero api.Memory to the greetbridge.Memory interface.
// Growth reallocates the backing buffer, so every access goes through mu.
// It is safe for concurrent use.
type Wrapper struct {
	mem api.Memory
	mu  sync.RWMutex
}

// Size returns the current memory size in bytes.
func (m *Wrapper) Size() uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mem.Size()
}

// Grow grows memory by deltaPages and returns the previous size in pages.
func (m *Wrapper) Grow(deltaPages uint32) (uint32, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mem.Grow(deltaPages)
}

// Read returns a copy of length bytes at offset.
func (m *Wrapper) Read(offset uint32, length uint32) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, fmt.Errorf("memory read out of bounds: offset=%d, length=%d", offset, length)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Write writes bytes to memory. Writes to disjoint ranges may run
// concurrently; the allocator never hands out overlapping blocks.
func (m *Wrapper) Write(offset uint32, data []byte) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.mem.Write(offset, data) {
		return fmt.Errorf("memory write out of bounds: offset=%d, length=%d", offset, len(data))
	}
	return nil
}

// ReadU8 reads an unsigned 8-bit value.
func (m *Wrapper) ReadU8(offset uint32) (uint8, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.mem.ReadByte(offset)
	if !ok {
		return 0, fmt.Errorf("memory read out of bounds: offset=%d", offset)
	}
	return v, nil
}

// ReadU32 reads an unsigned 32-bit little-endian value.
func (m *Wrapper) ReadU32(offset uint32) (uint32, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.mem.ReadUint32Le(offset)
	if !ok {
		return 0, fmt.Errorf("memory read out of bounds: offset=%d", offset)
	}
	return v, nil
}

// WriteU32 writes an unsigned 32-bit little-endian value.
func (m *Wrapper) WriteU32(offset uint32, value uint32) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.mem.WriteUint32Le(offset, value) {
		return fmt.Errorf("memory write out of bounds: offset=%d", offset)
	}
	return nil
}
