// Package memory provides the linear memories and the allocator shared by both
// sides of the boundary.
//
// # Memories
//
// Instance creates a wazero runtime holding a memory-only WebAssembly module and
// exposes its exported memory as a greetbridge.Memory:
//
//	inst, err := memory.NewInstance(ctx, &memory.Config{InitialPages: 1})
//	defer inst.Close(ctx)
//	mem := inst.Memory()
//
// Linear is a Go-heap memory with identical bounds checking, for callers that do
// not want a WebAssembly runtime:
//
//	mem := memory.NewLinear(1, 16)
//
// # Allocator
//
// Arena is a first-fit free-list allocator over any Memory. Address 0 is never
// handed out, so it can serve as the null pointer. When the free list cannot
// satisfy a request and the memory implements greetbridge.Grower, the arena
// grows the memory by whole pages:
//
//	arena := memory.NewArena(mem)
//	ptr, err := arena.Alloc(16, 4)
//	arena.Free(ptr, 16, 4)
package memory
