// Package greetbridge implements a memory-ownership and marshalling protocol for
// calls that cross a boundary between two memory-management models.
//
// One side (the "native" module) owns an allocator over a 32-bit little-endian
// linear memory. The other side (the "managed" host) reads and writes that memory
// only through the Memory interface and the published struct layouts. Every value
// that crosses the boundary carries an ownership mode:
//
//	transfer-to-caller   the receiver must hand it back exactly once via a release entry point
//	borrow-for-call      valid only during one call or callback; the native side frees it
//	borrow-from-caller   input owned by the caller; never retained or freed by the native side
//
// # Architecture Overview
//
//	greetbridge/         Root package with Memory, Allocator and pointer constants
//	├── wasm/            binary encoder for the memory-only module wazero hosts
//	├── memory/          wazero-backed and heap-backed memories, Arena allocator
//	├── codec/           null-terminated byte string codec, allocation lists
//	├── layout/          byte-exact struct layouts described as WIT records
//	├── ownership/       table of outstanding allocations and their release rules
//	├── scheduler/       explicitly started and stopped worker pool
//	├── greetings/       native entry points, callback bridge, parallel generator
//	├── host/            managed-side binding with owned result wrappers
//	├── errors/          structured error types
//	└── cmd/greet/       command line and interactive runner
//
// # Quick Start
//
//	mod, err := greetings.New(ctx, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer mod.Close(ctx)
//
//	client := host.New(mod)
//	text, err := client.RenderGreeting("World")
//	fmt.Println(text) // "Hello, World!"
//
// # Thread Safety
//
// Module entry points are safe for concurrent use. Owned result wrappers from the
// host package are safe to release from any goroutine, but only the first release
// succeeds.
//
// # Memory Model
//
// Pointers are uint32 offsets; 0 is null and never allocated. Linear memory can
// only grow. Released blocks are reused by later allocations, so a pointer kept
// after release may alias an unrelated value.
package greetbridge
