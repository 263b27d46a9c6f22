// Package wasm encodes the subset of the WebAssembly binary format needed to
// host boundary memory in a wazero runtime: modules that declare and export
// linear memories.
//
//	max := uint64(256)
//	mod := &wasm.Module{
//	    Memories: []wasm.MemoryType{{Limits: wasm.Limits{Min: 1, Max: &max}}},
//	    Exports:  []wasm.Export{{Name: "memory", Kind: wasm.KindMemory, Idx: 0}},
//	}
//	bin := mod.Encode()
//
// Sections are written in the order the binary format requires.
package wasm
