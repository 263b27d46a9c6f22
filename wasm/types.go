package wasm

// Module represents a WebAssembly module limited to memories and exports.
type Module struct {
	Memories []MemoryType
	Exports  []Export
}

// MemoryType describes a linear memory.
type MemoryType struct {
	Limits Limits
}

// Limits describes size constraints for memories, in pages.
type Limits struct {
	Max      *uint64
	Min      uint64
	Shared   bool
	Memory64 bool
}

// Export represents a module export.
// Kind uses KindFunc, KindTable, KindMemory or KindGlobal constants.
type Export struct {
	Name string
	Kind byte
	Idx  uint32
}

// NewMemoryModule returns a module declaring one memory of minPages and
// exporting it as name. A zero maxPages leaves the memory unbounded.
func NewMemoryModule(name string, minPages, maxPages uint32) *Module {
	limits := Limits{Min: uint64(minPages)}
	if maxPages > 0 {
		limit := uint64(maxPages)
		limits.Max = &limit
	}
	return &Module{
		Memories: []MemoryType{{Limits: limits}},
		Exports:  []Export{{Name: name, Kind: KindMemory, Idx: 0}},
	}
}

// MemoryExport returns the first memory export, if any.
func (m *Module) MemoryExport() (Export, bool) {
	for _, e := range m.Exports {
		if e.Kind == KindMemory {
			return e, true
		}
	}
	return Export{}, false
}
