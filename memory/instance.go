package memory

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/greetbridge/wasm"
)

const exportName = "memory"

// Config holds configuration for Instance creation
type Config struct {
	// InitialPages is the memory size at instantiation in 64KiB pages.
	// 0 means 1 page.
	InitialPages uint32

	// MemoryLimitPages caps memory growth in pages.
	// 0 means the wazero default (65536 pages = 4GB).
	MemoryLimitPages uint32
}

// Instance owns a wazero runtime holding a single memory-only module.
type Instance struct {
	runtime wazero.Runtime
	module  api.Module
	mem     *Wrapper
}

// NewInstance compiles and instantiates a module that exports one memory.
func NewInstance(ctx context.Context, cfg *Config) (*Instance, error) {
	initial := uint32(1)
	var limit uint32
	if cfg != nil {
		if cfg.InitialPages > 0 {
			initial = cfg.InitialPages
		}
		limit = cfg.MemoryLimitPages
	}
	if limit > 0 && initial > limit {
		return nil, fmt.Errorf("initial pages %d exceed limit %d", initial, limit)
	}

	runtimeCfg := wazero.NewRuntimeConfig()
	if limit > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(limit)
	}
	rt := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	bin := wasm.NewMemoryModule(exportName, initial, limit)
	compiled, err := rt.CompileModule(ctx, bin.Encode())
	if err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("compile memory module: %w", err)
	}

	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName("greetbridge-memory"))
	if err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("instantiate memory module: %w", err)
	}

	exp, _ := bin.MemoryExport()
	mem := WrapMemory(mod.ExportedMemory(exp.Name))
	if mem == nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("module does not export %q", exportName)
	}

	Logger().Debug("memory instance created",
		zap.Uint32("initial_pages", initial),
		zap.Uint32("limit_pages", limit))

	return &Instance{runtime: rt, module: mod, mem: mem}, nil
}

// Memory returns the exported linear memory.
func (i *Instance) Memory() *Wrapper {
	return i.mem
}

// Close closes the module and the runtime. The memory is invalid afterwards.
func (i *Instance) Close(ctx context.Context) error {
	if i.runtime == nil {
		return nil
	}
	err := i.runtime.Close(ctx)
	i.runtime = nil
	i.module = nil
	return err
}
