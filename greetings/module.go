package greetings

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	greetbridge "github.com/wippyai/greetbridge"
	"github.com/wippyai/greetbridge/codec"
	"github.com/wippyai/greetbridge/errors"
	"github.com/wippyai/greetbridge/memory"
	"github.com/wippyai/greetbridge/ownership"
	"github.com/wippyai/greetbridge/scheduler"
)

// Module is the native side of the boundary. It owns the linear memory, the
// allocator and every value it hands out until that value is released.
//
// Entry points are safe for concurrent use. Close must not race with calls
// still in flight.
type Module struct {
	cfg    Config
	log    *zap.Logger
	mem    greetbridge.Memory
	inst   *memory.Instance
	arena  *memory.Arena
	codec  *codec.Codec
	table  *ownership.Table
	sched  *scheduler.Scheduler
	render func(index int, name string) (string, error)
	closed atomic.Bool
}

// New creates a module. A nil cfg uses DefaultConfig.
func New(ctx context.Context, cfg *Config) (*Module, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := cfg.normalize()

	m := &Module{
		cfg:    c,
		log:    c.Logger.With(zap.String("backend", string(c.Backend))),
		render: greetingNumber,
	}

	switch c.Backend {
	case BackendWazero:
		inst, err := memory.NewInstance(ctx, &memory.Config{
			InitialPages:     c.MemoryPages,
			MemoryLimitPages: c.MemoryLimitPages,
		})
		if err != nil {
			return nil, errors.Init("create wazero memory", err)
		}
		m.inst = inst
		m.mem = inst.Memory()
	case BackendHeap:
		m.mem = memory.NewLinear(c.MemoryPages, c.MemoryLimitPages)
	default:
		return nil, errors.New(errors.PhaseInit, errors.KindInvalidInput).
			Detail("unknown backend %q", c.Backend).
			Build()
	}

	m.arena = memory.NewArena(m.mem)
	m.codec = codec.New(m.mem, m.arena)
	m.table = ownership.NewTable(m.arena)
	m.table.Subscribe(ownership.ObserverFunc(m.logEvent))
	m.sched = scheduler.New(scheduler.Config{Workers: c.Workers})

	m.log.Debug("module created",
		zap.Uint32("pages", c.MemoryPages),
		zap.Uint32("limit_pages", c.MemoryLimitPages),
		zap.Int("workers", m.sched.Workers()),
		zap.Stringer("ordering", c.Ordering))
	return m, nil
}

// Memory returns the module's linear memory.
func (m *Module) Memory() greetbridge.Memory {
	return m.mem
}

// Allocator returns the module allocator. Callers use it to place their own
// inputs in module memory and must free what they allocate.
func (m *Module) Allocator() *memory.Arena {
	return m.arena
}

// Outstanding returns the number of values handed out and not yet released.
func (m *Module) Outstanding() int {
	return m.table.Len()
}

// Close stops the scheduler, reclaims every outstanding value and releases
// the memory. Calling Close more than once is a no-op.
func (m *Module) Close(ctx context.Context) error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}
	_ = m.sched.Close()

	if n := m.table.Close(); n > 0 {
		m.log.Warn("reclaimed values never released", zap.Int("count", n))
	}
	if count, bytes := m.arena.Live(); count > 0 {
		m.log.Warn("allocations still live at close",
			zap.Int("count", count),
			zap.Uint64("bytes", bytes))
	}

	if m.inst != nil {
		if err := m.inst.Close(ctx); err != nil {
			return errors.Wrap(errors.PhaseInit, errors.KindClosed, err, "close wazero memory")
		}
	}
	m.log.Debug("module closed")
	return nil
}

func (m *Module) ensureOpen(phase errors.Phase) error {
	if m.closed.Load() {
		return errors.Closed(phase, "module")
	}
	return nil
}

func (m *Module) logEvent(e ownership.Event) {
	if ce := m.log.Check(zap.DebugLevel, "ownership "+e.Type.String()); ce != nil {
		ce.Write(
			zap.Stringer("kind", e.Entry.Kind),
			zap.Stringer("mode", e.Entry.Mode),
			zap.Uint32("ptr", e.Entry.Ptr))
	}
}
