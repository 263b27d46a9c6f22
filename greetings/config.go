package greetings

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Backend selects the linear memory implementation.
type Backend string

const (
	// BackendWazero instantiates a memory-only WebAssembly module.
	BackendWazero Backend = "wazero"
	// BackendHeap uses a Go byte slice.
	BackendHeap Backend = "heap"
)

// Ordering selects how parallel results are assembled.
type Ordering uint8

const (
	// OrderIndex places greeting i at position i-1.
	OrderIndex Ordering = iota
	// OrderCompletion keeps results in arrival order.
	OrderCompletion
)

func (o Ordering) String() string {
	switch o {
	case OrderIndex:
		return "index"
	case OrderCompletion:
		return "completion"
	default:
		return "unknown"
	}
}

// ParseOrdering parses "index" or "completion".
func ParseOrdering(s string) (Ordering, error) {
	switch s {
	case "index", "":
		return OrderIndex, nil
	case "completion":
		return OrderCompletion, nil
	}
	return 0, fmt.Errorf("unknown ordering %q", s)
}

const (
	DefaultMemoryPages      = 1
	DefaultMemoryLimitPages = 256 // 16MiB
	DefaultParallelTimeout  = 5 * time.Second
)

// Config configures a Module.
type Config struct {
	// Logger overrides the package logger for this module.
	Logger *zap.Logger

	// Backend defaults to BackendWazero.
	Backend Backend

	// MemoryPages is the initial memory size in 64KiB pages. Default: 1.
	MemoryPages uint32

	// MemoryLimitPages caps memory growth. Default: 256.
	MemoryLimitPages uint32

	// Workers sizes the scheduler used by RenderGreetingsInParallel.
	// Default: GOMAXPROCS.
	Workers int

	// ParallelTimeout bounds the wait for parallel results. Zero disables
	// the bound; DefaultConfig sets DefaultParallelTimeout.
	ParallelTimeout time.Duration

	// CallbackTimeout bounds a callback invocation. Zero waits forever.
	CallbackTimeout time.Duration

	Ordering Ordering
}

// DefaultConfig returns the configuration used when New is given nil.
func DefaultConfig() *Config {
	return &Config{
		Backend:          BackendWazero,
		MemoryPages:      DefaultMemoryPages,
		MemoryLimitPages: DefaultMemoryLimitPages,
		ParallelTimeout:  DefaultParallelTimeout,
		Ordering:         OrderIndex,
	}
}

func (c *Config) normalize() Config {
	out := *c
	if out.Backend == "" {
		out.Backend = BackendWazero
	}
	if out.MemoryPages == 0 {
		out.MemoryPages = DefaultMemoryPages
	}
	if out.MemoryLimitPages == 0 {
		out.MemoryLimitPages = DefaultMemoryLimitPages
	}
	if out.MemoryLimitPages < out.MemoryPages {
		out.MemoryLimitPages = out.MemoryPages
	}
	if out.Logger == nil {
		out.Logger = Logger()
	}
	return out
}
