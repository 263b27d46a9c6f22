package ownership

import (
	"sync"

	greetbridge "github.com/wippyai/greetbridge"
	"github.com/wippyai/greetbridge/errors"
)

// Table tracks outstanding values by boundary pointer.
// It is safe for concurrent use.
type Table struct {
	alloc     greetbridge.Allocator
	live      map[uint32]Entry
	released  map[uint32]Kind
	observers []Observer
	mu        sync.Mutex
	obsMu     sync.RWMutex
	closed    bool
}

// NewTable creates a table that frees released values through alloc.
func NewTable(alloc greetbridge.Allocator) *Table {
	return &Table{
		alloc:    alloc,
		live:     make(map[uint32]Entry, 64),
		released: make(map[uint32]Kind, 64),
	}
}

// Track starts tracking e. The table takes ownership of e.Allocs.
func (t *Table) Track(e Entry) error {
	if e.Ptr == greetbridge.NullPtr {
		return errors.NullPointer(errors.PhaseRelease, nil, e.Kind.String())
	}
	if e.Mode == BorrowFromCaller {
		return errors.InvalidInput(errors.PhaseRelease, "caller-owned values are not tracked")
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return errors.Closed(errors.PhaseRelease, "ownership table")
	}
	if prev, ok := t.live[e.Ptr]; ok {
		t.mu.Unlock()
		return errors.New(errors.PhaseRelease, errors.KindInvalidInput).
			Type(e.Kind.String()).
			Detail("pointer 0x%x already tracked as %s", e.Ptr, prev.Kind).
			Value(e.Ptr).
			Build()
	}
	delete(t.released, e.Ptr)
	t.live[e.Ptr] = e
	t.mu.Unlock()

	t.notify(Event{Type: EventCreated, Entry: e})
	return nil
}

// Get returns the live entry at ptr if it has the given kind.
func (t *Table) Get(ptr uint32, kind Kind) (Entry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, err := t.lookup(ptr, kind, errors.PhaseDecode)
	if err != nil {
		if errors.IsKind(err, errors.KindDoubleRelease) {
			return Entry{}, errors.UseAfterRelease(errors.PhaseDecode, kind.String(), ptr)
		}
		return Entry{}, err
	}
	return e, nil
}

// Release frees a transferred value on behalf of its receiver.
func (t *Table) Release(ptr uint32, kind Kind) error {
	t.mu.Lock()
	e, err := t.lookup(ptr, kind, errors.PhaseRelease)
	if err == nil && e.Mode != TransferToCaller {
		err = errors.NotOwned(errors.PhaseRelease, kind.String(), ptr, "value is "+e.Mode.String())
	}
	if err != nil {
		t.mu.Unlock()
		return err
	}
	t.retire(e)
	t.mu.Unlock()

	t.notify(Event{Type: EventReleased, Entry: e})
	return nil
}

// Reclaim frees a value on behalf of the native side, whatever its mode.
func (t *Table) Reclaim(ptr uint32) error {
	t.mu.Lock()
	e, ok := t.live[ptr]
	if !ok {
		t.mu.Unlock()
		return errors.NotOwned(errors.PhaseRelease, "value", ptr, "not tracked")
	}
	t.retire(e)
	t.mu.Unlock()

	t.notify(Event{Type: EventReclaimed, Entry: e})
	return nil
}

// lookup must be called with t.mu held.
func (t *Table) lookup(ptr uint32, kind Kind, phase errors.Phase) (Entry, error) {
	if ptr == greetbridge.NullPtr {
		return Entry{}, errors.NullPointer(phase, nil, kind.String())
	}
	e, ok := t.live[ptr]
	if !ok {
		if _, gone := t.released[ptr]; gone {
			return Entry{}, errors.DoubleRelease(phase, kind.String(), ptr)
		}
		return Entry{}, errors.NotOwned(phase, kind.String(), ptr, "not obtained from a transfer")
	}
	if e.Kind != kind {
		return Entry{}, errors.New(phase, errors.KindInvalidInput).
			Type(kind.String()).
			Detail("pointer 0x%x holds a %s", ptr, e.Kind).
			Value(ptr).
			Build()
	}
	return e, nil
}

// retire must be called with t.mu held.
func (t *Table) retire(e Entry) {
	delete(t.live, e.Ptr)
	t.released[e.Ptr] = e.Kind
	if e.Allocs != nil {
		e.Allocs.FreeAndRelease(t.alloc)
	}
}

// Len returns the number of outstanding values.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.live)
}

// Each iterates over outstanding values until fn returns false.
func (t *Table) Each(fn func(Entry) bool) {
	t.mu.Lock()
	entries := make([]Entry, 0, len(t.live))
	for _, e := range t.live {
		entries = append(entries, e)
	}
	t.mu.Unlock()

	for _, e := range entries {
		if !fn(e) {
			return
		}
	}
}

// Drain reclaims every outstanding value and returns how many there were.
func (t *Table) Drain() int {
	var ptrs []uint32
	t.Each(func(e Entry) bool {
		ptrs = append(ptrs, e.Ptr)
		return true
	})
	n := 0
	for _, p := range ptrs {
		if t.Reclaim(p) == nil {
			n++
		}
	}
	return n
}

// Close drains the table and rejects further tracking.
func (t *Table) Close() int {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	return t.Drain()
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnOwnershipEvent(e)
	}
}
