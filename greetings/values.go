package greetings

import (
	"math"

	"github.com/wippyai/greetbridge/codec"
	"github.com/wippyai/greetbridge/errors"
	"github.com/wippyai/greetbridge/layout"
	"github.com/wippyai/greetbridge/ownership"
)

// Every builder below records its blocks in one AllocationList. On failure
// the list is freed, so a partially built value never leaks.

func (m *Module) alloc(list *codec.AllocationList, size, align uint32) (uint32, error) {
	ptr, err := m.arena.Alloc(size, align)
	if err != nil {
		return 0, err
	}
	list.Add(ptr, size, align)
	return ptr, nil
}

func (m *Module) track(ptr uint32, kind ownership.Kind, mode ownership.Mode, list *codec.AllocationList) error {
	if err := m.table.Track(ownership.Entry{Ptr: ptr, Kind: kind, Mode: mode, Allocs: list}); err != nil {
		list.FreeAndRelease(m.arena)
		return err
	}
	return nil
}

func (m *Module) newString(text string, kind ownership.Kind, mode ownership.Mode) (uint32, error) {
	list := codec.NewAllocationList()
	ptr, err := m.codec.EncodeInto(text, list)
	if err != nil {
		list.FreeAndRelease(m.arena)
		return 0, err
	}
	if err := m.track(ptr, kind, mode, list); err != nil {
		return 0, err
	}
	return ptr, nil
}

func (m *Module) newGreetingRef(text string) (uint32, error) {
	list := codec.NewAllocationList()
	ptr, err := m.buildGreetingRef(text, list)
	if err != nil {
		list.FreeAndRelease(m.arena)
		return 0, err
	}
	if err := m.track(ptr, ownership.KindGreetingRef, ownership.TransferToCaller, list); err != nil {
		return 0, err
	}
	return ptr, nil
}

func (m *Module) buildGreetingRef(text string, list *codec.AllocationList) (uint32, error) {
	textPtr, err := m.codec.EncodeInto(text, list)
	if err != nil {
		return 0, err
	}
	ptr, err := m.alloc(list, layout.GreetingLayout.Size, layout.GreetingLayout.Align)
	if err != nil {
		return 0, err
	}
	if err := layout.WriteGreeting(m.mem, ptr, layout.Greeting{Text: textPtr}); err != nil {
		return 0, err
	}
	return ptr, nil
}

func (m *Module) newGreetingSet(texts []string, mode ownership.Mode) (uint32, error) {
	list := codec.NewAllocationList()
	ptr, err := m.buildGreetingSet(texts, list)
	if err != nil {
		list.FreeAndRelease(m.arena)
		return 0, err
	}
	if err := m.track(ptr, ownership.KindGreetingSet, mode, list); err != nil {
		return 0, err
	}
	return ptr, nil
}

// buildGreetingSet allocates the texts, a single array block and the set
// header. An empty set has a null array and a zero count.
func (m *Module) buildGreetingSet(texts []string, list *codec.AllocationList) (uint32, error) {
	if len(texts) > math.MaxInt32 {
		return 0, errors.Overflow(errors.PhaseEncode, []string{layout.FieldNumberOfGreetings}, len(texts), "s32 count")
	}
	count := int32(len(texts))

	greetings := make([]layout.Greeting, count)
	for i, text := range texts {
		ptr, err := m.codec.EncodeInto(text, list)
		if err != nil {
			return 0, err
		}
		greetings[i] = layout.Greeting{Text: ptr}
	}

	var arrayPtr uint32
	if count > 0 {
		size, err := layout.GreetingArraySize(count)
		if err != nil {
			return 0, err
		}
		arrayPtr, err = m.alloc(list, size, layout.GreetingLayout.Align)
		if err != nil {
			return 0, err
		}
		if err := layout.WriteGreetingArray(m.mem, arrayPtr, greetings); err != nil {
			return 0, err
		}
	}

	setPtr, err := m.alloc(list, layout.GreetingSetLayout.Size, layout.GreetingSetLayout.Align)
	if err != nil {
		return 0, err
	}
	if err := layout.WriteGreetingSet(m.mem, setPtr, layout.GreetingSet{Greetings: arrayPtr, Count: count}); err != nil {
		return 0, err
	}
	return setPtr, nil
}
