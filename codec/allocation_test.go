package codec

import (
	"testing"

	"github.com/wippyai/greetbridge/memory"
)

func TestAllocationList_Rollback(t *testing.T) {
	mem := memory.NewLinear(1, 1)
	arena := memory.NewArena(mem)
	c := New(mem, arena)

	list := NewAllocationList()
	for _, s := range []string{"one", "two", "three"} {
		if _, err := c.EncodeInto(s, list); err != nil {
			t.Fatal(err)
		}
	}
	if list.Count() != 3 {
		t.Fatalf("Count = %d, want 3", list.Count())
	}
	if list.Bytes() != 4+4+6 {
		t.Errorf("Bytes = %d, want 14", list.Bytes())
	}

	list.FreeAndRelease(arena)
	if count, _ := arena.Live(); count != 0 {
		t.Errorf("Live = %d after rollback, want 0", count)
	}
}

func TestAllocationList_NilAllocator(t *testing.T) {
	list := NewAllocationList()
	list.Add(8, 4, 1)
	list.Free(nil)
	if list.Count() != 1 {
		t.Error("Free(nil) should not modify the list")
	}
	list.Release()
}

func TestAllocationList_ResetKeepsCapacity(t *testing.T) {
	list := &AllocationList{}
	for i := 0; i < 10; i++ {
		list.Add(uint32(i+1), 1, 1)
	}
	c := cap(list.allocations)
	list.Reset()
	if list.Count() != 0 {
		t.Errorf("Count = %d after Reset", list.Count())
	}
	if cap(list.allocations) != c {
		t.Error("Reset should keep capacity")
	}
}
