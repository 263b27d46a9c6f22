package codec

import (
	"strings"
	"testing"

	greetbridge "github.com/wippyai/greetbridge"
	"github.com/wippyai/greetbridge/errors"
	"github.com/wippyai/greetbridge/memory"
)

func newTestCodec(t *testing.T) (*Codec, *memory.Arena, greetbridge.Memory) {
	t.Helper()
	mem := memory.NewLinear(1, 4)
	arena := memory.NewArena(mem)
	return New(mem, arena), arena, mem
}

func TestRoundTrip(t *testing.T) {
	c, arena, _ := newTestCodec(t)

	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"ascii", "Hello, World!"},
		{"unicode", "héllo wörld ✓ 日本語"},
		{"emoji", "👋🌍"},
		{"long", strings.Repeat("abcdefgh", 200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ptr, err := c.Encode(tt.text)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			got, err := c.Decode(ptr)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if got != tt.text {
				t.Errorf("round trip = %q, want %q", got, tt.text)
			}
			if err := c.Free(ptr); err != nil {
				t.Fatalf("Free failed: %v", err)
			}
		})
	}

	if count, _ := arena.Live(); count != 0 {
		t.Errorf("leaked %d allocations", count)
	}
}

func TestEncode_Terminated(t *testing.T) {
	c, _, mem := newTestCodec(t)
	ptr, err := c.Encode("abc")
	if err != nil {
		t.Fatal(err)
	}
	data, err := mem.Read(ptr, 4)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "abc\x00" {
		t.Errorf("memory = %q, want %q", data, "abc\x00")
	}
}

func TestDecode_NullPointer(t *testing.T) {
	c, _, _ := newTestCodec(t)
	_, err := c.Decode(0)
	if !errors.IsKind(err, errors.KindNullPointer) {
		t.Fatalf("expected null_pointer, got %v", err)
	}
}

func TestDecode_InvalidEncoding(t *testing.T) {
	c, _, mem := newTestCodec(t)
	if err := mem.Write(100, []byte{'o', 'k', 0xff, 0xfe, 0}); err != nil {
		t.Fatal(err)
	}
	_, err := c.DecodeAt(100, "name")
	if !errors.IsKind(err, errors.KindInvalidEncoding) {
		t.Fatalf("expected invalid_encoding, got %v", err)
	}
	if !strings.Contains(err.Error(), "at name") {
		t.Errorf("error should carry path: %v", err)
	}
}

func TestDecode_Unterminated(t *testing.T) {
	c, _, mem := newTestCodec(t)
	size := mem.(greetbridge.MemorySizer).Size()
	if err := mem.Write(size-3, []byte{'a', 'b', 'c'}); err != nil {
		t.Fatal(err)
	}
	_, err := c.Decode(size - 3)
	if !errors.IsKind(err, errors.KindOutOfBounds) {
		t.Fatalf("expected out_of_bounds, got %v", err)
	}
}

func TestDecode_PastEnd(t *testing.T) {
	c, _, mem := newTestCodec(t)
	size := mem.(greetbridge.MemorySizer).Size()
	_, err := c.Decode(size)
	if !errors.IsKind(err, errors.KindOutOfBounds) {
		t.Fatalf("expected out_of_bounds, got %v", err)
	}
}

func TestDecode_SpansChunks(t *testing.T) {
	c, _, mem := newTestCodec(t)
	text := strings.Repeat("x", scanChunk*3+17)
	if err := mem.Write(1000, append([]byte(text), 0)); err != nil {
		t.Fatal(err)
	}
	got, err := c.Decode(1000)
	if err != nil {
		t.Fatal(err)
	}
	if got != text {
		t.Errorf("len = %d, want %d", len(got), len(text))
	}
}

// byteMemory hides MemorySizer to exercise the bytewise scan path.
type byteMemory struct {
	greetbridge.Memory
}

func TestDecode_WithoutSizer(t *testing.T) {
	mem := memory.NewLinear(1, 1)
	_ = mem.Write(10, []byte("hi\x00"))
	c := New(byteMemory{mem}, nil)

	got, err := c.Decode(10)
	if err != nil {
		t.Fatal(err)
	}
	if got != "hi" {
		t.Errorf("Decode = %q, want %q", got, "hi")
	}

	_ = mem.Write(memory.PageSize-1, []byte{'z'})
	if _, err := c.Decode(memory.PageSize - 1); !errors.IsKind(err, errors.KindOutOfBounds) {
		t.Errorf("expected out_of_bounds, got %v", err)
	}
}

func TestEncode_Rejects(t *testing.T) {
	c, arena, _ := newTestCodec(t)

	tests := []struct {
		name string
		text string
		kind errors.Kind
	}{
		{"interior nul", "a\x00b", errors.KindInvalidInput},
		{"invalid utf8", "a\xffb", errors.KindInvalidEncoding},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Encode(tt.text)
			if !errors.IsKind(err, tt.kind) {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
		})
	}
	if count, _ := arena.Live(); count != 0 {
		t.Errorf("rejected encodes leaked %d allocations", count)
	}
}

func TestEncode_NoAllocator(t *testing.T) {
	c := New(memory.NewLinear(1, 1), nil)
	if _, err := c.Encode("x"); !errors.IsKind(err, errors.KindNotInitialized) {
		t.Fatalf("expected not_initialized, got %v", err)
	}
}

func TestLength(t *testing.T) {
	c, _, _ := newTestCodec(t)
	ptr, _ := c.Encode("héllo")
	n, err := c.Length(ptr)
	if err != nil {
		t.Fatal(err)
	}
	if n != 6 {
		t.Errorf("Length = %d, want 6", n)
	}
}

func TestFree_Null(t *testing.T) {
	c, _, _ := newTestCodec(t)
	if err := c.Free(0); err != nil {
		t.Errorf("Free(0) = %v, want nil", err)
	}
}
