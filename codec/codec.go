package codec

import (
	"bytes"
	"strings"
	"unicode/utf8"

	greetbridge "github.com/wippyai/greetbridge"
	"github.com/wippyai/greetbridge/errors"
)

// MaxStringSize bounds a single byte string, terminator excluded.
const MaxStringSize = 1 << 30

// TypeName is the boundary name of a byte string in error messages.
const TypeName = "byte-string"

const scanChunk = 256

// Codec reads and writes byte strings in one linear memory.
// It holds no per-call state and is safe for concurrent use when the
// underlying Memory and Allocator are.
type Codec struct {
	mem   greetbridge.Memory
	alloc greetbridge.Allocator
}

// New creates a codec. alloc may be nil for a decode-only codec.
func New(mem greetbridge.Memory, alloc greetbridge.Allocator) *Codec {
	return &Codec{mem: mem, alloc: alloc}
}

// Memory returns the codec's memory.
func (c *Codec) Memory() greetbridge.Memory {
	return c.mem
}

// Decode reads the byte string at ptr. ptr is borrowed.
func (c *Codec) Decode(ptr uint32) (string, error) {
	return c.DecodeAt(ptr)
}

// DecodeAt is Decode with a field path for error context.
func (c *Codec) DecodeAt(ptr uint32, path ...string) (string, error) {
	if ptr == greetbridge.NullPtr {
		return "", errors.NullPointer(errors.PhaseDecode, path, TypeName)
	}
	data, err := c.scan(ptr, path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", errors.InvalidEncoding(errors.PhaseDecode, path, data)
	}
	return string(data), nil
}

// Length returns the byte length of the string at ptr, terminator excluded.
func (c *Codec) Length(ptr uint32) (uint32, error) {
	if ptr == greetbridge.NullPtr {
		return 0, errors.NullPointer(errors.PhaseDecode, nil, TypeName)
	}
	data, err := c.scan(ptr, nil)
	if err != nil {
		return 0, err
	}
	return uint32(len(data)), nil
}

// scan returns the bytes from ptr up to, not including, the terminator.
func (c *Codec) scan(ptr uint32, path []string) ([]byte, error) {
	sizer, ok := c.mem.(greetbridge.MemorySizer)
	if !ok {
		return c.scanBytewise(ptr, path)
	}

	size := sizer.Size()
	if ptr >= size {
		return nil, errors.OutOfBounds(errors.PhaseDecode, path, ptr, size)
	}

	var out []byte
	off := ptr
	for off < size {
		n := size - off
		if n > scanChunk {
			n = scanChunk
		}
		chunk, err := c.mem.Read(off, n)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseDecode, errors.KindOutOfBounds, err, "read byte string")
		}
		if i := bytes.IndexByte(chunk, 0); i >= 0 {
			return append(out, chunk[:i]...), nil
		}
		out = append(out, chunk...)
		if len(out) > MaxStringSize {
			return nil, errors.Overflow(errors.PhaseDecode, path, len(out), "max string size")
		}
		off += n
	}
	return nil, errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
		Path(path...).
		Type(TypeName).
		Detail("no terminator before end of memory (start 0x%x, size %d)", ptr, size).
		Value(ptr).
		Build()
}

func (c *Codec) scanBytewise(ptr uint32, path []string) ([]byte, error) {
	var out []byte
	for off := ptr; ; off++ {
		b, err := c.mem.ReadU8(off)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseDecode, errors.KindOutOfBounds, err, "read byte string")
		}
		if b == 0 {
			return out, nil
		}
		out = append(out, b)
		if len(out) > MaxStringSize {
			return nil, errors.Overflow(errors.PhaseDecode, path, len(out), "max string size")
		}
		if off == ^uint32(0) {
			return nil, errors.OutOfBounds(errors.PhaseDecode, path, off, off)
		}
	}
}

// Validate reports whether text can be encoded as a byte string.
func Validate(text string) error {
	if len(text) > MaxStringSize {
		return errors.Overflow(errors.PhaseEncode, nil, len(text), "max string size")
	}
	if i := strings.IndexByte(text, 0); i >= 0 {
		return errors.New(errors.PhaseEncode, errors.KindInvalidInput).
			Type(TypeName).
			Detail("interior zero byte at offset %d", i).
			Value(i).
			Build()
	}
	if !utf8.ValidString(text) {
		return errors.InvalidEncoding(errors.PhaseEncode, nil, []byte(text))
	}
	return nil
}

// Encode allocates a new byte string holding text. The caller owns the result.
func (c *Codec) Encode(text string) (uint32, error) {
	return c.EncodeInto(text, nil)
}

// EncodeInto is Encode that also records the allocation in list when non-nil.
func (c *Codec) EncodeInto(text string, list *AllocationList) (uint32, error) {
	if c.alloc == nil {
		return 0, errors.NotInitialized(errors.PhaseEncode, "allocator")
	}
	if err := Validate(text); err != nil {
		return 0, err
	}

	size := uint32(len(text)) + 1
	ptr, err := c.alloc.Alloc(size, 1)
	if err != nil {
		return 0, errors.Wrap(errors.PhaseEncode, errors.KindAllocation, err, "allocate byte string")
	}

	buf := make([]byte, size)
	copy(buf, text)
	if err := c.mem.Write(ptr, buf); err != nil {
		c.alloc.Free(ptr, size, 1)
		return 0, errors.Wrap(errors.PhaseEncode, errors.KindOutOfBounds, err, "write byte string")
	}

	if list != nil {
		list.Add(ptr, size, 1)
	}
	return ptr, nil
}

// Free releases a byte string produced by Encode. Freeing null is a no-op.
func (c *Codec) Free(ptr uint32) error {
	if ptr == greetbridge.NullPtr {
		return nil
	}
	if c.alloc == nil {
		return errors.NotInitialized(errors.PhaseRelease, "allocator")
	}
	n, err := c.Length(ptr)
	if err != nil {
		return err
	}
	c.alloc.Free(ptr, n+1, 1)
	return nil
}
