package binary

import (
	"bytes"
	"testing"
)

func TestAppendU32(t *testing.T) {
	tests := []struct {
		v    uint32
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{256, []byte{0x80, 0x02}},
		{65536, []byte{0x80, 0x80, 0x04}},
		{0xFFFFFFFF, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
	}
	for _, tt := range tests {
		if got := AppendU32(nil, tt.v); !bytes.Equal(got, tt.want) {
			t.Errorf("AppendU32(%d) = %x, want %x", tt.v, got, tt.want)
		}
	}
}

func TestAppendU64(t *testing.T) {
	got := AppendU64(nil, 1<<35)
	want := []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}
	if !bytes.Equal(got, want) {
		t.Errorf("AppendU64(1<<35) = %x, want %x", got, want)
	}
}

func TestWriter(t *testing.T) {
	w := NewWriter()
	w.WriteU32LE(0x6D736100)
	w.Byte(0x07)
	w.WriteU32(300)
	w.WriteName("memory")
	w.WriteBytes([]byte{0x02, 0x00})
	w.WriteU64(1)

	want := []byte{
		0x00, 0x61, 0x73, 0x6d,
		0x07,
		0xac, 0x02,
		0x06, 'm', 'e', 'm', 'o', 'r', 'y',
		0x02, 0x00,
		0x01,
	}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("Bytes() = %x, want %x", w.Bytes(), want)
	}
	if w.Len() != len(want) {
		t.Errorf("Len() = %d, want %d", w.Len(), len(want))
	}
}
