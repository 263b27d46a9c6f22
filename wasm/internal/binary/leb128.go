package binary

// AppendU32 appends v as unsigned LEB128.
func AppendU32(buf []byte, v uint32) []byte {
	return AppendU64(buf, uint64(v))
}

// AppendU64 appends v as unsigned LEB128.
func AppendU64(buf []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		buf = append(buf, b)
		if v == 0 {
			return buf
		}
	}
}
