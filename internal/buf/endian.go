// Package buf contains helpers for endian-safe encoding of arbitrary-width
// integers and overflow-safe offset arithmetic.
package buf

// Uint decodes an unsigned integer stored in len(b) bytes (1 to 8).
// Returns 0 when b is empty or wider than 8 bytes.
//
// Example:
//
//	Uint([]byte{0x01, 0x02, 0x03}, false) = 0x030201
//	Uint([]byte{0x01, 0x02, 0x03}, true)  = 0x010203
func Uint(b []byte, bigEndian bool) uint64 {
	if len(b) == 0 || len(b) > 8 {
		return 0
	}
	var v uint64
	if bigEndian {
		for _, c := range b {
			v = v<<8 | uint64(c)
		}
		return v
	}
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// PutUint encodes the low len(b)*8 bits of v into b.
// Bits above the width of b are discarded.
func PutUint(b []byte, v uint64, bigEndian bool) {
	if bigEndian {
		for i := len(b) - 1; i >= 0; i-- {
			b[i] = byte(v)
			v >>= 8
		}
		return
	}
	for i := range b {
		b[i] = byte(v)
		v >>= 8
	}
}

// Int decodes a two's-complement signed integer stored in len(b) bytes.
func Int(b []byte, bigEndian bool) int64 {
	return SignExtend(Uint(b, bigEndian), len(b)*8)
}

// SignExtend interprets the low bits of v as a two's-complement number.
//
// Example:
//
//	SignExtend(0xFFFFFF, 24) = -1
//	SignExtend(0x7FFFFF, 24) = 8388607
func SignExtend(v uint64, bits int) int64 {
	if bits <= 0 || bits >= 64 {
		return int64(v)
	}
	shift := 64 - bits
	return int64(v<<shift) >> shift
}
