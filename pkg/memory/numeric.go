package memory

import (
	"fmt"
	"math"

	"github.com/joshuapare/ctrkit/internal/buf"
)

// take consumes SizeOf(dt) bytes for a read. A nil slice with a nil error
// means a lenient out-of-bounds read.
func (m *Memory) take(dt DataType, c *call) ([]byte, error) {
	m.lastRead = -1
	if err := m.touch(); err != nil {
		return nil, err
	}
	n := SizeOf(dt)
	b, ok := buf.Slice(m.buf[:m.size], m.offset, n)
	if !ok {
		if m.lenient(c) {
			m.lastRead = 0
			return nil, nil
		}
		return nil, m.oob(ActionRead, dt, m.offset)
	}
	m.offset += n
	m.lastRead = n
	return b, nil
}

func (m *Memory) readBits(dt DataType, opts []CallOption) (uint64, error) {
	c := newCall(opts)
	b, err := m.take(dt, &c)
	if err != nil || b == nil {
		return 0, err
	}
	return buf.Uint(b, m.order(&c).big()), nil
}

func (m *Memory) readSigned(dt DataType, opts []CallOption) (int64, error) {
	c := newCall(opts)
	b, err := m.take(dt, &c)
	if err != nil || b == nil {
		return 0, err
	}
	return buf.Int(b, m.order(&c).big()), nil
}

// writeBits stores the low bits of v without range checks.
func (m *Memory) writeBits(dt DataType, v uint64, c *call) error {
	m.lastWritten = -1
	if err := m.touch(); err != nil {
		return err
	}
	n := SizeOf(dt)
	ok, err := m.reserve(n, c)
	if err != nil {
		return err
	}
	if !ok {
		if m.lenient(c) {
			m.lastWritten = 0
			return nil
		}
		return m.oob(ActionWrite, dt, m.offset)
	}
	buf.PutUint(m.buf[m.offset:m.offset+n], v, m.order(c).big())
	m.commit(n)
	return nil
}

// magnitude splits a signed value into sign and absolute value.
func magnitude(v int64) (bool, uint64) {
	if v < 0 {
		return true, uint64(-(v + 1)) + 1
	}
	return false, uint64(v)
}

func fits(dt DataType, neg bool, mag uint64) bool {
	bits := uint(dt.Bits())
	if dt.Signed() {
		limit := uint64(1) << (bits - 1)
		if neg {
			return mag <= limit
		}
		return mag < limit
	}
	if neg {
		return false
	}
	return bits == 64 || mag < uint64(1)<<bits
}

func value(neg bool, mag uint64) any {
	switch {
	case neg:
		return -int64(mag-1) - 1
	case mag <= math.MaxInt64:
		return int64(mag)
	default:
		return mag
	}
}

func (m *Memory) writeInteger(dt DataType, neg bool, mag uint64, opts []CallOption) error {
	if !fits(dt, neg, mag) {
		m.lastWritten = -1
		if m.used {
			return errDeallocated()
		}
		return m.rangeErr(dt, value(neg, mag))
	}
	bits := mag
	if neg {
		bits = uint64(-int64(mag-1) - 1)
	}
	c := newCall(opts)
	return m.writeBits(dt, bits, &c)
}

func (m *Memory) writeSigned(dt DataType, v int64, opts []CallOption) error {
	neg, mag := magnitude(v)
	return m.writeInteger(dt, neg, mag, opts)
}

func (m *Memory) writeUnsigned(dt DataType, v uint64, opts []CallOption) error {
	return m.writeInteger(dt, false, v, opts)
}

// -----------------------------------------------------------------------------
// Typed reads
// -----------------------------------------------------------------------------

// ReadI8 reads a signed byte at the cursor and advances past it.
func (m *Memory) ReadI8(opts ...CallOption) (int8, error) {
	v, err := m.readSigned(I8, opts)
	return int8(v), err
}

// ReadU8 reads an unsigned byte at the cursor and advances past it.
func (m *Memory) ReadU8(opts ...CallOption) (uint8, error) {
	v, err := m.readBits(U8, opts)
	return uint8(v), err
}

// ReadI16 reads a signed 16-bit integer at the cursor and advances past it.
func (m *Memory) ReadI16(opts ...CallOption) (int16, error) {
	v, err := m.readSigned(I16, opts)
	return int16(v), err
}

// ReadU16 reads an unsigned 16-bit integer at the cursor and advances past it.
func (m *Memory) ReadU16(opts ...CallOption) (uint16, error) {
	v, err := m.readBits(U16, opts)
	return uint16(v), err
}

// ReadI24 reads a sign-extended 24-bit integer at the cursor and advances past it.
func (m *Memory) ReadI24(opts ...CallOption) (int32, error) {
	v, err := m.readSigned(I24, opts)
	return int32(v), err
}

// ReadU24 reads an unsigned 24-bit integer at the cursor and advances past it.
func (m *Memory) ReadU24(opts ...CallOption) (uint32, error) {
	v, err := m.readBits(U24, opts)
	return uint32(v), err
}

// ReadF32 reads an IEEE-754 single at the cursor and advances past it.
func (m *Memory) ReadF32(opts ...CallOption) (float32, error) {
	v, err := m.readBits(F32, opts)
	return math.Float32frombits(uint32(v)), err
}

// ReadI32 reads a signed 32-bit integer at the cursor and advances past it.
func (m *Memory) ReadI32(opts ...CallOption) (int32, error) {
	v, err := m.readSigned(I32, opts)
	return int32(v), err
}

// ReadU32 reads an unsigned 32-bit integer at the cursor and advances past it.
func (m *Memory) ReadU32(opts ...CallOption) (uint32, error) {
	v, err := m.readBits(U32, opts)
	return uint32(v), err
}

// ReadI40 reads a sign-extended 40-bit integer at the cursor and advances past it.
func (m *Memory) ReadI40(opts ...CallOption) (int64, error) { return m.readSigned(I40, opts) }

// ReadU40 reads an unsigned 40-bit integer at the cursor and advances past it.
func (m *Memory) ReadU40(opts ...CallOption) (uint64, error) { return m.readBits(U40, opts) }

// ReadI48 reads a sign-extended 48-bit integer at the cursor and advances past it.
func (m *Memory) ReadI48(opts ...CallOption) (int64, error) { return m.readSigned(I48, opts) }

// ReadU48 reads an unsigned 48-bit integer at the cursor and advances past it.
func (m *Memory) ReadU48(opts ...CallOption) (uint64, error) { return m.readBits(U48, opts) }

// ReadF64 reads an IEEE-754 double at the cursor and advances past it.
func (m *Memory) ReadF64(opts ...CallOption) (float64, error) {
	v, err := m.readBits(F64, opts)
	return math.Float64frombits(v), err
}

// ReadI64 reads a signed 64-bit integer at the cursor and advances past it.
func (m *Memory) ReadI64(opts ...CallOption) (int64, error) { return m.readSigned(I64, opts) }

// ReadU64 reads an unsigned 64-bit integer at the cursor and advances past it.
func (m *Memory) ReadU64(opts ...CallOption) (uint64, error) { return m.readBits(U64, opts) }

// -----------------------------------------------------------------------------
// Typed writes
// -----------------------------------------------------------------------------

// WriteI8 writes a signed byte at the cursor and advances past it.
func (m *Memory) WriteI8(v int8, opts ...CallOption) error { return m.writeSigned(I8, int64(v), opts) }

// WriteU8 writes an unsigned byte at the cursor and advances past it.
func (m *Memory) WriteU8(v uint8, opts ...CallOption) error {
	return m.writeUnsigned(U8, uint64(v), opts)
}

// WriteI16 writes a signed 16-bit integer at the cursor and advances past it.
func (m *Memory) WriteI16(v int16, opts ...CallOption) error {
	return m.writeSigned(I16, int64(v), opts)
}

// WriteU16 writes an unsigned 16-bit integer at the cursor and advances past it.
func (m *Memory) WriteU16(v uint16, opts ...CallOption) error {
	return m.writeUnsigned(U16, uint64(v), opts)
}

// WriteI24 fails with ErrOutOfRange outside [-8388608, 8388607].
func (m *Memory) WriteI24(v int32, opts ...CallOption) error {
	return m.writeSigned(I24, int64(v), opts)
}

// WriteU24 fails with ErrOutOfRange above 16777215.
func (m *Memory) WriteU24(v uint32, opts ...CallOption) error {
	return m.writeUnsigned(U24, uint64(v), opts)
}

// WriteF32 writes an IEEE-754 single at the cursor and advances past it.
func (m *Memory) WriteF32(v float32, opts ...CallOption) error {
	c := newCall(opts)
	return m.writeBits(F32, uint64(math.Float32bits(v)), &c)
}

// WriteI32 writes a signed 32-bit integer at the cursor and advances past it.
func (m *Memory) WriteI32(v int32, opts ...CallOption) error {
	return m.writeSigned(I32, int64(v), opts)
}

// WriteU32 writes an unsigned 32-bit integer at the cursor and advances past it.
func (m *Memory) WriteU32(v uint32, opts ...CallOption) error {
	return m.writeUnsigned(U32, uint64(v), opts)
}

// WriteI40 fails with ErrOutOfRange outside the 40-bit signed range.
func (m *Memory) WriteI40(v int64, opts ...CallOption) error { return m.writeSigned(I40, v, opts) }

// WriteU40 fails with ErrOutOfRange outside the 40-bit unsigned range.
func (m *Memory) WriteU40(v uint64, opts ...CallOption) error { return m.writeUnsigned(U40, v, opts) }

// WriteI48 fails with ErrOutOfRange outside the 48-bit signed range.
func (m *Memory) WriteI48(v int64, opts ...CallOption) error { return m.writeSigned(I48, v, opts) }

// WriteU48 fails with ErrOutOfRange outside the 48-bit unsigned range.
func (m *Memory) WriteU48(v uint64, opts ...CallOption) error { return m.writeUnsigned(U48, v, opts) }

// WriteF64 writes an IEEE-754 double at the cursor and advances past it.
func (m *Memory) WriteF64(v float64, opts ...CallOption) error {
	c := newCall(opts)
	return m.writeBits(F64, math.Float64bits(v), &c)
}

// WriteI64 writes a signed 64-bit integer at the cursor and advances past it.
func (m *Memory) WriteI64(v int64, opts ...CallOption) error { return m.writeSigned(I64, v, opts) }

// WriteU64 writes an unsigned 64-bit integer at the cursor and advances past it.
func (m *Memory) WriteU64(v uint64, opts ...CallOption) error { return m.writeUnsigned(U64, v, opts) }

// -----------------------------------------------------------------------------
// Dispatch by tag
// -----------------------------------------------------------------------------

// Read reads a value of type dt. Integers come back as int64 (signed types)
// or uint64 (unsigned types), floats as float64.
func (m *Memory) Read(dt DataType, opts ...CallOption) (any, error) {
	if SizeOf(dt) == 0 {
		return nil, m.invalid("unknown datatype %q", string(dt))
	}
	switch {
	case dt == F32:
		v, err := m.ReadF32(opts...)
		return float64(v), err
	case dt == F64:
		return m.ReadF64(opts...)
	case dt.Signed():
		return m.readSigned(dt, opts)
	default:
		return m.readBits(dt, opts)
	}
}

// Write writes v as type dt. v may be any Go integer or float type; values
// that do not fit dt fail with ErrOutOfRange.
func (m *Memory) Write(dt DataType, v any, opts ...CallOption) error {
	if SizeOf(dt) == 0 {
		return m.invalid("unknown datatype %q", string(dt))
	}
	if dt.Float() {
		f, ok := toFloat(v)
		if !ok {
			return m.invalid("cannot write %T as %s", v, dt)
		}
		if dt == F32 {
			if math.Abs(f) > math.MaxFloat32 && !math.IsInf(f, 0) {
				return m.rangeErr(dt, f)
			}
			return m.WriteF32(float32(f), opts...)
		}
		return m.WriteF64(f, opts...)
	}
	neg, mag, ok := toInteger(v)
	if !ok {
		return m.invalid("cannot write %T as %s", v, dt)
	}
	return m.writeInteger(dt, neg, mag, opts)
}

func toInteger(v any) (neg bool, mag uint64, ok bool) {
	switch x := v.(type) {
	case int:
		neg, mag = magnitude(int64(x))
	case int8:
		neg, mag = magnitude(int64(x))
	case int16:
		neg, mag = magnitude(int64(x))
	case int32:
		neg, mag = magnitude(int64(x))
	case int64:
		neg, mag = magnitude(x)
	case uint:
		mag = uint64(x)
	case uint8:
		mag = uint64(x)
	case uint16:
		mag = uint64(x)
	case uint32:
		mag = uint64(x)
	case uint64:
		mag = x
	default:
		return false, 0, false
	}
	return neg, mag, true
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	neg, mag, ok := toInteger(v)
	if !ok {
		return 0, false
	}
	if neg {
		return -float64(mag), true
	}
	return float64(mag), true
}

// String describes the cursor state for diagnostics.
func (m *Memory) String() string {
	return fmt.Sprintf("Memory{size: %d, capacity: %d, offset: %d, endianness: %s}",
		m.Size(), m.Capacity(), m.offset, m.opts.Endianness)
}
