package memory

import (
	"bytes"
	"math"
	"slices"

	"github.com/joshuapare/ctrkit/internal/buf"
)

// MaxLength is the largest capacity a Memory may reach.
const MaxLength = math.MaxInt32

// Memory is a bounded byte cursor. See the package documentation.
type Memory struct {
	buf         []byte // len(buf) is the capacity
	size        int
	offset      int
	lastRead    int
	lastWritten int
	allocated   bool
	used        bool
	lazySize    int
	lazyFill    []byte
	opts        Options
}

func build(size int, opts []Option) (*Memory, *settings, error) {
	s := &settings{opts: DefaultOptions(), size: size}
	for _, o := range opts {
		o(s)
	}
	if s.size < 0 || s.size > MaxLength {
		r := Range{Min: int64(0), Max: int64(MaxLength)}
		return nil, nil, &Error{Code: CodeOutOfRange, Msg: "initial size out of range", Range: &r, Value: s.size}
	}
	if !validGrowth(s.opts.Growth) {
		r := Range{Min: float64(1), Max: math.Inf(1)}
		return nil, nil, &Error{Code: CodeOutOfRange, Msg: "growth must be 0 or at least 1", Range: &r, Value: s.opts.Growth}
	}
	if s.opts.Encoding == "" {
		s.opts.Encoding = UTF8
	}
	enc, err := ParseEncoding(string(s.opts.Encoding))
	if err != nil {
		return nil, nil, err
	}
	s.opts.Encoding = enc
	if s.fill != nil && len(s.fill) == 0 {
		return nil, nil, &Error{Code: CodeInvalidArgument, Msg: "fill pattern is empty"}
	}
	m := &Memory{
		opts:        s.opts,
		lazySize:    s.size,
		lazyFill:    s.fill,
		lastRead:    -1,
		lastWritten: -1,
	}
	return m, s, nil
}

func (m *Memory) position(s *settings) error {
	if !s.hasOffset {
		return nil
	}
	return m.Seek(s.offset)
}

// New returns an empty cursor. Nothing is allocated until first use.
func New(opts ...Option) (*Memory, error) {
	return NewSize(0, opts...)
}

// NewSize returns a cursor of n populated zero bytes (or the WithFill
// pattern). Allocation is deferred until first use.
func NewSize(n int, opts ...Option) (*Memory, error) {
	m, s, err := build(n, opts)
	if err != nil {
		return nil, err
	}
	if err := m.position(s); err != nil {
		return nil, err
	}
	return m, nil
}

// FromBytes returns a cursor holding a copy of b.
func FromBytes(b []byte, opts ...Option) (*Memory, error) {
	m, s, err := build(len(b), opts)
	if err != nil {
		return nil, err
	}
	m.lazyFill = nil
	if err := m.touch(); err != nil {
		return nil, err
	}
	copy(m.buf, b)
	if err := m.position(s); err != nil {
		return nil, err
	}
	return m, nil
}

// FromMemory returns a cursor holding a copy of src's populated bytes.
// Options default to src's configuration.
func FromMemory(src *Memory, opts ...Option) (*Memory, error) {
	if src.used {
		return nil, errDeallocated()
	}
	if err := src.touch(); err != nil {
		return nil, err
	}
	return FromBytes(src.buf[:src.size], append([]Option{WithOptions(src.opts)}, opts...)...)
}

// FromString returns a cursor holding s encoded with the configured
// encoding, followed by the configured terminator if any.
func FromString(s string, opts ...Option) (*Memory, error) {
	m, st, err := build(0, opts)
	if err != nil {
		return nil, err
	}
	if err := m.WriteString(s); err != nil {
		return nil, err
	}
	m.offset = 0
	if err := m.position(st); err != nil {
		return nil, err
	}
	return m, nil
}

// touch performs the deferred allocation and rejects use after Steal.
func (m *Memory) touch() error {
	if m.used {
		return errDeallocated()
	}
	if m.allocated {
		return nil
	}
	m.buf = make([]byte, m.lazySize)
	if len(m.lazyFill) > 0 {
		fillPattern(m.buf, m.lazyFill)
	}
	m.size = m.lazySize
	m.lazyFill = nil
	m.allocated = true
	return nil
}

func fillPattern(dst, pattern []byte) {
	if len(pattern) == 1 {
		for i := range dst {
			dst[i] = pattern[0]
		}
		return
	}
	for i := 0; i < len(dst); i += len(pattern) {
		copy(dst[i:], pattern)
	}
}

// resize sets the capacity, keeping the populated prefix that still fits.
func (m *Memory) resize(n int) error {
	if n < 0 || n > MaxLength {
		r := Range{Min: int64(0), Max: int64(MaxLength)}
		return &Error{Code: CodeOutOfRange, Msg: "capacity out of range", Range: &r, Value: n, Size: m.size}
	}
	if n == len(m.buf) {
		return nil
	}
	next := make([]byte, n)
	copy(next, m.buf)
	m.buf = next
	if m.size > n {
		m.size = n
	}
	if m.offset > m.size {
		m.offset = m.size
	}
	return nil
}

// reserve makes room for n bytes at the offset. ok is false when the bytes
// do not fit and growth is disabled for this call.
func (m *Memory) reserve(n int, c *call) (bool, error) {
	need, ok := buf.AddOverflowSafe(m.offset, n)
	if !ok || need > MaxLength {
		return false, &Error{Code: CodeOutOfMemory, Msg: "requested capacity exceeds MaxLength", Value: need, Offset: m.offset, Size: m.size}
	}
	if need <= len(m.buf) {
		return true, nil
	}
	factor := m.opts.Growth
	if c != nil && c.grow != nil {
		switch {
		case !*c.grow:
			factor = 0
		case factor == 0:
			factor = 1
		}
	}
	if factor == 0 {
		return false, nil
	}
	return true, m.resize(min(buf.GrowTarget(len(m.buf), need, factor), MaxLength))
}

// commit records n bytes written at the offset.
func (m *Memory) commit(n int) {
	end := m.offset + n
	if end > m.size {
		m.size = end
	}
	m.offset = end
	m.lastWritten = n
}

func (m *Memory) order(c *call) Endianness {
	if c != nil && c.order != nil {
		return *c.order
	}
	return m.opts.Endianness
}

func (m *Memory) encoding(c *call) Encoding {
	if c != nil && c.encoding != "" {
		return c.encoding
	}
	return m.opts.Encoding
}

func (m *Memory) lenient(c *call) bool {
	return m.opts.Lenient || (c != nil && c.lenient)
}

// -----------------------------------------------------------------------------
// Accessors
// -----------------------------------------------------------------------------

// Size returns the number of populated bytes.
func (m *Memory) Size() int {
	if !m.allocated && !m.used {
		return m.lazySize
	}
	return m.size
}

// Capacity returns the allocated buffer length.
func (m *Memory) Capacity() int {
	if !m.allocated && !m.used {
		return m.lazySize
	}
	return len(m.buf)
}

// Offset returns the cursor position.
func (m *Memory) Offset() int { return m.offset }

// Ended reports whether the cursor sits at the end of the populated bytes.
func (m *Memory) Ended() bool { return m.offset >= m.Size() }

// Remaining returns the populated bytes after the cursor.
func (m *Memory) Remaining() int { return m.Size() - m.offset }

// Allocated reports whether the deferred allocation has happened.
func (m *Memory) Allocated() bool { return m.allocated }

// Used reports whether the cursor was stolen or deallocated.
func (m *Memory) Used() bool { return m.used }

// LastRead returns the bytes consumed by the previous read, 0 after a
// lenient out-of-bounds read, or -1 when the previous read failed.
func (m *Memory) LastRead() int { return m.lastRead }

// LastWritten returns the bytes produced by the previous write, 0 after a
// lenient overflow, or -1 when the previous write failed.
func (m *Memory) LastWritten() int { return m.lastWritten }

// Options returns a copy of the configuration.
func (m *Memory) Options() Options { return m.opts }

// Endianness returns the default byte order.
func (m *Memory) Endianness() Endianness { return m.opts.Endianness }

// SetEndianness changes the default byte order.
func (m *Memory) SetEndianness(e Endianness) { m.opts.Endianness = e }

// Encoding returns the default string encoding.
func (m *Memory) Encoding() Encoding { return m.opts.Encoding }

// SetEncoding changes the default string encoding.
func (m *Memory) SetEncoding(enc Encoding) error {
	parsed, err := ParseEncoding(string(enc))
	if err != nil {
		return err
	}
	m.opts.Encoding = parsed
	return nil
}

// Terminator returns the default string terminator.
func (m *Memory) Terminator() Terminator { return m.opts.Terminator }

// SetTerminator changes the default string terminator.
func (m *Memory) SetTerminator(t Terminator) { m.opts.Terminator = t }

// Lenient reports whether out-of-bounds access is tolerated by default.
func (m *Memory) Lenient() bool { return m.opts.Lenient }

// SetLenient toggles lenient out-of-bounds handling.
func (m *Memory) SetLenient(v bool) { m.opts.Lenient = v }

// Growth returns the growth factor. 0 means the buffer is fixed.
func (m *Memory) Growth() float64 { return m.opts.Growth }

// SetGrowth changes the growth factor. 0 disables growth.
func (m *Memory) SetGrowth(f float64) error {
	if !validGrowth(f) {
		r := Range{Min: float64(1), Max: math.Inf(1)}
		return &Error{Code: CodeOutOfRange, Msg: "growth must be 0 or at least 1", Range: &r, Value: f}
	}
	m.opts.Growth = f
	return nil
}

// -----------------------------------------------------------------------------
// Positioning
// -----------------------------------------------------------------------------

// Seek moves the cursor. A negative offset counts back from Size.
func (m *Memory) Seek(off int) error {
	if err := m.touch(); err != nil {
		return err
	}
	target := off
	if off < 0 {
		target = m.size + off
	}
	if target < 0 || target > m.size {
		return m.oob(ActionSeek, "", off)
	}
	m.offset = target
	return nil
}

// Skip moves the cursor n bytes relative to its position.
func (m *Memory) Skip(n int) error {
	if err := m.touch(); err != nil {
		return err
	}
	target, ok := buf.AddOverflowSafe(m.offset, n)
	if !ok || target < 0 {
		return m.oob(ActionSeek, "", m.offset+n)
	}
	return m.Seek(target)
}

// At seeks to off, runs fn and restores the previous offset, even when fn
// fails or panics.
func (m *Memory) At(off int, fn func(*Memory) error) error {
	prev := m.offset
	if err := m.Seek(off); err != nil {
		return err
	}
	defer func() {
		if !m.used {
			m.offset = min(prev, m.size)
		}
	}()
	return fn(m)
}

// AtU8 reads a u8 at off without moving the cursor.
func (m *Memory) AtU8(off int, opts ...CallOption) (v uint8, err error) {
	err = m.At(off, func(m *Memory) error {
		var rerr error
		v, rerr = m.ReadU8(opts...)
		return rerr
	})
	return v, err
}

// AtU16 reads a u16 at off without moving the cursor.
func (m *Memory) AtU16(off int, opts ...CallOption) (v uint16, err error) {
	err = m.At(off, func(m *Memory) error {
		var rerr error
		v, rerr = m.ReadU16(opts...)
		return rerr
	})
	return v, err
}

// AtU24 reads a u24 at off without moving the cursor.
func (m *Memory) AtU24(off int, opts ...CallOption) (v uint32, err error) {
	err = m.At(off, func(m *Memory) error {
		var rerr error
		v, rerr = m.ReadU24(opts...)
		return rerr
	})
	return v, err
}

// AtU32 reads a u32 at off without moving the cursor.
func (m *Memory) AtU32(off int, opts ...CallOption) (v uint32, err error) {
	err = m.At(off, func(m *Memory) error {
		var rerr error
		v, rerr = m.ReadU32(opts...)
		return rerr
	})
	return v, err
}

// UsingEndianness runs fn with the default byte order set to e and restores
// the previous order afterwards.
func (m *Memory) UsingEndianness(e Endianness, fn func(*Memory) error) error {
	prev := m.opts.Endianness
	m.opts.Endianness = e
	defer func() { m.opts.Endianness = prev }()
	return fn(m)
}

// ByteAt returns the populated byte at index i without moving the cursor.
func (m *Memory) ByteAt(i int) (byte, error) {
	if err := m.touch(); err != nil {
		return 0, err
	}
	if !buf.Has(m.buf[:m.size], i, 1) {
		return 0, m.oob(ActionRead, U8, i)
	}
	return m.buf[i], nil
}

// SetByteAt overwrites the populated byte at index i without moving the cursor.
func (m *Memory) SetByteAt(i int, b byte) error {
	if err := m.touch(); err != nil {
		return err
	}
	if !buf.Has(m.buf[:m.size], i, 1) {
		return m.oob(ActionWrite, U8, i)
	}
	m.buf[i] = b
	return nil
}

// -----------------------------------------------------------------------------
// Allocation lifecycle
// -----------------------------------------------------------------------------

// Allocate performs the deferred allocation now.
func (m *Memory) Allocate() error { return m.touch() }

// Reallocate sets both capacity and size to n. Bytes past the old size are zero.
func (m *Memory) Reallocate(n int) error {
	if err := m.touch(); err != nil {
		return err
	}
	if err := m.resize(n); err != nil {
		return err
	}
	clear(m.buf[m.size:])
	m.size = n
	return nil
}

// Trim drops capacity beyond the populated size.
func (m *Memory) Trim() error {
	if err := m.touch(); err != nil {
		return err
	}
	return m.resize(m.size)
}

// Steal trims the buffer, hands it to the caller and deallocates the
// cursor. Every later call fails with ErrDeallocated. A cursor obtained from
// Subarray hands out bytes shared with its parent.
func (m *Memory) Steal() ([]byte, error) {
	if err := m.touch(); err != nil {
		return nil, err
	}
	out := m.buf[:m.size:m.size]
	m.Deallocate()
	return out, nil
}

// Deallocate releases the buffer. Every later call fails with ErrDeallocated.
func (m *Memory) Deallocate() {
	m.buf = nil
	m.size = 0
	m.offset = 0
	m.lazyFill = nil
	m.allocated = false
	m.used = true
}

// Bytes returns a view of the populated bytes. The view is invalidated by
// any write that grows the cursor.
func (m *Memory) Bytes() []byte {
	if m.touch() != nil {
		return nil
	}
	return m.buf[:m.size]
}

// Clone returns an independent copy with the same configuration and offset.
func (m *Memory) Clone() (*Memory, error) {
	if err := m.touch(); err != nil {
		return nil, err
	}
	c := *m
	c.buf = slices.Clone(m.buf)
	if c.buf == nil {
		c.buf = []byte{}
	}
	return &c, nil
}

func (m *Memory) span(start, end int) error {
	if err := m.touch(); err != nil {
		return err
	}
	if _, err := buf.CheckRange(m.size, start, end-start); err != nil {
		e := m.oob(ActionRead, Raw, start).(*Error)
		e.Err = err
		return e
	}
	return nil
}

// Slice returns an independent copy of the populated bytes [start:end].
func (m *Memory) Slice(start, end int) (*Memory, error) {
	if err := m.span(start, end); err != nil {
		return nil, err
	}
	return FromBytes(m.buf[start:end], WithOptions(m.opts))
}

// Subarray returns a fixed-capacity view of [start:end]. Writes through the
// view are visible in m, and the view cannot grow past end.
func (m *Memory) Subarray(start, end int) (*Memory, error) {
	if err := m.span(start, end); err != nil {
		return nil, err
	}
	opts := m.opts
	opts.Growth = 0
	return &Memory{
		buf:         m.buf[start:end:end],
		size:        end - start,
		allocated:   true,
		lastRead:    -1,
		lastWritten: -1,
		opts:        opts,
	}, nil
}

// Reverse reverses the populated bytes in place.
func (m *Memory) Reverse() error {
	if err := m.touch(); err != nil {
		return err
	}
	slices.Reverse(m.buf[:m.size])
	return nil
}

// -----------------------------------------------------------------------------
// Comparison
// -----------------------------------------------------------------------------

// Compare orders m's populated bytes against src like bytes.Compare.
// Text sources are encoded with the cursor's encoding and byte order.
func (m *Memory) Compare(src Source) (int, error) {
	if err := m.touch(); err != nil {
		return 0, err
	}
	other, err := src.sourceBytes(m.opts.Encoding, m.opts.Endianness)
	if err != nil {
		return 0, err
	}
	return bytes.Compare(m.buf[:m.size], other), nil
}

// Equal reports whether m's populated bytes equal src. Errors compare unequal.
func (m *Memory) Equal(src Source) bool {
	c, err := m.Compare(src)
	return err == nil && c == 0
}

// EqualString reports whether m's populated bytes equal s encoded with enc.
func (m *Memory) EqualString(s string, enc Encoding) bool {
	b, err := Encode(s, enc, m.opts.Endianness)
	if err != nil {
		return false
	}
	return m.Equal(Bytes(b))
}
