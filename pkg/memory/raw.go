package memory

import "slices"

// Source is anything that can be written as raw bytes: Bytes, Byte, Text or
// another *Memory (its populated bytes).
type Source interface {
	sourceBytes(enc Encoding, order Endianness) ([]byte, error)
}

// Bytes is a raw byte source.
type Bytes []byte

func (b Bytes) sourceBytes(Encoding, Endianness) ([]byte, error) { return b, nil }

// Byte is a single-byte source.
type Byte byte

func (b Byte) sourceBytes(Encoding, Endianness) ([]byte, error) { return []byte{byte(b)}, nil }

// Text is a string source, encoded with the active encoding.
type Text string

func (t Text) sourceBytes(enc Encoding, order Endianness) ([]byte, error) {
	return Encode(string(t), enc, order)
}

func (m *Memory) sourceBytes(Encoding, Endianness) ([]byte, error) {
	if err := m.touch(); err != nil {
		return nil, err
	}
	return m.buf[:m.size], nil
}

// readRaw copies up to min(limit, remaining, count) bytes.
func (m *Memory) readRaw(c *call) ([]byte, error) {
	m.lastRead = -1
	if err := m.touch(); err != nil {
		return nil, err
	}
	if c.count == 0 {
		m.lastRead = 0
		return []byte{}, nil
	}
	if m.offset >= m.size {
		if c.count > 0 {
			return nil, m.countErr(ActionRead, c.count, 0)
		}
		if m.lenient(c) {
			m.lastRead = 0
			return []byte{}, nil
		}
		return nil, m.oob(ActionRead, Raw, m.offset)
	}
	n := m.size - m.offset
	if c.limit >= 0 {
		n = min(n, c.limit)
	}
	if c.count >= 0 {
		n = min(n, c.count)
	}
	out := slices.Clone(m.buf[m.offset : m.offset+n])
	m.offset += n
	m.lastRead = n
	if c.count >= 0 && n != c.count {
		return nil, m.countErr(ActionRead, c.count, n)
	}
	return out, nil
}

// ReadRaw reads a run of bytes into an independent cursor that inherits
// this cursor's configuration. Without Count or Limit it reads to the end.
func (m *Memory) ReadRaw(opts ...CallOption) (*Memory, error) {
	c := newCall(opts)
	b, err := m.readRaw(&c)
	if err != nil {
		return nil, err
	}
	return FromBytes(b, WithOptions(m.opts))
}

// ReadBytes reads exactly n bytes.
func (m *Memory) ReadBytes(n int, opts ...CallOption) ([]byte, error) {
	c := newCall(opts)
	c.count = n
	return m.readRaw(&c)
}

// writePayload writes data at the offset, then pads up to c.count when a
// padding source is given. dt labels out-of-bounds errors.
func (m *Memory) writePayload(data []byte, c *call, dt DataType) error {
	enc, order := m.encoding(c), m.order(c)
	ok, err := m.reserve(len(data), c)
	if err != nil {
		return err
	}
	if !ok {
		switch {
		case c.count >= 0:
			return m.countErr(ActionWrite, c.count, 0)
		case c.full:
			return m.oob(ActionWrite, dt, m.offset)
		}
		data = data[:len(m.buf)-m.offset]
	}
	copy(m.buf[m.offset:], data)
	m.commit(len(data))
	written := len(data)

	if c.count >= 0 && c.padding != nil && written < c.count {
		pattern, err := c.padding.sourceBytes(enc, order)
		if err != nil {
			return err
		}
		if len(pattern) == 0 {
			return m.invalid("padding source is empty")
		}
		n := c.count - written
		ok, err := m.reserve(n, c)
		if err != nil {
			return err
		}
		if !ok {
			m.lastWritten = -1
			return m.countErr(ActionWrite, c.count, written)
		}
		fillPattern(m.buf[m.offset:m.offset+n], pattern)
		m.commit(n)
		written += n
	}

	m.lastWritten = written
	if c.count >= 0 && written != c.count {
		return m.countErr(ActionWrite, c.count, written)
	}
	return nil
}

// WriteRaw writes src at the offset. With Count, the written length must
// match exactly; PadWith fills any shortfall. Without growth, an oversized
// write is truncated unless Count or Full is given.
func (m *Memory) WriteRaw(src Source, opts ...CallOption) error {
	c := newCall(opts)
	m.lastWritten = -1
	if err := m.touch(); err != nil {
		return err
	}
	data, err := src.sourceBytes(m.encoding(&c), m.order(&c))
	if err != nil {
		return err
	}
	if _, self := src.(*Memory); self {
		data = slices.Clone(data)
	}
	if c.limit >= 0 && len(data) > c.limit {
		data = data[:c.limit]
	}
	return m.writePayload(data, &c, Raw)
}

// Pad writes n copies of b.
func (m *Memory) Pad(b byte, n int, opts ...CallOption) error {
	if n < 0 {
		return m.invalid("negative pad count %d", n)
	}
	return m.WriteRaw(Bytes(nil), append(opts, Count(n), PadWith(Byte(b)))...)
}
