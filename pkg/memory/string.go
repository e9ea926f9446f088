package memory

import (
	"bytes"
	"strings"
)

func (m *Memory) terminator(c *call) Terminator {
	if c.terminator != nil {
		return *c.terminator
	}
	return m.opts.Terminator
}

// scan finds the first occurrence of term in b that starts on a code unit
// boundary, inspecting at most chunk bytes per step (0 means all of b).
func scan(b, term []byte, unit, chunk int) int {
	if len(term) == 0 {
		return -1
	}
	if chunk <= 0 || chunk > len(b) {
		chunk = len(b)
	}
	for from := 0; from < len(b); from += chunk {
		stop := min(from+chunk, len(b))
		hi := min(len(b), stop+len(term)-1)
		for p := from; p < stop; {
			i := bytes.Index(b[p:hi], term)
			if i < 0 {
				break
			}
			p += i
			if p%unit == 0 {
				return p
			}
			p++
		}
	}
	return -1
}

func stripped(s string, c *call) string {
	switch c.strip {
	case stripNone:
		return s
	case stripSuffix:
		if c.suffix == "" {
			return s
		}
		for strings.HasSuffix(s, c.suffix) {
			s = s[:len(s)-len(c.suffix)]
		}
		return s
	default:
		return strings.TrimRight(s, "\x00")
	}
}

// ReadString decodes a string at the offset.
//
// With Count it reads exactly that many bytes. Without Count it scans for
// the terminator (per call or configured) and leaves the cursor just past
// it, or at the end when none is found; reading without either fails with
// ErrInvalidArgument. Trailing NUL characters are stripped unless NoStrip
// or StripSuffix is given.
func (m *Memory) ReadString(opts ...CallOption) (string, error) {
	c := newCall(opts)
	m.lastRead = -1
	if err := m.touch(); err != nil {
		return "", err
	}
	start := m.offset
	if c.count == 0 {
		m.lastRead = 0
		return "", nil
	}
	if m.offset >= m.size {
		if c.count > 0 {
			return "", m.countErr(ActionRead, c.count, 0)
		}
		if m.lenient(&c) {
			m.lastRead = 0
			return "", nil
		}
		return "", m.oob(ActionRead, Str, m.offset)
	}

	enc, order := m.encoding(&c), m.order(&c)
	resolved, err := enc.resolve(order)
	if err != nil {
		return "", err
	}

	var raw []byte
	if c.count < 0 {
		term := m.terminator(&c)
		if !term.Enabled() {
			return "", m.invalid("cannot read string: terminator is disabled and no count was given")
		}
		tb, err := Encode(term.Value(), resolved, order)
		if err != nil {
			return "", err
		}
		end := m.size
		if c.limit >= 0 {
			end = min(end, m.offset+c.limit)
		}
		window := m.buf[m.offset:end]
		if i := scan(window, tb, resolved.unit(), c.chunks); i >= 0 {
			raw = window[:i]
			m.offset += i + len(tb)
		} else {
			raw = window
			m.offset = end
		}
	} else {
		n := c.count
		if c.limit >= 0 {
			n = min(n, c.limit)
		}
		n = min(n, m.size-m.offset)
		raw = m.buf[m.offset : m.offset+n]
		m.offset += n
		if n != c.count {
			return "", m.countErr(ActionRead, c.count, n)
		}
	}

	s, err := Decode(raw, resolved, order)
	if err != nil {
		return "", err
	}
	m.lastRead = m.offset - start
	return stripped(s, &c), nil
}

// WriteString encodes s at the offset, followed by the terminator (per call
// or configured). With Count and PadWith the output is padded to exactly
// Count bytes; Limit caps the string and terminator together.
func (m *Memory) WriteString(s string, opts ...CallOption) error {
	c := newCall(opts)
	m.lastWritten = -1
	if err := m.touch(); err != nil {
		return err
	}
	enc, order := m.encoding(&c), m.order(&c)
	data, err := Encode(s, enc, order)
	if err != nil {
		return err
	}
	var tb []byte
	if term := m.terminator(&c); term.Enabled() {
		if tb, err = Encode(term.Value(), enc, order); err != nil {
			return err
		}
	}
	if c.limit >= 0 {
		keep := max(0, c.limit-len(tb))
		if len(data) > keep {
			data = data[:keep]
		}
	}
	return m.writePayload(append(data, tb...), &c, Str)
}
