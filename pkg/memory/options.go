package memory

import (
	"encoding/binary"
	"math"
	"strings"
)

// Endianness selects the byte order of multi-byte fields.
type Endianness uint8

const (
	// LE is little-endian, the default.
	LE Endianness = iota
	// BE is big-endian.
	BE
)

func (e Endianness) String() string {
	if e == BE {
		return "BE"
	}
	return "LE"
}

// ByteOrder returns the encoding/binary order matching e.
func (e Endianness) ByteOrder() binary.ByteOrder {
	if e == BE {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func (e Endianness) big() bool { return e == BE }

// MarshalText implements encoding.TextMarshaler.
func (e Endianness) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler via ParseEndianness.
func (e *Endianness) UnmarshalText(b []byte) error {
	v, err := ParseEndianness(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// ParseEndianness accepts "le", "little", "be" or "big" (any case).
func ParseEndianness(s string) (Endianness, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "le", "little", "little-endian", "littleendian":
		return LE, nil
	case "be", "big", "big-endian", "bigendian":
		return BE, nil
	}
	return LE, &Error{Code: CodeInvalidArgument, Msg: "unknown endianness " + s, Value: s}
}

// Terminator configures the sequence that ends a string.
// The zero value disables termination.
type Terminator struct {
	enabled bool
	value   string
}

var (
	// Unterminated disables termination.
	Unterminated = Terminator{}
	// NulTerminated terminates strings with a single NUL character,
	// encoded in the string's encoding.
	NulTerminated = Terminator{enabled: true, value: "\x00"}
)

// TerminatedBy terminates strings with s. An empty s disables termination.
func TerminatedBy(s string) Terminator {
	if s == "" {
		return Unterminated
	}
	return Terminator{enabled: true, value: s}
}

// Enabled reports whether strings are terminated.
func (t Terminator) Enabled() bool { return t.enabled }

// Value returns the terminator text.
func (t Terminator) Value() string { return t.value }

// DefaultGrowth is the capacity multiplier applied when a write overflows.
const DefaultGrowth = 1.5

// Options is the per-instance configuration of a Memory.
type Options struct {
	Endianness Endianness
	Encoding   Encoding
	Terminator Terminator
	Lenient    bool
	// Growth multiplies capacity on overflow. 0 disables growth;
	// otherwise it must be at least 1.
	Growth float64
}

// DefaultOptions returns little-endian, UTF-8, unterminated, strict, 1.5x growth.
func DefaultOptions() Options {
	return Options{
		Endianness: LE,
		Encoding:   UTF8,
		Terminator: Unterminated,
		Growth:     DefaultGrowth,
	}
}

func validGrowth(g float64) bool {
	return g == 0 || (g >= 1 && !math.IsInf(g, 0) && !math.IsNaN(g))
}

// Option configures a Memory at construction.
type Option func(*settings)

type settings struct {
	opts      Options
	size      int
	fill      []byte
	offset    int
	hasOffset bool
}

// WithOptions replaces the whole configuration.
func WithOptions(o Options) Option { return func(s *settings) { s.opts = o } }

// WithEndianness sets the default byte order.
func WithEndianness(e Endianness) Option { return func(s *settings) { s.opts.Endianness = e } }

// WithEncoding sets the default string encoding.
func WithEncoding(enc Encoding) Option { return func(s *settings) { s.opts.Encoding = enc } }

// WithTerminator sets the default string terminator.
func WithTerminator(t Terminator) Option { return func(s *settings) { s.opts.Terminator = t } }

// WithLenient makes out-of-bounds reads yield zero values.
func WithLenient() Option { return func(s *settings) { s.opts.Lenient = true } }

// WithGrowth sets the growth factor (0 disables growth).
func WithGrowth(f float64) Option { return func(s *settings) { s.opts.Growth = f } }

// WithoutGrowth fixes the capacity.
func WithoutGrowth() Option { return func(s *settings) { s.opts.Growth = 0 } }

// WithFill fills the initial buffer with a repeating pattern.
func WithFill(pattern []byte) Option {
	return func(s *settings) { s.fill = append([]byte(nil), pattern...) }
}

// WithOffset positions the cursor after construction.
func WithOffset(off int) Option {
	return func(s *settings) {
		s.offset = off
		s.hasOffset = true
	}
}

// CallOption tunes a single read or write. Options that do not apply to an
// operation are ignored.
type CallOption func(*call)

type strip uint8

const (
	stripNUL strip = iota
	stripNone
	stripSuffix
)

type call struct {
	order      *Endianness
	encoding   Encoding
	lenient    bool
	grow       *bool
	count      int
	limit      int
	padding    Source
	full       bool
	terminator *Terminator
	strip      strip
	suffix     string
	chunks     int
}

func newCall(opts []CallOption) call {
	c := call{count: -1, limit: -1}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// InOrder overrides the byte order for one call.
func InOrder(e Endianness) CallOption { return func(c *call) { c.order = &e } }

// InEncoding overrides the string encoding for one call.
func InEncoding(enc Encoding) CallOption { return func(c *call) { c.encoding = enc } }

// Lenient makes one read yield zero values instead of failing.
func Lenient() CallOption { return func(c *call) { c.lenient = true } }

// Grow forces growth for one write, even on a fixed-capacity cursor.
func Grow() CallOption {
	return func(c *call) {
		g := true
		c.grow = &g
	}
}

// NoGrow forbids growth for one write.
func NoGrow() CallOption {
	return func(c *call) {
		g := false
		c.grow = &g
	}
}

// Count requires exactly n bytes to be read or written.
func Count(n int) CallOption { return func(c *call) { c.count = n } }

// Limit caps the number of bytes read or written.
func Limit(n int) CallOption { return func(c *call) { c.limit = n } }

// PadWith fills the remainder up to Count with a repeating pattern.
func PadWith(src Source) CallOption { return func(c *call) { c.padding = src } }

// Full fails a write that does not fit instead of truncating it.
func Full() CallOption { return func(c *call) { c.full = true } }

// Terminate overrides the string terminator for one call.
func Terminate(t Terminator) CallOption { return func(c *call) { c.terminator = &t } }

// NoStrip keeps trailing NUL characters in a decoded string.
func NoStrip() CallOption { return func(c *call) { c.strip = stripNone } }

// StripSuffix removes trailing runs of s instead of NUL characters.
func StripSuffix(s string) CallOption {
	return func(c *call) {
		c.strip = stripSuffix
		c.suffix = s
	}
}

// Chunks bounds how many bytes a terminator scan inspects per step.
func Chunks(n int) CallOption { return func(c *call) { c.chunks = n } }
