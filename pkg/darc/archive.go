package darc

import (
	"math"
	"reflect"
	"strings"

	"github.com/joshuapare/ctrkit/internal/format"
	"github.com/joshuapare/ctrkit/pkg/event"
	"github.com/joshuapare/ctrkit/pkg/memory"
	"github.com/joshuapare/ctrkit/pkg/version"
	"github.com/joshuapare/ctrkit/pkg/vfs"
)

// Archive is a DARC archive held as a file tree.
type Archive struct {
	// Endianness is the byte order written by Build. Parse sets it from
	// the BOM.
	Endianness memory.Endianness
	Version    version.Version
	Root       *vfs.Directory
	// DefaultPadding applies to files without a padding attribute.
	DefaultPadding int
}

// New returns an empty little-endian archive.
func New() *Archive {
	return &Archive{
		Endianness:     memory.LE,
		Version:        Version,
		Root:           vfs.NewDirectory("", nil),
		DefaultPadding: DefaultPadding,
	}
}

type options struct {
	sink event.Sink
}

// Option configures Build, BuildInto and Parse.
type Option func(*options)

// WithSink routes progress events to s.
func WithSink(s event.Sink) Option { return func(o *options) { o.sink = s } }

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Validate checks that the tree can be written: every padding attribute is
// an integer in [0, 0xFFFFFFFF] and names are non-empty, free of NUL and
// unique within their directory.
func (a *Archive) Validate() error {
	if a.Root == nil {
		return invalidState("", "archive has no root")
	}
	if a.DefaultPadding < 0 || int64(a.DefaultPadding) > maxU32 {
		return invalidState("", "default padding %d out of range", a.DefaultPadding)
	}
	return a.Root.Walk(func(n vfs.Node) error {
		switch v := n.(type) {
		case *vfs.File:
			if _, err := paddingOf(v, a.DefaultPadding); err != nil {
				return err
			}
		case *vfs.Directory:
			seen := make(map[string]struct{}, v.Len())
			for _, c := range v.Nodes() {
				name := c.Name()
				if name == "" || strings.ContainsRune(name, 0) {
					return invalidState(c.Path(), "invalid name %q", name)
				}
				if _, dup := seen[name]; dup {
					return invalidState(c.Path(), "duplicate name %q", name)
				}
				seen[name] = struct{}{}
			}
		}
		return nil
	})
}

// paddingOf returns the padding attribute of f, or def when unset.
func paddingOf(f *vfs.File, def int) (int, error) {
	v, ok := f.Attr(PaddingAttr)
	if !ok || v == nil {
		return def, nil
	}
	var n float64
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n = float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n = float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		n = rv.Float()
		if n != math.Trunc(n) {
			return 0, invalidState(f.Path(), "padding %v is not an integer", v)
		}
	default:
		return 0, invalidState(f.Path(), "padding %v (%T) is not a number", v, v)
	}
	if n < 0 || n > maxU32 {
		return 0, invalidState(f.Path(), "padding %v out of range", v)
	}
	return int(n), nil
}

// plan is the computed layout of an archive.
type plan struct {
	nodes       []Node
	tableLength int
	dataStart   int
	size        int
}

func (p *plan) header(a *Archive) Header {
	return Header{
		Magic:           Magic,
		Endianness:      a.Endianness,
		HeaderSize:      HeaderSize,
		Version:         a.Version,
		FileLength:      uint32(p.size),
		TableOffset:     HeaderSize,
		TableLength:     uint32(p.tableLength),
		DataStartOffset: uint32(p.dataStart),
	}
}

// layout validates the tree, flattens it and assigns every offset.
func (a *Archive) layout() (*plan, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	p := &plan{}
	var walk func(d *vfs.Directory, name string) error
	walk = func(d *vfs.Directory, name string) error {
		at := len(p.nodes)
		p.nodes = append(p.nodes, Node{Name: name, Directory: true})
		for _, c := range d.Nodes() {
			switch v := c.(type) {
			case *vfs.File:
				pad, err := paddingOf(v, a.DefaultPadding)
				if err != nil {
					return err
				}
				if int64(v.Len()) > maxU32 {
					return invalidState(v.Path(), "file too large")
				}
				p.nodes = append(p.nodes, Node{
					Name:    v.Name(),
					Length:  uint32(v.Len()),
					Padding: pad,
					Data:    v.Data(),
				})
			case *vfs.Directory:
				if err := walk(v, v.Name()); err != nil {
					return err
				}
			}
		}
		p.nodes[at].Length = uint32(len(p.nodes) - at)
		return nil
	}
	if err := walk(a.Root, RootName); err != nil {
		return nil, err
	}

	names := 0
	for i := range p.nodes {
		n, err := memory.ByteLength(p.nodes[i].Name+"\x00", NameEncoding)
		if err != nil {
			return nil, invalidState(p.nodes[i].Name, "encode name: %v", err)
		}
		if names > maxU24 {
			return nil, invalidState(p.nodes[i].Name, "name table too large")
		}
		p.nodes[i].NameOffset = uint32(names)
		names += n
	}
	p.tableLength = len(p.nodes)*NodeSize + names

	off := format.Align16(HeaderSize+p.tableLength)
	p.dataStart = off
	for i := range p.nodes {
		n := &p.nodes[i]
		if n.Directory {
			continue
		}
		off = format.Align16(off)
		off = format.Align16(off+n.Padding)
		if int64(off) > maxU32 {
			return nil, invalidState(n.Name, "archive too large")
		}
		n.DataOffset = uint32(off)
		off += int(n.Length)
	}
	if int64(off) > maxU32 || off > memory.MaxLength {
		return nil, invalidState("", "archive too large (%d bytes)", off)
	}
	p.size = off
	return p, nil
}

// SizeOf returns the byte size Build would produce.
func (a *Archive) SizeOf() (int, error) {
	p, err := a.layout()
	if err != nil {
		return 0, err
	}
	return p.size, nil
}

// Header returns the header Build would write.
func (a *Archive) Header() (Header, error) {
	p, err := a.layout()
	if err != nil {
		return Header{}, err
	}
	return p.header(a), nil
}

// Parse decodes b into a new Archive.
func Parse(b []byte, opts ...Option) (*Archive, error) {
	a := New()
	if err := a.Parse(b, opts...); err != nil {
		return nil, err
	}
	return a, nil
}
