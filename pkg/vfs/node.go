package vfs

import (
	"bytes"
	"log/slog"
	"maps"
	"strings"
)

// Kind distinguishes files from directories.
type Kind uint8

const (
	KindFile Kind = iota + 1
	KindDirectory
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

// Attributes holds per-node metadata.
type Attributes map[string]any

// Node is a *File or a *Directory.
type Node interface {
	Name() string
	Kind() Kind
	// Parent returns the containing directory, or nil for a detached node.
	Parent() *Directory
	// Path joins the names from the outermost named ancestor down to the
	// node with "/".
	Path() string
	// Len is the byte length of a file or the child count of a directory.
	Len() int
	Attrs() Attributes
	Attr(key string) (any, bool)
	SetAttr(key string, v any)
	// Clone returns a detached deep copy.
	Clone() Node
	// Flatten lists the node and its descendants in depth-first pre-order.
	Flatten() []Node

	base() *nodeBase
}

type nodeBase struct {
	name   string
	parent *Directory
	attrs  Attributes
}

func (b *nodeBase) base() *nodeBase { return b }

func (b *nodeBase) Name() string { return b.name }

// SetName renames the node. The caller is responsible for uniqueness.
func (b *nodeBase) SetName(name string) { b.name = name }

func (b *nodeBase) Parent() *Directory { return b.parent }

func (b *nodeBase) Path() string {
	var segs []string
	for n := b; n != nil; {
		if n.name != "" {
			segs = append(segs, n.name)
		}
		if n.parent == nil {
			break
		}
		n = &n.parent.nodeBase
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return strings.Join(segs, "/")
}

func (b *nodeBase) Attrs() Attributes { return b.attrs }

func (b *nodeBase) Attr(key string) (any, bool) {
	v, ok := b.attrs[key]
	return v, ok
}

func (b *nodeBase) SetAttr(key string, v any) {
	if b.attrs == nil {
		b.attrs = Attributes{}
	}
	b.attrs[key] = v
}

// File is a leaf node holding bytes.
type File struct {
	nodeBase
	data []byte
}

// NewFile returns a detached file. data is used as-is.
func NewFile(name string, data []byte, attrs Attributes) *File {
	return &File{nodeBase: nodeBase{name: name, attrs: attrs}, data: data}
}

func (*File) Kind() Kind { return KindFile }

func (f *File) Len() int { return len(f.data) }

// Data returns the file contents without copying.
func (f *File) Data() []byte { return f.data }

// SetData replaces the file contents.
func (f *File) SetData(b []byte) { f.data = b }

func (f *File) Clone() Node {
	return &File{
		nodeBase: nodeBase{name: f.name, attrs: maps.Clone(f.attrs)},
		data:     bytes.Clone(f.data),
	}
}

func (f *File) Flatten() []Node { return []Node{f} }

// LogValue implements slog.LogValuer; contents are omitted.
func (f *File) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", f.Path()),
		slog.Int("size", f.Len()),
	)
}

// Equal reports whether a and b have the same shape: names, kinds, file
// bytes and child order. Attributes are not compared.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Name() != b.Name() || a.Kind() != b.Kind() || a.Len() != b.Len() {
		return false
	}
	switch x := a.(type) {
	case *File:
		return bytes.Equal(x.data, b.(*File).data)
	case *Directory:
		y := b.(*Directory)
		for i, child := range x.children {
			if !Equal(child, y.children[i]) {
				return false
			}
		}
		return true
	}
	return false
}
