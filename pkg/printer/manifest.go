package printer

import (
	"encoding/hex"

	"github.com/zeebo/blake3"

	"github.com/joshuapare/ctrkit/pkg/darc"
	"github.com/joshuapare/ctrkit/pkg/vfs"
)

// Entry describes one node of a tree.
type Entry struct {
	Name     string  `json:"name" yaml:"name" cbor:"name"`
	Path     string  `json:"path" yaml:"path" cbor:"path"`
	Kind     string  `json:"kind" yaml:"kind" cbor:"kind"`
	Size     int     `json:"size,omitempty" yaml:"size,omitempty" cbor:"size,omitempty"`
	Items    int     `json:"items,omitempty" yaml:"items,omitempty" cbor:"items,omitempty"`
	Padding  *int    `json:"padding,omitempty" yaml:"padding,omitempty" cbor:"padding,omitempty"`
	Digest   string  `json:"blake3,omitempty" yaml:"blake3,omitempty" cbor:"blake3,omitempty"`
	Children []Entry `json:"children,omitempty" yaml:"children,omitempty" cbor:"children,omitempty"`
}

// ArchiveManifest summarizes a DARC archive.
type ArchiveManifest struct {
	Header      *darc.Header `json:"header,omitempty" yaml:"header,omitempty" cbor:"header,omitempty"`
	Files       int          `json:"files" yaml:"files" cbor:"files"`
	Directories int          `json:"directories" yaml:"directories" cbor:"directories"`
	Root        Entry        `json:"root" yaml:"root" cbor:"root"`
}

// Digest returns the hex BLAKE3-256 digest of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// BuildEntry converts a tree into its manifest form, honoring MaxDepth,
// ShowPadding and Digest.
func BuildEntry(n vfs.Node, opts Options) Entry {
	return buildEntry(n, opts, 0)
}

func buildEntry(n vfs.Node, opts Options, depth int) Entry {
	e := Entry{Name: n.Name(), Path: n.Path(), Kind: n.Kind().String()}
	switch v := n.(type) {
	case *vfs.File:
		e.Size = v.Len()
		if opts.ShowPadding {
			if pad, ok := paddingAttr(v); ok {
				e.Padding = &pad
			}
		}
		if opts.Digest {
			e.Digest = Digest(v.Data())
		}
	case *vfs.Directory:
		e.Items = v.Len()
		if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
			return e
		}
		for _, c := range v.Nodes() {
			e.Children = append(e.Children, buildEntry(c, opts, depth+1))
		}
	}
	return e
}

func paddingAttr(f *vfs.File) (int, bool) {
	v, ok := f.Attr(darc.PaddingAttr)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint32:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

// BuildArchiveManifest summarizes a, including the header Build would
// write when PrintMetadata is set.
func BuildArchiveManifest(a *darc.Archive, opts Options) (ArchiveManifest, error) {
	m := ArchiveManifest{Root: BuildEntry(a.Root, opts)}
	for _, n := range a.Root.Flatten()[1:] {
		if n.Kind() == vfs.KindFile {
			m.Files++
		} else {
			m.Directories++
		}
	}
	if opts.PrintMetadata {
		h, err := a.Header()
		if err != nil {
			return ArchiveManifest{}, err
		}
		m.Header = &h
	}
	return m, nil
}
