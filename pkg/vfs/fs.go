package vfs

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joshuapare/ctrkit/internal/mmfile"
	"github.com/joshuapare/ctrkit/internal/writer"
	"github.com/joshuapare/ctrkit/pkg/event"
)

// Event names emitted by FromDir and WriteDir.
const (
	EventReadStart  = "read.node.start"
	EventReadEnd    = "read.node.end"
	EventWriteStart = "write.node.start"
	EventWriteEnd   = "write.node.end"
)

// NodeEvent is the payload of disk events.
type NodeEvent struct {
	Node Node
	// Path is the disk path being read or written.
	Path string
}

// LogValue implements slog.LogValuer.
func (e NodeEvent) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", e.Node.Kind().String()),
		slog.String("path", e.Path),
		slog.Int("len", e.Node.Len()),
	)
}

// DiskOptions configures FromDir and WriteDir.
type DiskOptions struct {
	Sink     event.Sink
	DirPerm  fs.FileMode
	FilePerm fs.FileMode
}

// DiskOption mutates DiskOptions.
type DiskOption func(*DiskOptions)

// WithSink routes node events to s.
func WithSink(s event.Sink) DiskOption { return func(o *DiskOptions) { o.Sink = s } }

// WithPerm sets the modes used for created directories and files.
func WithPerm(dir, file fs.FileMode) DiskOption {
	return func(o *DiskOptions) {
		o.DirPerm = dir
		o.FilePerm = file
	}
}

func diskOptions(opts []DiskOption) DiskOptions {
	o := DiskOptions{DirPerm: 0o755, FilePerm: writer.DefaultPerm}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// FromDir reads the directory at path into a detached tree named after it.
// Entries are added in lexical order; anything that is neither a regular
// file nor a directory is skipped.
func FromDir(path string, opts ...DiskOption) (*Directory, error) {
	o := diskOptions(opts)
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, ioErr(path, "resolve path", err)
	}
	root := NewDirectory(filepath.Base(abs), nil)
	if err := readDir(root, abs, o.Sink); err != nil {
		return nil, err
	}
	return root, nil
}

func readDir(d *Directory, path string, sink event.Sink) error {
	if err := event.Emit(sink, EventReadStart, NodeEvent{Node: d, Path: path}); err != nil {
		return err
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return ioErr(path, "read directory", err)
	}
	for _, ent := range entries {
		child := filepath.Join(path, ent.Name())
		switch {
		case ent.Type().IsRegular():
			f := NewFile(ent.Name(), nil, nil)
			if _, err := d.Append(f); err != nil {
				return err
			}
			if err := event.Emit(sink, EventReadStart, NodeEvent{Node: f, Path: child}); err != nil {
				return err
			}
			data, err := mmfile.ReadFile(child)
			if err != nil {
				return ioErr(child, "read file", err)
			}
			f.SetData(data)
			if err := event.Emit(sink, EventReadEnd, NodeEvent{Node: f, Path: child}); err != nil {
				return err
			}
		case ent.IsDir():
			sub := NewDirectory(ent.Name(), nil)
			if _, err := d.Append(sub); err != nil {
				return err
			}
			if err := readDir(sub, child, sink); err != nil {
				return err
			}
		}
	}
	return event.Emit(sink, EventReadEnd, NodeEvent{Node: d, Path: path})
}

// WriteDir recreates d under dest, which becomes d's own directory.
// Existing files are overwritten atomically. Child names must be plain
// single path elements.
func (d *Directory) WriteDir(dest string, opts ...DiskOption) error {
	o := diskOptions(opts)
	abs, err := filepath.Abs(dest)
	if err != nil {
		return ioErr(dest, "resolve path", err)
	}
	return writeDir(d, abs, o)
}

func writeDir(d *Directory, path string, o DiskOptions) error {
	if err := event.Emit(o.Sink, EventWriteStart, NodeEvent{Node: d, Path: path}); err != nil {
		return err
	}
	if err := os.MkdirAll(path, o.DirPerm); err != nil {
		return ioErr(path, "create directory", err)
	}
	if err := event.Emit(o.Sink, EventWriteEnd, NodeEvent{Node: d, Path: path}); err != nil {
		return err
	}
	for _, c := range d.children {
		if !safeName(c.Name()) {
			return newErr(CodeUnsafeName, c.Path(), "refusing to write %q", c.Name())
		}
		child := filepath.Join(path, c.Name())
		switch n := c.(type) {
		case *File:
			if err := event.Emit(o.Sink, EventWriteStart, NodeEvent{Node: n, Path: child}); err != nil {
				return err
			}
			w := &writer.FileWriter{Path: child, Perm: o.FilePerm}
			if err := w.WriteAll(n.data); err != nil {
				return ioErr(child, "write file", err)
			}
			if err := event.Emit(o.Sink, EventWriteEnd, NodeEvent{Node: n, Path: child}); err != nil {
				return err
			}
		case *Directory:
			if err := writeDir(n, child, o); err != nil {
				return err
			}
		}
	}
	return nil
}

func safeName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`) && filepath.IsLocal(name)
}
