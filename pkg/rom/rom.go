package rom

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joshuapare/ctrkit/pkg/event"
	"github.com/joshuapare/ctrkit/pkg/vfs"
)

// Partition names. Loaded trees are renamed to these.
const (
	PartExeFS = "exefs"
	PartRomFS = "romfs"
)

// Event names emitted by Read.
const (
	EventExeFSStart     = PartExeFS + ".start"
	EventExeFSEnd       = PartExeFS + ".end"
	EventExeFSNodeStart = PartExeFS + ".node.start"
	EventExeFSNodeEnd   = PartExeFS + ".node.end"
	EventRomFSStart     = PartRomFS + ".start"
	EventRomFSEnd       = PartRomFS + ".end"
	EventRomFSNodeStart = PartRomFS + ".node.start"
	EventRomFSNodeEnd   = PartRomFS + ".node.end"
)

// ROM holds the loaded partitions. A partition that was not requested is nil.
type ROM struct {
	ExeFS *vfs.Directory
	RomFS *vfs.Directory
}

// Options selects the partitions to load. Empty paths are skipped.
type Options struct {
	ExeFS string
	RomFS string
	Sink  event.Sink
}

// Read loads every partition named in opts, ExeFS first. Any failure is
// returned as an ErrRead whose Err is the cause; no partial ROM is returned.
func Read(opts Options) (*ROM, error) {
	r := &ROM{}
	if opts.ExeFS != "" {
		d, err := load(PartExeFS, opts.ExeFS, opts.Sink)
		if err != nil {
			return nil, readErr(opts.ExeFS, err)
		}
		r.ExeFS = d
	}
	if opts.RomFS != "" {
		d, err := load(PartRomFS, opts.RomFS, opts.Sink)
		if err != nil {
			return nil, readErr(opts.RomFS, err)
		}
		r.RomFS = d
	}
	return r, nil
}

// ReadExeFS loads a single ExeFS partition.
func ReadExeFS(path string, sink event.Sink) (*vfs.Directory, error) {
	return readOne(PartExeFS, path, sink)
}

// ReadRomFS loads a single RomFS partition.
func ReadRomFS(path string, sink event.Sink) (*vfs.Directory, error) {
	return readOne(PartRomFS, path, sink)
}

func readOne(part, path string, sink event.Sink) (*vfs.Directory, error) {
	if path == "" {
		return nil, readErr(path, unknownFormat(path, ""))
	}
	d, err := load(part, path, sink)
	if err != nil {
		return nil, readErr(path, err)
	}
	return d, nil
}

func load(part, path string, sink event.Sink) (*vfs.Directory, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &Error{Code: CodeUnknown, Msg: "stat", Path: path, Err: err}
	}
	if err := event.Emit(sink, part+".start", nil); err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, unknownFormat(path, strings.TrimPrefix(filepath.Ext(path), "."))
	}
	d, err := vfs.FromDir(path, vfs.WithSink(forward(part, sink)))
	if err != nil {
		return nil, err
	}
	d.SetName(part)
	if err := event.Emit(sink, part+".end", nil); err != nil {
		return nil, err
	}
	return d, nil
}

// forward renames vfs read events into the partition's node events.
func forward(part string, sink event.Sink) event.Sink {
	if sink == nil {
		return nil
	}
	return event.SinkFunc(func(e event.Event) {
		switch e.Name {
		case vfs.EventReadStart:
			sink.Emit(event.Event{Name: part + ".node.start", Payload: e.Payload})
		case vfs.EventReadEnd:
			sink.Emit(event.Event{Name: part + ".node.end", Payload: e.Payload})
		}
	})
}
