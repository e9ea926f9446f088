package darc

import (
	"github.com/joshuapare/ctrkit/pkg/event"
	"github.com/joshuapare/ctrkit/pkg/memory"
)

// Build serializes the archive. On failure no bytes are returned.
func (a *Archive) Build(opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	p, err := a.layout()
	if err != nil {
		return nil, buildErr(nil, err)
	}
	m, err := memory.NewSize(p.size, memory.WithEndianness(a.Endianness), memory.WithoutGrowth())
	if err != nil {
		return nil, buildErr(nil, err)
	}
	if err := a.write(m, p, o.sink); err != nil {
		return nil, buildErr(m, err)
	}
	if m.Offset() != p.size {
		return nil, buildErr(m, fail(CodeInvalidState, m, "wrote %d bytes, planned %d", m.Offset(), p.size))
	}
	return m.Steal()
}

// BuildInto writes the archive at m's offset using the archive's byte
// order. Alignment is relative to the starting offset, so the archive is
// valid on its own once extracted from m.
func (a *Archive) BuildInto(m *memory.Memory, opts ...Option) error {
	o := newOptions(opts)
	p, err := a.layout()
	if err != nil {
		return buildErr(m, err)
	}
	err = m.UsingEndianness(a.Endianness, func(m *memory.Memory) error {
		return a.write(m, p, o.sink)
	})
	if err != nil {
		return buildErr(m, err)
	}
	return nil
}

func (a *Archive) write(m *memory.Memory, p *plan, sink event.Sink) error {
	start := m.Offset()
	align := func() error {
		rel := m.Offset() - start
		return m.Pad(0, memory.Align(rel, Alignment)-rel)
	}

	h := p.header(a)
	if err := writeHeader(m, h); err != nil {
		return err
	}
	if err := event.Emit(sink, EventBuildHeader, h); err != nil {
		return err
	}

	for _, n := range p.nodes {
		if err := writeNode(m, n); err != nil {
			return err
		}
	}

	for _, n := range p.nodes {
		err := m.WriteString(n.Name,
			memory.InEncoding(NameEncoding), memory.Terminate(memory.NulTerminated), memory.Full())
		if err != nil {
			return err
		}
		if n.Directory {
			if err := event.Emit(sink, EventBuildNode, n); err != nil {
				return err
			}
		}
	}

	if err := align(); err != nil {
		return err
	}

	for _, n := range p.nodes {
		if n.Directory {
			continue
		}
		if err := align(); err != nil {
			return err
		}
		if err := m.Pad(0, n.Padding); err != nil {
			return err
		}
		if err := align(); err != nil {
			return err
		}
		if err := m.WriteRaw(memory.Bytes(n.Data), memory.Count(len(n.Data))); err != nil {
			return err
		}
		if err := event.Emit(sink, EventBuildNode, n); err != nil {
			return err
		}
	}
	return nil
}

func writeHeader(m *memory.Memory, h Header) error {
	steps := []func() error{
		func() error { return m.WriteRaw(memory.Bytes(h.Magic[:]), memory.Count(len(h.Magic))) },
		func() error { return m.WriteBOM(memory.BOM16, h.Endianness) },
		func() error { return m.WriteU16(h.HeaderSize) },
		func() error { return h.Version.Build(m) },
		func() error { return m.WriteU32(h.FileLength) },
		func() error { return m.WriteU32(h.TableOffset) },
		func() error { return m.WriteU32(h.TableLength) },
		func() error { return m.WriteU32(h.DataStartOffset) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func writeNode(m *memory.Memory, n Node) error {
	var dir uint8
	if n.Directory {
		dir = 1
	}
	if err := m.WriteU24(n.NameOffset); err != nil {
		return err
	}
	if err := m.WriteU8(dir); err != nil {
		return err
	}
	if err := m.WriteU32(n.DataOffset); err != nil {
		return err
	}
	return m.WriteU32(n.Length)
}
