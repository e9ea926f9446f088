package darc

import (
	"bytes"
	"errors"

	"github.com/joshuapare/ctrkit/pkg/event"
	"github.com/joshuapare/ctrkit/pkg/memory"
	"github.com/joshuapare/ctrkit/pkg/version"
	"github.com/joshuapare/ctrkit/pkg/vfs"
)

// Parse decodes b into a. On failure a is left unchanged.
func (a *Archive) Parse(b []byte, opts ...Option) error {
	o := newOptions(opts)
	if len(b) < len(Magic) || !bytes.Equal(b[:len(Magic)], Magic[:]) {
		return &Error{Code: CodeParse, Msg: "parse failed", Err: &Error{Code: CodeNotDARC, Msg: "bad magic"}}
	}
	m, err := memory.FromBytes(b, memory.WithoutGrowth())
	if err != nil {
		return &Error{Code: CodeParse, Msg: "parse failed", Err: err}
	}

	p := parser{m: m, sink: o.sink}
	root, h, err := p.run()
	if err != nil {
		return parseErr(m, err)
	}
	a.Endianness = h.Endianness
	a.Version = h.Version
	a.Root = root
	return nil
}

type parser struct {
	m    *memory.Memory
	sink event.Sink
}

func (p *parser) run() (*vfs.Directory, Header, error) {
	h, err := p.header()
	if err != nil {
		return nil, h, err
	}
	if err := event.Emit(p.sink, EventParseHeader, h); err != nil {
		return nil, h, err
	}

	nodes, err := p.table(h)
	if err != nil {
		return nil, h, err
	}
	if err := p.names(h, nodes); err != nil {
		return nil, h, err
	}
	if err := p.data(h, nodes); err != nil {
		return nil, h, err
	}
	root, err := p.tree(nodes)
	return root, h, err
}

func (p *parser) header() (Header, error) {
	m := p.m
	var h Header
	magic, err := m.ReadBytes(len(Magic))
	if err != nil {
		return h, err
	}
	copy(h.Magic[:], magic)

	h.Endianness, err = m.ReadBOM(memory.BOM16)
	if err != nil {
		if errors.Is(err, memory.ErrInvalidArgument) {
			return h, &Error{Code: CodeInvalidHeader, Msg: "unknown byte order mark", Offset: m.Offset(), Err: err}
		}
		return h, err
	}
	m.SetEndianness(h.Endianness)

	if h.HeaderSize, err = m.ReadU16(); err != nil {
		return h, err
	}
	if h.Version, err = version.Read(m); err != nil {
		return h, err
	}
	for _, f := range []*uint32{&h.FileLength, &h.TableOffset, &h.TableLength, &h.DataStartOffset} {
		if *f, err = m.ReadU32(); err != nil {
			return h, err
		}
	}

	if h.Version != Version {
		return h, fail(CodeUnsupportedVersion, m, "unsupported version %s", h.Version)
	}
	if h.HeaderSize != HeaderSize {
		return h, fail(CodeInvalidHeader, m, "header size 0x%X, want 0x%X", h.HeaderSize, HeaderSize)
	}
	if int64(h.FileLength) != int64(m.Size()) {
		return h, fail(CodeInvalidHeader, m, "file length %d, buffer is %d bytes", h.FileLength, m.Size())
	}
	if h.TableOffset != HeaderSize {
		return h, fail(CodeMalformed, m, "table offset 0x%X, want 0x%X", h.TableOffset, HeaderSize)
	}
	return h, nil
}

func (p *parser) record() (Node, error) {
	m := p.m
	var n Node
	var err error
	if n.NameOffset, err = m.ReadU24(); err != nil {
		return n, err
	}
	dir, err := m.ReadU8()
	if err != nil {
		return n, err
	}
	n.Directory = dir != 0
	if n.DataOffset, err = m.ReadU32(); err != nil {
		return n, err
	}
	n.Length, err = m.ReadU32()
	return n, err
}

func (p *parser) table(h Header) ([]Node, error) {
	m := p.m
	root, err := p.record()
	if err != nil {
		return nil, err
	}
	if !root.Directory {
		return nil, fail(CodeRootNotDirectory, m, "root record is a file")
	}
	if root.Length == 0 {
		return nil, fail(CodeMalformed, m, "root directory has no entries")
	}
	count := int64(root.Length)
	if (count-1)*NodeSize > int64(m.Remaining()) {
		return nil, fail(CodeUnexpectedEOF, m, "%d records do not fit", count)
	}

	nodes := make([]Node, 1, count)
	nodes[0] = root
	for range count - 1 {
		n, err := p.record()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func (p *parser) names(h Header, nodes []Node) error {
	m := p.m
	base := m.Offset()
	for i := range nodes {
		if m.Offset() != base+int(nodes[i].NameOffset) {
			return fail(CodeMalformed, m, "name %d at 0x%X, record says 0x%X", i, m.Offset()-base, nodes[i].NameOffset)
		}
		name, err := m.ReadString(memory.InEncoding(NameEncoding), memory.Terminate(memory.NulTerminated))
		if err != nil {
			return err
		}
		nodes[i].Name = name
	}

	list := make([]ListEntry, len(nodes))
	for i, n := range nodes {
		list[i] = ListEntry{Name: n.Name, Length: n.Length, Directory: n.Directory}
	}
	if err := event.Emit(p.sink, EventParseList, list); err != nil {
		return err
	}

	if end := int64(h.TableOffset) + int64(h.TableLength); int64(m.Offset()) != end {
		return fail(CodeMalformed, m, "table ends at 0x%X, header says 0x%X", m.Offset(), end)
	}
	return nil
}

// align consumes zero bytes up to the next 16-byte boundary.
func (p *parser) align() error {
	m := p.m
	for m.Offset() != memory.Align(m.Offset(), Alignment) {
		b, err := m.ReadU8()
		if err != nil {
			return err
		}
		if b != 0 {
			return fail(CodeMalformed, m, "non-zero alignment byte 0x%02X", b)
		}
	}
	return nil
}

func (p *parser) data(h Header, nodes []Node) error {
	m := p.m
	if err := p.align(); err != nil {
		return err
	}
	if int64(m.Offset()) != int64(h.DataStartOffset) {
		return fail(CodeMalformed, m, "data starts at 0x%X, header says 0x%X", m.Offset(), h.DataStartOffset)
	}

	for i := range nodes {
		n := &nodes[i]
		if n.Directory {
			continue
		}
		if err := p.align(); err != nil {
			return err
		}
		if int64(m.Offset()) > int64(n.DataOffset) {
			return fail(CodeMalformed, m, "%s: data offset 0x%X is behind the cursor", n.Name, n.DataOffset)
		}
		for int64(m.Offset()) < int64(n.DataOffset) {
			b, err := m.ReadU8()
			if err != nil {
				return err
			}
			if b != 0 {
				return fail(CodeMalformed, m, "%s: non-zero padding byte 0x%02X", n.Name, b)
			}
			n.Padding++
		}
		data, err := m.ReadBytes(int(n.Length))
		if err != nil {
			return err
		}
		n.Data = data
		if err := event.Emit(p.sink, EventParseNode, *n); err != nil {
			return err
		}
	}
	return nil
}

// tree rebuilds the directory structure. A directory at index i with
// length L owns the entries i+1 through i+L-1.
func (p *parser) tree(nodes []Node) (*vfs.Directory, error) {
	root := vfs.NewDirectory("", nil)
	end, err := p.fill(root, nodes, 0, len(nodes))
	if err != nil {
		return nil, err
	}
	if end != len(nodes) {
		return nil, fail(CodeMalformed, p.m, "root covers %d of %d records", end, len(nodes))
	}
	return root, nil
}

func (p *parser) fill(dir *vfs.Directory, nodes []Node, at, limit int) (int, error) {
	length := int64(nodes[at].Length)
	if length == 0 || int64(at)+length > int64(limit) {
		return 0, fail(CodeMalformed, p.m, "directory %q spans %d records past its parent", nodes[at].Name, length)
	}
	end := at + int(length)
	for i := at + 1; i < end; {
		n := nodes[i]
		if !n.Directory {
			f := vfs.NewFile(n.Name, n.Data, vfs.Attributes{PaddingAttr: n.Padding})
			if _, err := dir.Append(f); err != nil {
				return 0, &Error{Code: CodeMalformed, Msg: "duplicate entry", Offset: p.m.Offset(), Err: err}
			}
			i++
			continue
		}
		sub := vfs.NewDirectory(n.Name, nil)
		if _, err := dir.Append(sub); err != nil {
			return 0, &Error{Code: CodeMalformed, Msg: "duplicate entry", Offset: p.m.Offset(), Err: err}
		}
		next, err := p.fill(sub, nodes, i, end)
		if err != nil {
			return 0, err
		}
		i = next
	}
	return end, nil
}
