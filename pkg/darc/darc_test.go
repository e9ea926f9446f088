package darc

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/ctrkit/pkg/event"
	"github.com/joshuapare/ctrkit/pkg/memory"
	"github.com/joshuapare/ctrkit/pkg/types"
	"github.com/joshuapare/ctrkit/pkg/vfs"
)

const scenarioLE = "64617263fffe1c000000000175000000" +
	"1c000000380000006000000000000001" +
	"00000000030000000400000100000000" +
	"02000000080000007000000005000000" +
	"2e0000006100000062002e0074007800" +
	"74000000000000000000000000000000" +
	"00000000000000000000000000000000" +
	"68656c6c6f"

const scenarioBE = "64617263feff001c0000000100000075" +
	"0000001c000000380000006000000001" +
	"00000000000000030000040100000000" +
	"00000002000008000000007000000005" +
	"002e0000006100000062002e00740078" +
	"00740000000000000000000000000000" +
	"00000000000000000000000000000000" +
	"68656c6c6f"

func unhex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

// scenario is one directory "a" holding a 5-byte "b.txt".
func scenario(t *testing.T) *Archive {
	t.Helper()
	a := New()
	dir, err := a.Root.Dir("a")
	require.NoError(t, err)
	_, err = dir.File("b.txt", []byte("hello"), nil)
	require.NoError(t, err)
	return a
}

func TestBuild_Scenario(t *testing.T) {
	a := scenario(t)

	size, err := a.SizeOf()
	require.NoError(t, err)
	require.Equal(t, 117, size)

	got, err := a.Build()
	require.NoError(t, err)
	require.Equal(t, scenarioLE, hex.EncodeToString(got))

	// Name blob, padding and data land where the header says.
	names := []byte(".\x00\x00\x00a\x00\x00\x00b\x00.\x00t\x00x\x00t\x00\x00\x00")
	require.Equal(t, names, got[0x1C+3*NodeSize:0x1C+3*NodeSize+len(names)])
	require.Equal(t, make([]byte, 16), got[96:112])
	require.Equal(t, "hello", string(got[112:]))
}

func TestBuild_BigEndian(t *testing.T) {
	a := scenario(t)
	a.Endianness = memory.BE

	got, err := a.Build()
	require.NoError(t, err)
	require.Equal(t, scenarioBE, hex.EncodeToString(got))

	parsed, err := Parse(got)
	require.NoError(t, err)
	require.Equal(t, memory.BE, parsed.Endianness)
	require.True(t, vfs.Equal(a.Root, parsed.Root))
}

func TestParse_Scenario(t *testing.T) {
	var rec event.Recorder
	a, err := Parse(unhex(t, scenarioLE), WithSink(&rec))
	require.NoError(t, err)

	require.Equal(t, memory.LE, a.Endianness)
	require.Equal(t, Version, a.Version)
	require.Equal(t, "", a.Root.Name())
	require.Equal(t, 1, a.Root.Len())

	data, err := a.Root.Read("a/b.txt")
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))

	f := a.Root.Search("a/b.txt")
	pad, ok := f.Attr(PaddingAttr)
	require.True(t, ok)
	require.Equal(t, 16, pad)

	require.Equal(t, []string{EventParseHeader, EventParseList, EventParseNode}, rec.Names())

	h := rec.Events()[0].Payload.(Header)
	require.Equal(t, Header{
		Magic:           Magic,
		Endianness:      memory.LE,
		HeaderSize:      HeaderSize,
		Version:         Version,
		FileLength:      117,
		TableOffset:     0x1C,
		TableLength:     56,
		DataStartOffset: 96,
	}, h)

	list := rec.Events()[1].Payload.([]ListEntry)
	require.Equal(t, []ListEntry{
		{Name: ".", Length: 3, Directory: true},
		{Name: "a", Length: 2, Directory: true},
		{Name: "b.txt", Length: 5},
	}, list)

	node := rec.Events()[2].Payload.(Node)
	require.Equal(t, "b.txt", node.Name)
	require.Equal(t, uint32(112), node.DataOffset)
	require.Equal(t, 16, node.Padding)
	require.Equal(t, uint32(8), node.NameOffset)
}

func TestRoundTrip(t *testing.T) {
	a := New()
	_, err := a.Root.File("top.bin", bytes.Repeat([]byte{0xAB}, 33), vfs.Attributes{PaddingAttr: 0})
	require.NoError(t, err)
	layout, err := a.Root.Dir("layout")
	require.NoError(t, err)
	nested, err := layout.Dir("nested")
	require.NoError(t, err)
	_, err = nested.File("deep.txt", []byte("deep"), vfs.Attributes{PaddingAttr: 48})
	require.NoError(t, err)
	_, err = nested.Dir("empty")
	require.NoError(t, err)
	_, err = layout.File("empty.dat", nil, nil)
	require.NoError(t, err)
	_, err = layout.File("名前.txt", []byte("unicode"), nil)
	require.NoError(t, err)
	_, err = a.Root.File("last", []byte{1}, vfs.Attributes{PaddingAttr: uint8(3)})
	require.NoError(t, err)

	b, err := a.Build()
	require.NoError(t, err)
	size, err := a.SizeOf()
	require.NoError(t, err)
	require.Len(t, b, size)

	parsed, err := Parse(b)
	require.NoError(t, err)
	require.True(t, vfs.Equal(a.Root, parsed.Root),
		"want:\n%s\ngot:\n%s", vfs.TreeString(a.Root), vfs.TreeString(parsed.Root))

	again, err := parsed.Build()
	require.NoError(t, err)
	require.Equal(t, b, again, "parsed padding reproduces the layout")
}

func TestBuild_Events(t *testing.T) {
	a := scenario(t)
	var rec event.Recorder
	_, err := a.Build(WithSink(&rec))
	require.NoError(t, err)

	require.Equal(t, []string{EventBuildHeader, EventBuildNode, EventBuildNode, EventBuildNode}, rec.Names())
	nodes := rec.Filter(EventBuildNode)
	require.Equal(t, ".", nodes[0].Payload.(Node).Name)
	require.Equal(t, "a", nodes[1].Payload.(Node).Name)
	file := nodes[2].Payload.(Node)
	require.Equal(t, "b.txt", file.Name)
	require.Equal(t, []byte("hello"), file.Data)
}

func TestBuild_EmptyTree(t *testing.T) {
	a := New()
	size, err := a.SizeOf()
	require.NoError(t, err)
	require.Equal(t, 48, size)

	b, err := a.Build()
	require.NoError(t, err)
	require.Len(t, b, 48)

	parsed, err := Parse(b)
	require.NoError(t, err)
	require.Equal(t, 0, parsed.Root.Len())
}

func TestBuildInto(t *testing.T) {
	a := scenario(t)
	m, err := memory.New(memory.WithEndianness(memory.BE))
	require.NoError(t, err)
	require.NoError(t, m.WriteU32(0xDEADBEEF))

	require.NoError(t, a.BuildInto(m))
	require.Equal(t, memory.BE, m.Endianness(), "byte order is restored")
	require.Equal(t, 4+117, m.Size())
	require.Equal(t, scenarioLE, hex.EncodeToString(m.Bytes()[4:]))
}

func TestBuild_DefaultPadding(t *testing.T) {
	a := scenario(t)
	a.DefaultPadding = 0

	b, err := a.Build()
	require.NoError(t, err)
	require.Len(t, b, 101)
	require.Equal(t, "hello", string(b[96:]))
}

func TestValidate(t *testing.T) {
	require.NoError(t, scenario(t).Validate())

	tests := []struct {
		name  string
		setup func(a *Archive)
	}{
		{"string padding", func(a *Archive) {
			a.Root.Search("a/b.txt").SetAttr(PaddingAttr, "16")
		}},
		{"negative padding", func(a *Archive) {
			a.Root.Search("a/b.txt").SetAttr(PaddingAttr, -1)
		}},
		{"fractional padding", func(a *Archive) {
			a.Root.Search("a/b.txt").SetAttr(PaddingAttr, 1.5)
		}},
		{"padding over u32", func(a *Archive) {
			a.Root.Search("a/b.txt").SetAttr(PaddingAttr, int64(1)<<32)
		}},
		{"empty name", func(a *Archive) {
			_, _ = a.Root.Append(vfs.NewFile("", nil, nil))
		}},
		{"nul in name", func(a *Archive) {
			_, _ = a.Root.Append(vfs.NewFile("a\x00b", nil, nil))
		}},
		{"duplicate name", func(a *Archive) {
			_, _ = a.Root.Append(vfs.NewFile("a", nil, nil), vfs.WithMode(vfs.Force))
		}},
		{"nil root", func(a *Archive) { a.Root = nil }},
		{"bad default padding", func(a *Archive) { a.DefaultPadding = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := scenario(t)
			tt.setup(a)

			require.ErrorIs(t, a.Validate(), ErrInvalidState)

			out, err := a.Build()
			require.Nil(t, out)
			require.ErrorIs(t, err, ErrBuild)
			require.ErrorIs(t, err, ErrInvalidState)
		})
	}

	a := scenario(t)
	a.Root.Search("a/b.txt").SetAttr(PaddingAttr, float64(32))
	require.NoError(t, a.Validate())
}

// patch returns a copy of the scenario archive with b[off:] overwritten.
func patch(t *testing.T, off int, with ...byte) []byte {
	t.Helper()
	b := unhex(t, scenarioLE)
	copy(b[off:], with)
	return b
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  *Error
	}{
		{"empty", nil, ErrNotDARC},
		{"bad magic", patch(t, 0, 'D'), ErrNotDARC},
		{"truncated header", unhex(t, scenarioLE)[:10], ErrUnexpectedEOF},
		{"bad bom", patch(t, 4, 0x12, 0x34), ErrInvalidHeader},
		{"bad version", patch(t, 8, 0, 0, 0, 2), ErrUnsupportedVersion},
		{"bad header size", patch(t, 6, 0x1D), ErrInvalidHeader},
		{"length mismatch", unhex(t, scenarioLE)[:116], ErrInvalidHeader},
		{"table offset", patch(t, 0x10, 0x20), ErrMalformed},
		{"root is a file", patch(t, 0x1C+3, 0), ErrRootNotDirectory},
		{"zero root length", patch(t, 0x1C+8, 0), ErrMalformed},
		{"too many records", patch(t, 0x1C+8, 0xFF), ErrUnexpectedEOF},
		{"name offset drift", patch(t, 0x1C+NodeSize, 6), ErrMalformed},
		{"table length", patch(t, 0x14, 0x3A), ErrMalformed},
		{"data start", patch(t, 0x18, 0x70), ErrMalformed},
		{"dirty alignment", patch(t, 90, 1), ErrMalformed},
		{"dirty padding", patch(t, 100, 1), ErrMalformed},
		{"data offset behind", patch(t, 0x1C+2*NodeSize+4, 0x50), ErrMalformed},
		{"directory overruns parent", patch(t, 0x1C+NodeSize+8, 3), ErrMalformed},
		{"root too short", patch(t, 0x1C+8, 2), ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New()
			_, err := a.Root.File("keep", []byte("me"), nil)
			require.NoError(t, err)
			before := a.Root

			err = a.Parse(tt.input)
			require.ErrorIs(t, err, ErrParse)
			require.ErrorIs(t, err, tt.want)
			require.True(t, types.HasCode(err, tt.want.Code))
			require.Equal(t, CodeParse, types.CodeOf(err))

			require.Same(t, before, a.Root, "failed parse leaves the archive untouched")
			require.Equal(t, 1, a.Root.Len())
		})
	}
}

func TestParse_EOFWrapsCursorError(t *testing.T) {
	_, err := Parse(unhex(t, scenarioLE)[:10])
	var derr *Error
	require.True(t, errors.As(err, &derr))
	require.Equal(t, CodeParse, derr.Code)
	require.True(t, errors.Is(err, memory.ErrOutOfBounds) || errors.Is(err, memory.ErrCountFail))
}

func TestSinkPanic(t *testing.T) {
	boom := event.SinkFunc(func(e event.Event) {
		if e.Name == EventParseList || e.Name == EventBuildNode {
			panic("boom")
		}
	})

	_, err := scenario(t).Build(WithSink(boom))
	require.ErrorIs(t, err, ErrBuild)
	require.ErrorIs(t, err, event.ErrSinkPanic)

	a := New()
	err = a.Parse(unhex(t, scenarioLE), WithSink(boom))
	require.ErrorIs(t, err, ErrParse)
	require.ErrorIs(t, err, event.ErrSinkPanic)
	require.Equal(t, 0, a.Root.Len())
}

func TestEventLogging(t *testing.T) {
	var sb strings.Builder
	logger := newTextLogger(&sb)
	_, err := scenario(t).Build(WithSink(event.Log(logger, -4)))
	require.NoError(t, err)
	out := sb.String()
	require.Contains(t, out, "build.header")
	require.Contains(t, out, "payload.name=b.txt")
	require.NotContains(t, out, "hello", "file data is never logged")
}
