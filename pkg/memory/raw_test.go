package memory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadRaw(t *testing.T) {
	m := mustBytes(t, []byte{1, 2, 3, 4, 5}, WithEndianness(BE))

	head, err := m.ReadRaw(Limit(2))
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, head.Bytes())
	require.Equal(t, BE, head.Endianness())
	require.Equal(t, 2, m.LastRead())

	rest, err := m.ReadRaw()
	require.NoError(t, err)
	require.Equal(t, []byte{3, 4, 5}, rest.Bytes())
	require.True(t, m.Ended())

	// The copy is independent.
	require.NoError(t, rest.SetByteAt(0, 9))
	require.Equal(t, []byte{1, 2, 3, 4, 5}, m.Bytes())
}

func TestReadRaw_CountMismatch(t *testing.T) {
	m := mustBytes(t, []byte{1, 2, 3})

	_, err := m.ReadRaw(Count(5))
	merr := requireCode(t, err, ErrCountFail)
	require.Equal(t, 5, merr.Count)
	require.Equal(t, 3, merr.Actual)

	_, err = m.ReadBytes(1)
	merr = requireCode(t, err, ErrCountFail)
	require.Equal(t, 0, merr.Actual)
}

func TestReadRaw_AtEnd(t *testing.T) {
	m := mustBytes(t, []byte{1})
	require.NoError(t, m.Seek(1))

	_, err := m.ReadRaw()
	requireCode(t, err, ErrOutOfBounds)

	empty, err := m.ReadRaw(Lenient())
	require.NoError(t, err)
	require.Equal(t, 0, empty.Size())

	// Zero-length reads succeed anywhere.
	b, err := m.ReadBytes(0)
	require.NoError(t, err)
	require.Empty(t, b)
	require.Equal(t, 0, m.LastRead())
}

func TestWriteRaw_Sources(t *testing.T) {
	m, err := New(WithEncoding(UTF16LE))
	require.NoError(t, err)

	require.NoError(t, m.WriteRaw(Bytes{0xAA}))
	require.NoError(t, m.WriteRaw(Byte(0xBB)))
	require.NoError(t, m.WriteRaw(Text("ab")))
	require.Equal(t, []byte{0xAA, 0xBB, 0x61, 0x00, 0x62, 0x00}, m.Bytes())

	// Writing a cursor into itself appends a snapshot.
	require.NoError(t, m.WriteRaw(m, Limit(2)))
	require.Equal(t, []byte{0xAA, 0xBB, 0x61, 0x00, 0x62, 0x00, 0xAA, 0xBB}, m.Bytes())
}

func TestWriteRaw_CountAndPadding(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	require.NoError(t, m.WriteRaw(Bytes{1, 2}, Count(5), PadWith(Byte(0xFF))))
	require.Equal(t, []byte{1, 2, 0xFF, 0xFF, 0xFF}, m.Bytes())
	require.Equal(t, 5, m.LastWritten())

	require.NoError(t, m.WriteRaw(Bytes{3}, Count(4), PadWith(Bytes{0xA, 0xB})))
	require.Equal(t, []byte{1, 2, 0xFF, 0xFF, 0xFF, 3, 0xA, 0xB, 0xA}, m.Bytes())

	err = m.WriteRaw(Bytes{1, 2}, Count(5))
	merr := requireCode(t, err, ErrCountFail)
	require.Equal(t, 5, merr.Count)
	require.Equal(t, 2, merr.Actual)
}

func TestWriteRaw_Truncation(t *testing.T) {
	m, err := NewSize(3, WithoutGrowth())
	require.NoError(t, err)
	require.NoError(t, m.Seek(1))

	require.NoError(t, m.WriteRaw(Bytes{7, 8, 9}))
	require.Equal(t, []byte{0, 7, 8}, m.Bytes())
	require.Equal(t, 2, m.LastWritten())

	require.NoError(t, m.Seek(1))
	requireCode(t, m.WriteRaw(Bytes{7, 8, 9}, Full()), ErrOutOfBounds)
	requireCode(t, m.WriteRaw(Bytes{7, 8, 9}, Count(3)), ErrCountFail)
}

func TestPad(t *testing.T) {
	m, err := New()
	require.NoError(t, err)
	require.NoError(t, m.WriteU8(1))
	require.NoError(t, m.Pad(0, Align(m.Offset(), 4)-m.Offset()))
	require.Equal(t, []byte{1, 0, 0, 0}, m.Bytes())

	require.NoError(t, m.Pad(0xCC, 0))
	require.Equal(t, 4, m.Size())

	requireCode(t, m.Pad(0, -1), ErrInvalidArgument)
}
