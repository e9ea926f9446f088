package memory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestString_NulTerminated(t *testing.T) {
	m, err := New()
	require.NoError(t, err)
	require.NoError(t, m.WriteString("hello", Terminate(NulTerminated)))
	require.Equal(t, 6, m.LastWritten())
	require.NoError(t, m.WriteString("x", Terminate(NulTerminated)))

	require.NoError(t, m.Seek(0))
	s, err := m.ReadString(Terminate(NulTerminated))
	require.NoError(t, err)
	require.Equal(t, "hello", s)
	require.Equal(t, 6, m.Offset())
	require.Equal(t, 6, m.LastRead())

	s, err = m.ReadString(Terminate(NulTerminated))
	require.NoError(t, err)
	require.Equal(t, "x", s)
	require.True(t, m.Ended())
}

func TestString_ConfiguredTerminator(t *testing.T) {
	m, err := FromString("a|b|", WithTerminator(TerminatedBy("|")))
	require.NoError(t, err)
	require.Equal(t, "a|b||", string(m.Bytes()))

	s, err := m.ReadString()
	require.NoError(t, err)
	require.Equal(t, "a", s)

	s, err = m.ReadString()
	require.NoError(t, err)
	require.Equal(t, "b", s)
}

func TestString_Unterminated(t *testing.T) {
	m, err := FromString("abc")
	require.NoError(t, err)

	_, err = m.ReadString()
	requireCode(t, err, ErrInvalidArgument)
	require.Equal(t, 0, m.Offset())

	s, err := m.ReadString(Count(3))
	require.NoError(t, err)
	require.Equal(t, "abc", s)
}

func TestString_MissingTerminatorReadsToEnd(t *testing.T) {
	m, err := FromString("abc")
	require.NoError(t, err)

	s, err := m.ReadString(Terminate(NulTerminated))
	require.NoError(t, err)
	require.Equal(t, "abc", s)
	require.True(t, m.Ended())

	_, err = m.ReadString(Terminate(NulTerminated))
	requireCode(t, err, ErrOutOfBounds)

	s, err = m.ReadString(Terminate(NulTerminated), Lenient())
	require.NoError(t, err)
	require.Empty(t, s)
}

func TestString_UTF16AlignedTerminator(t *testing.T) {
	// "Āa" in UTF-16LE is 00 01 61 00, so the first 00 00 pair starts
	// at an odd offset and must be skipped.
	m := mustBytes(t, []byte{0x00, 0x01, 0x61, 0x00, 0x00, 0x00}, WithEncoding(UTF16LE))

	s, err := m.ReadString(Terminate(NulTerminated))
	require.NoError(t, err)
	require.Equal(t, "Āa", s)
	require.Equal(t, 6, m.Offset())
}

func TestString_UTF16FollowsOrder(t *testing.T) {
	m, err := New(WithEncoding(UTF16), WithEndianness(BE))
	require.NoError(t, err)
	require.NoError(t, m.WriteString("hi", Terminate(NulTerminated)))
	require.Equal(t, []byte{0x00, 'h', 0x00, 'i', 0x00, 0x00}, m.Bytes())

	require.NoError(t, m.Seek(0))
	s, err := m.ReadString(Terminate(NulTerminated), InOrder(BE))
	require.NoError(t, err)
	require.Equal(t, "hi", s)
}

func TestString_Stripping(t *testing.T) {
	m, err := FromString("abc\x00\x00")
	require.NoError(t, err)

	s, err := m.ReadString(Count(5))
	require.NoError(t, err)
	require.Equal(t, "abc", s)

	require.NoError(t, m.Seek(0))
	s, err = m.ReadString(Count(5), NoStrip())
	require.NoError(t, err)
	require.Equal(t, "abc\x00\x00", s)

	padded, err := FromString("ab  ")
	require.NoError(t, err)
	s, err = padded.ReadString(Count(4), StripSuffix(" "))
	require.NoError(t, err)
	require.Equal(t, "ab", s)
}

func TestString_ChunksAndLimit(t *testing.T) {
	m, err := FromString("abcdef\x00")
	require.NoError(t, err)

	s, err := m.ReadString(Terminate(NulTerminated), Chunks(2))
	require.NoError(t, err)
	require.Equal(t, "abcdef", s)
	require.True(t, m.Ended())

	require.NoError(t, m.Seek(0))
	s, err = m.ReadString(Terminate(NulTerminated), Limit(3))
	require.NoError(t, err)
	require.Equal(t, "abc", s)
	require.Equal(t, 3, m.Offset())
}

func TestString_CountMismatch(t *testing.T) {
	m, err := FromString("ab")
	require.NoError(t, err)

	_, err = m.ReadString(Count(4))
	merr := requireCode(t, err, ErrCountFail)
	require.Equal(t, 2, merr.Actual)

	s, err := m.ReadString(Count(0))
	require.NoError(t, err)
	require.Empty(t, s)
}

func TestWriteString_LimitAndPadding(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	require.NoError(t, m.WriteString("abcdef", Terminate(NulTerminated), Limit(4)))
	require.Equal(t, "abc\x00", string(m.Bytes()))

	require.NoError(t, m.WriteString("ab", Count(4), PadWith(Byte(0))))
	require.Equal(t, "abc\x00ab\x00\x00", string(m.Bytes()))

	requireCode(t, m.WriteString("ab", InEncoding("ebcdic")), ErrUnsupportedEncoding)
}

func TestBOM(t *testing.T) {
	cases := []struct {
		kind  BOMKind
		order Endianness
		want  []byte
	}{
		{BOM16, LE, []byte{0xFF, 0xFE}},
		{BOM16, BE, []byte{0xFE, 0xFF}},
		{BOM32, LE, []byte{0x00, 0x00, 0xFF, 0xFE}},
		{BOM32, BE, []byte{0x00, 0x00, 0xFE, 0xFF}},
	}
	for _, tc := range cases {
		t.Run(tc.order.String(), func(t *testing.T) {
			// The cursor's own order must not affect the mark.
			m, err := New(WithEndianness(LE))
			require.NoError(t, err)
			require.NoError(t, m.WriteBOM(tc.kind, tc.order))
			require.Equal(t, tc.want, m.Bytes())

			require.NoError(t, m.Seek(0))
			got, err := m.ReadBOM(tc.kind)
			require.NoError(t, err)
			require.Equal(t, tc.order, got)
		})
	}

	bad := mustBytes(t, []byte{0x12, 0x34})
	_, err := bad.ReadBOM(BOM16)
	requireCode(t, err, ErrInvalidArgument)

	_, err = bad.ReadBOM(BOMKind(3))
	requireCode(t, err, ErrInvalidArgument)
}
