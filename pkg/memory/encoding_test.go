package memory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseEncoding(t *testing.T) {
	cases := map[string]Encoding{
		"UTF-8":      UTF8,
		"utf_16le":   UTF16LE,
		"UTF16BE":    UTF16BE,
		"ucs-2":      UCS2,
		"ISO-8859-1": Latin1,
		"Binary":     Binary,
		"base64url":  Base64URL,
	}
	for in, want := range cases {
		got, err := ParseEncoding(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseEncoding("bogus")
	merr := requireCode(t, err, ErrUnsupportedEncoding)
	require.Equal(t, Encoding("bogus"), merr.Encoding)
}

func TestEncodeDecode(t *testing.T) {
	cases := []struct {
		name  string
		enc   Encoding
		order Endianness
		text  string
		raw   []byte
	}{
		{"utf8", UTF8, LE, "héllo", []byte("héllo")},
		{"utf16 le", UTF16, LE, "hi", []byte{'h', 0, 'i', 0}},
		{"utf16 be", UTF16, BE, "hi", []byte{0, 'h', 0, 'i'}},
		{"ucs2 ignores order", UCS2, BE, "hi", []byte{'h', 0, 'i', 0}},
		{"latin1", Latin1, LE, "é", []byte{0xE9}},
		{"binary", Binary, LE, "ÿ", []byte{0xFF}},
		{"hex", Hex, LE, "cafe", []byte{0xCA, 0xFE}},
		{"base64", Base64, LE, "aGk=", []byte("hi")},
		{"base64url", Base64URL, LE, "-_8", []byte{0xFB, 0xFF}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := Encode(tc.text, tc.enc, tc.order)
			require.NoError(t, err)
			require.Equal(t, tc.raw, raw)
		})
	}

	// Decode is the inverse for the text-valued encodings.
	for _, tc := range cases {
		t.Run("decode "+tc.name, func(t *testing.T) {
			text, err := Decode(tc.raw, tc.enc, tc.order)
			require.NoError(t, err)
			require.Equal(t, tc.text, text)
		})
	}
}

func TestASCIIMasksHighBit(t *testing.T) {
	s, err := Decode([]byte{0xE9}, ASCII, LE)
	require.NoError(t, err)
	require.Equal(t, "i", s)

	b, err := Encode("é", ASCII, LE)
	require.NoError(t, err)
	require.Equal(t, []byte{0x69}, b)
}

func TestEncode_InvalidInput(t *testing.T) {
	_, err := Encode("xyz", Hex, LE)
	requireCode(t, err, ErrInvalidArgument)

	_, err = Encode("!!!", Base64, LE)
	requireCode(t, err, ErrInvalidArgument)

	_, err = Decode(nil, Encoding("ebcdic"), LE)
	requireCode(t, err, ErrUnsupportedEncoding)
}

func TestByteLength(t *testing.T) {
	n, err := ByteLength("abc", UTF16)
	require.NoError(t, err)
	require.Equal(t, 6, n)

	n, err = ByteLength("é", UTF8)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	n, err = ByteLength("cafe", Hex)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestParseEndianness(t *testing.T) {
	e, err := ParseEndianness("Big")
	require.NoError(t, err)
	require.Equal(t, BE, e)

	e, err = ParseEndianness("le")
	require.NoError(t, err)
	require.Equal(t, LE, e)

	_, err = ParseEndianness("middle")
	requireCode(t, err, ErrInvalidArgument)
}

func TestEndiannessText(t *testing.T) {
	b, err := BE.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "BE", string(b))

	var e Endianness
	require.NoError(t, e.UnmarshalText([]byte("little")))
	require.Equal(t, LE, e)
	require.Error(t, e.UnmarshalText([]byte("sideways")))
}
