package memory

import (
	"encoding/base64"
	"encoding/hex"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding names a character encoding for string access.
type Encoding string

const (
	UTF8    Encoding = "utf8"
	UTF16   Encoding = "utf16" // UTF-16 in the cursor's byte order
	UTF16LE Encoding = "utf16le"
	UTF16BE Encoding = "utf16be"
	UCS2    Encoding = "ucs2" // alias of utf16le
	Latin1  Encoding = "latin1"
	Binary  Encoding = "binary" // alias of latin1
	ASCII   Encoding = "ascii"
	Hex     Encoding = "hex"
	Base64  Encoding = "base64"
	// Base64URL is the URL-safe alphabet without padding.
	Base64URL Encoding = "base64url"
)

var encodings = map[string]Encoding{
	"utf8":      UTF8,
	"utf16":     UTF16,
	"utf16le":   UTF16LE,
	"utf16be":   UTF16BE,
	"ucs2":      UCS2,
	"latin1":    Latin1,
	"iso88591":  Latin1,
	"binary":    Binary,
	"ascii":     ASCII,
	"hex":       Hex,
	"base64":    Base64,
	"base64url": Base64URL,
}

// ParseEncoding resolves an encoding name, ignoring case, dashes and
// underscores ("UTF-16LE", "utf_16le" and "utf16le" are the same).
func ParseEncoding(s string) (Encoding, error) {
	key := strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', ' ':
			return -1
		}
		return r
	}, strings.ToLower(s))
	if enc, ok := encodings[key]; ok {
		return enc, nil
	}
	return "", errEncoding(Encoding(s))
}

// resolve maps aliases and the byte-order-dependent utf16 to a concrete
// encoding.
func (enc Encoding) resolve(order Endianness) (Encoding, error) {
	parsed, err := ParseEncoding(string(enc))
	if err != nil {
		return "", err
	}
	switch parsed {
	case UTF16:
		if order == BE {
			return UTF16BE, nil
		}
		return UTF16LE, nil
	case UCS2:
		return UTF16LE, nil
	case Binary:
		return Latin1, nil
	}
	return parsed, nil
}

// unit returns the code unit width used to align terminator scans.
func (enc Encoding) unit() int {
	if enc == UTF16LE || enc == UTF16BE {
		return 2
	}
	return 1
}

func utf16For(enc Encoding) encoding.Encoding {
	if enc == UTF16BE {
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	}
	return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
}

// Encode converts s to bytes. The utf16 encoding follows order.
func Encode(s string, enc Encoding, order Endianness) ([]byte, error) {
	enc, err := enc.resolve(order)
	if err != nil {
		return nil, err
	}
	switch enc {
	case UTF8:
		return []byte(s), nil
	case UTF16LE, UTF16BE:
		return utf16For(enc).NewEncoder().Bytes([]byte(s))
	case Latin1:
		return encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()).Bytes([]byte(s))
	case ASCII:
		b, err := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()).Bytes([]byte(s))
		if err != nil {
			return nil, err
		}
		for i := range b {
			b[i] &= 0x7F
		}
		return b, nil
	case Hex:
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, &Error{Code: CodeInvalidArgument, Msg: "invalid hex string", Encoding: enc, Value: s, Err: err}
		}
		return b, nil
	case Base64, Base64URL:
		return decodeBase64(s, enc)
	}
	return nil, errEncoding(enc)
}

func decodeBase64(s string, enc Encoding) ([]byte, error) {
	s = strings.TrimSpace(s)
	for _, e := range []*base64.Encoding{
		base64.StdEncoding, base64.RawStdEncoding,
		base64.URLEncoding, base64.RawURLEncoding,
	} {
		if b, err := e.DecodeString(s); err == nil {
			return b, nil
		}
	}
	return nil, &Error{Code: CodeInvalidArgument, Msg: "invalid base64 string", Encoding: enc, Value: s}
}

// Decode converts b to a string. The utf16 encoding follows order.
func Decode(b []byte, enc Encoding, order Endianness) (string, error) {
	enc, err := enc.resolve(order)
	if err != nil {
		return "", err
	}
	switch enc {
	case UTF8:
		return string(b), nil
	case UTF16LE, UTF16BE:
		out, err := utf16For(enc).NewDecoder().Bytes(b)
		if err != nil {
			return "", err
		}
		return string(out), nil
	case Latin1:
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
		if err != nil {
			return "", err
		}
		return string(out), nil
	case ASCII:
		var sb strings.Builder
		sb.Grow(len(b))
		for _, c := range b {
			sb.WriteByte(c & 0x7F)
		}
		return sb.String(), nil
	case Hex:
		return hex.EncodeToString(b), nil
	case Base64:
		return base64.StdEncoding.EncodeToString(b), nil
	case Base64URL:
		return base64.RawURLEncoding.EncodeToString(b), nil
	}
	return "", errEncoding(enc)
}

// ByteLength returns the encoded size of s. utf16 is measured as UTF-16LE;
// both byte orders have the same length.
func ByteLength(s string, enc Encoding) (int, error) {
	b, err := Encode(s, enc, LE)
	if err != nil {
		return 0, err
	}
	return len(b), nil
}
