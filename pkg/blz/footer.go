package blz

import (
	"github.com/joshuapare/ctrkit/internal/format"
	"github.com/joshuapare/ctrkit/pkg/memory"
)

// Footer is the trailing header of a BLZ stream.
type Footer struct {
	// EncodedSize counts the packed region, its padding and the footer.
	EncodedSize int `json:"encoded_size" yaml:"encoded_size"`
	// HeaderLen is the footer plus the 0xFF alignment padding.
	HeaderLen int `json:"header_length" yaml:"header_length"`
	// Increase is how much larger the decoded data is than the stream.
	Increase uint32 `json:"increase" yaml:"increase"`
}

// Verbatim returns the number of bytes stored uncompressed at the start of a
// stream of the given total size.
func (f Footer) Verbatim(total int) int { return total - f.EncodedSize }

// DecodedSize returns the output size for a stream of the given total size.
func (f Footer) DecodedSize(total int) int { return total + int(f.Increase) }

// ReadFooter validates and returns the footer of b without decoding it.
func ReadFooter(b []byte) (Footer, error) {
	in, err := memory.FromBytes(b, memory.WithoutGrowth())
	if err != nil {
		return Footer{}, err
	}
	return readFooter(in)
}

func readFooter(in *memory.Memory) (Footer, error) {
	size := in.Size()
	if size < format.BLZMin {
		return Footer{}, fail(CodeBufferTooSmall, size, "buffer of %d bytes is smaller than %d", size, format.BLZMin)
	}
	if size > format.BLZMax {
		return Footer{}, fail(CodeBufferTooLarge, size, "buffer of %d bytes exceeds 0x%X", size, format.BLZMax)
	}

	inc, err := in.AtU32(-4)
	if err != nil {
		return Footer{}, err
	}
	if inc == 0 {
		return Footer{}, fail(CodeNotBLZ, size, "increase field is zero")
	}
	hdr, err := in.AtU8(-5)
	if err != nil {
		return Footer{}, err
	}
	if hdr < format.BLZHeaderMin || hdr > format.BLZHeaderMax {
		return Footer{}, fail(CodeInvalidHeader, size, "header length %d outside [%d, %d]", hdr, format.BLZHeaderMin, format.BLZHeaderMax)
	}
	enc, err := in.AtU24(-8)
	if err != nil {
		return Footer{}, err
	}
	if int(enc) < int(hdr) || int(enc) > size {
		return Footer{}, fail(CodeInvalidHeader, size, "encoded size %d does not fit header length %d and buffer size %d", enc, hdr, size)
	}

	f := Footer{EncodedSize: int(enc), HeaderLen: int(hdr), Increase: inc}
	if n := f.DecodedSize(size); n > format.BLZRawMax {
		return Footer{}, fail(CodeInvalidHeader, size, "decoded size %d exceeds 0x%X", n, format.BLZRawMax)
	}
	return f, nil
}

// IsCompressed reports whether b carries a plausible BLZ footer.
func IsCompressed(b []byte) bool {
	_, err := ReadFooter(b)
	return err == nil
}

// DecodedSize returns the size Decode would produce for b.
func DecodedSize(b []byte) (int, error) {
	f, err := ReadFooter(b)
	if err != nil {
		return 0, decodeErr(len(b), err)
	}
	return f.DecodedSize(len(b)), nil
}
