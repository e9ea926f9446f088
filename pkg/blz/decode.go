package blz

import (
	"github.com/joshuapare/ctrkit/internal/format"
	"github.com/joshuapare/ctrkit/pkg/memory"
)

// Decode unpacks a BLZ stream.
//
// Every failure is returned as an *Error with CodeDecode wrapping the
// cause: ErrBufferTooSmall, ErrBufferTooLarge, ErrNotBLZ, ErrInvalidHeader,
// ErrMalformed or ErrUnexpectedEOF.
func Decode(b []byte) ([]byte, error) {
	in, err := memory.FromBytes(b, memory.WithoutGrowth())
	if err != nil {
		return nil, decodeErr(len(b), err)
	}
	out, err := decode(in)
	if err != nil {
		return nil, decodeErr(len(b), err)
	}
	return out, nil
}

func decode(in *memory.Memory) ([]byte, error) {
	f, err := readFooter(in)
	if err != nil {
		return nil, err
	}
	size := in.Size()
	dec := f.Verbatim(size)

	raw, err := memory.NewSize(f.DecodedSize(size), memory.WithoutGrowth())
	if err != nil {
		return nil, err
	}
	pak, err := in.Subarray(0, size-f.HeaderLen)
	if err != nil {
		return nil, err
	}

	head, err := pak.ReadBytes(dec)
	if err != nil {
		return nil, err
	}
	if err := raw.WriteRaw(memory.Bytes(head)); err != nil {
		return nil, err
	}

	packed, err := pak.Subarray(dec, pak.Size())
	if err != nil {
		return nil, err
	}
	if err := packed.Reverse(); err != nil {
		return nil, err
	}

	var mask, flags uint8
	for !raw.Ended() {
		mask >>= format.BLZShift
		if mask == 0 {
			if flags, err = pak.ReadU8(); err != nil {
				return nil, err
			}
			mask = format.BLZMask
		}

		if flags&mask == 0 {
			lit, err := pak.ReadU8()
			if err != nil {
				return nil, err
			}
			if err := raw.WriteU8(lit); err != nil {
				return nil, err
			}
			continue
		}

		ref, err := pak.ReadU16(memory.InOrder(memory.BE))
		if err != nil {
			return nil, err
		}
		n := int(ref>>12) + format.BLZThreshold + 1
		dist := int(ref&0xFFF) + format.BLZMinDistance
		if raw.Offset()+n > raw.Size() {
			return nil, &Error{Code: CodeMalformed, Msg: "back-reference runs past the end of the output", Size: size, Offset: raw.Offset()}
		}
		if dist > raw.Offset() {
			return nil, &Error{Code: CodeMalformed, Msg: "back-reference reaches before the start of the output", Size: size, Offset: raw.Offset()}
		}
		// Byte by byte: the source may overlap the bytes being written.
		for range n {
			c, err := raw.ByteAt(raw.Offset() - dist)
			if err != nil {
				return nil, err
			}
			if err := raw.WriteU8(c); err != nil {
				return nil, err
			}
		}
	}

	tail, err := raw.Subarray(dec, raw.Size())
	if err != nil {
		return nil, err
	}
	if err := tail.Reverse(); err != nil {
		return nil, err
	}
	return raw.Steal()
}
