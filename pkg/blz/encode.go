package blz

import (
	"github.com/joshuapare/ctrkit/internal/format"
	"github.com/joshuapare/ctrkit/pkg/memory"
)

// Encode packs b into a BLZ stream, or into a stored file when packing
// would not make it smaller (see the package documentation).
//
// Every failure is returned as an *Error with CodeEncode wrapping the cause.
func Encode(b []byte) ([]byte, error) {
	raw, err := memory.FromBytes(b, memory.WithoutGrowth())
	if err != nil {
		return nil, encodeErr(len(b), err)
	}
	out, err := encode(raw)
	if err != nil {
		return nil, encodeErr(len(b), err)
	}
	return out, nil
}

// flagger owns the flag byte currently being filled.
type flagger struct {
	pak *memory.Memory
	at  int
}

func (f *flagger) shift(bit uint8) error {
	v, err := f.pak.ByteAt(f.at)
	if err != nil {
		return err
	}
	return f.pak.SetByteAt(f.at, v<<1|bit)
}

func encode(raw *memory.Memory) ([]byte, error) {
	n := raw.Size()
	if n > format.BLZRawMax {
		return nil, fail(CodeBufferTooLarge, n, "input of %d bytes exceeds 0x%X", n, format.BLZRawMax)
	}

	// Worst case: every byte a literal plus one flag byte per eight.
	pak, err := memory.NewSize(n+(n+7)/8+11, memory.WithoutGrowth())
	if err != nil {
		return nil, err
	}
	if err := raw.Reverse(); err != nil {
		return nil, err
	}

	// Best cutover seen so far: packed bytes, then raw bytes still to store.
	paktmp, rawtmp := 0, n
	flags := flagger{pak: pak}
	var mask uint8

	for !raw.Ended() {
		mask >>= format.BLZShift
		if mask == 0 {
			flags.at = pak.Offset()
			if err := pak.WriteU8(0); err != nil {
				return nil, err
			}
			mask = format.BLZMask
		}

		length, dist := search(raw)
		if length > format.BLZThreshold {
			if err := flags.shift(1); err != nil {
				return nil, err
			}
			if err := raw.Skip(length); err != nil {
				return nil, err
			}
			ref := uint16(length-(format.BLZThreshold+1))<<12 | uint16(dist-format.BLZMinDistance)
			if err := pak.WriteU16(ref, memory.InOrder(memory.BE)); err != nil {
				return nil, err
			}
		} else {
			if err := flags.shift(0); err != nil {
				return nil, err
			}
			lit, err := raw.ReadU8()
			if err != nil {
				return nil, err
			}
			if err := pak.WriteU8(lit); err != nil {
				return nil, err
			}
		}

		if pak.Offset()+raw.Remaining() < paktmp+rawtmp {
			paktmp = pak.Offset()
			rawtmp = raw.Remaining()
		}
	}

	// Left-align the bits of a partial final flag byte.
	for mask != 0 && mask != 1 {
		mask >>= format.BLZShift
		if err := flags.shift(0); err != nil {
			return nil, err
		}
	}

	pakEnd := pak.Offset()
	if err := raw.Reverse(); err != nil {
		return nil, err
	}
	packed, err := pak.Subarray(0, pakEnd)
	if err != nil {
		return nil, err
	}
	if err := packed.Reverse(); err != nil {
		return nil, err
	}

	if paktmp == 0 || n+4 < format.Align4(paktmp+rawtmp)+format.BLZFooterSize {
		return store(raw, pak)
	}

	out, err := memory.NewSize(rawtmp+paktmp+11, memory.WithoutGrowth())
	if err != nil {
		return nil, err
	}
	head, err := raw.Slice(0, rawtmp)
	if err != nil {
		return nil, err
	}
	if err := out.WriteRaw(head); err != nil {
		return nil, err
	}
	body, err := pak.Subarray(pakEnd-paktmp, pakEnd)
	if err != nil {
		return nil, err
	}
	if err := out.WriteRaw(body); err != nil {
		return nil, err
	}

	hdr := format.BLZFooterSize
	for out.Offset()&3 != 0 {
		if err := out.WriteU8(0xFF); err != nil {
			return nil, err
		}
		hdr++
	}

	// A header that eats the whole gain cannot be described by a positive
	// increase; such inputs are stored instead.
	inc := n - paktmp - rawtmp - hdr
	if inc <= 0 {
		return store(raw, pak)
	}

	if err := out.WriteU24(uint32(paktmp + hdr)); err != nil {
		return nil, err
	}
	if err := out.WriteU8(uint8(hdr)); err != nil {
		return nil, err
	}
	if err := out.WriteU32(uint32(inc)); err != nil {
		return nil, err
	}
	if err := out.Reallocate(out.Offset()); err != nil {
		return nil, err
	}
	return out.Steal()
}

// store writes raw verbatim into pak, zero-pads it to 4 bytes and appends a
// zero increase.
func store(raw, pak *memory.Memory) ([]byte, error) {
	if err := pak.Seek(0); err != nil {
		return nil, err
	}
	if err := raw.Seek(0); err != nil {
		return nil, err
	}
	if err := pak.WriteRaw(raw); err != nil {
		return nil, err
	}
	if err := pak.Pad(0, format.Align4(pak.Offset())-pak.Offset()); err != nil {
		return nil, err
	}
	if err := pak.WriteU32(0); err != nil {
		return nil, err
	}
	if err := pak.Reallocate(pak.Offset()); err != nil {
		return nil, err
	}
	return pak.Steal()
}

// search finds the longest earlier run matching the bytes at raw's offset.
// Distances are tried nearest first and only a strictly longer run replaces
// the best, so ties keep the smallest distance. A length of at most
// BLZThreshold means no usable match.
func search(raw *memory.Memory) (length, dist int) {
	b := raw.Bytes()
	pos := raw.Offset()
	length = format.BLZThreshold

	limit := min(pos, format.BLZWindow)
	for d := format.BLZMinDistance; d <= limit; d++ {
		run := 0
		for run < format.BLZMaxMatch && run < d && pos+run < len(b) && b[pos+run] == b[pos+run-d] {
			run++
		}
		if run > length {
			length, dist = run, d
			if length == format.BLZMaxMatch {
				break
			}
		}
	}
	return length, dist
}
