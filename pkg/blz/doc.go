// Package blz implements the bottom-up LZ ("BLZ") compression used for
// console executables and overlays.
//
// # Overview
//
// A BLZ stream is packed back to front: the encoder reverses its input,
// emits flag-driven literals and back-references, then reverses the packed
// bytes again so the decoder can work from the end of the file towards its
// start. The untouched head of the input is stored verbatim in front of the
// packed region.
//
// # Layout
//
//	[raw head][packed region][0xFF pad to 4][footer]
//
// The 8-byte footer is little-endian:
//
//	offset -8  u24  encoded size (packed region + pad + footer)
//	offset -5  u8   header length (8 + pad, 8..11)
//	offset -4  u32  increase (decoded size - encoded file size)
//
// Inside the packed region every flag byte covers the next eight operations,
// most significant bit first. A set bit is a two-byte back-reference
// (big-endian, 4 bits length-3 and 12 bits distance-3); a clear bit is one
// literal byte.
//
// # Stored Files
//
// When packing does not pay for the footer the encoder stores the input as
// is, pads it with zeros to a multiple of 4 and appends a zero increase.
// Such files are not BLZ streams: Decode rejects them with ErrNotBLZ, so
// Decode(Encode(x)) fails whenever Encode chose to store. Callers holding
// bytes of unknown origin check IsCompressed first and use the bytes as
// they are when it reports false:
//
//	if blz.IsCompressed(data) {
//	    data, err = blz.Decode(data)
//	}
//
// Stored bytes still carry the zero padding and the 4-byte footer; callers
// that know the original length trim to it. Encode also stores when the
// packed body and footer would leave no positive increase.
//
// # Usage
//
//	packed, err := blz.Encode(data)
//	if err != nil {
//	    return err
//	}
//	data, err = blz.Decode(packed)
//
// Both functions copy their input; the caller's slice is never modified.
package blz
