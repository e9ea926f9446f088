// Package format holds the bit-exact layout constants of the DARC and BLZ
// formats.
package format

// DARC archive layout.
var (
	// DARCMagic is the four-byte signature at the start of every archive.
	// Layout:
	//   0x00  'd' 'a' 'r' 'c'
	DARCMagic = []byte{'d', 'a', 'r', 'c'}
)

const (
	// DARCHeaderSize is the size of the archive header in bytes. It is also
	// the only valid table offset, since the node table follows the header
	// immediately.
	//
	// Layout (endianness selected by the BOM):
	//   0x00  magic[4]
	//   0x04  bom u16
	//   0x06  header size u16
	//   0x08  version (micro, patch, minor, major)
	//   0x0C  file length u32
	//   0x10  table offset u32
	//   0x14  table length u32
	//   0x18  data start offset u32
	DARCHeaderSize = 0x1C

	// DARCNodeSize is the size of one node record.
	//
	// Layout:
	//   0x00  name offset u24 (relative to the name blob)
	//   0x03  is directory u8
	//   0x04  data offset u32 (absolute; 0 for directories)
	//   0x08  length u32 (byte length, or subtree node count for directories)
	DARCNodeSize = 0x0C

	// DARCAlignment is the alignment of the data region and every file block.
	DARCAlignment = 0x10

	// DARCDefaultPadding is the number of zero bytes placed before a file's
	// data when the file carries no padding attribute.
	DARCDefaultPadding = 0x10

	// DARCVersion is the only archive revision understood by the codec.
	DARCVersion = "1.0.0.0"

	// DARCRootName is the name written for the synthetic root directory.
	DARCRootName = "."

	// DARCMaxNameOffset is the largest name offset a u24 field can hold.
	DARCMaxNameOffset = 0xFFFFFF
)

// BLZ compression layout.
const (
	// BLZShift is how far the flag mask moves per operation.
	BLZShift = 1
	// BLZMask is the initial flag mask (most significant bit first).
	BLZMask = 0x80
	// BLZThreshold is the longest match that is still stored as literals.
	BLZThreshold = 2

	// BLZHeaderMin and BLZHeaderMax bound the footer length byte. The footer
	// is 8 bytes plus up to 3 bytes of 0xFF alignment filler.
	BLZHeaderMin = 0x08
	BLZHeaderMax = 0x0B

	// BLZMin and BLZMax bound the size of a compressed stream.
	BLZMin = 0x00000008
	BLZMax = 0x01400000

	// BLZRawMax is the largest decoded size the 24-bit fields can describe.
	BLZRawMax = 0x00FFFFFF

	// BLZWindow is the farthest distance a back-reference may reach.
	BLZWindow = 0x1002
	// BLZMaxMatch is the longest run a single back-reference can encode.
	BLZMaxMatch = 0x12
	// BLZMinDistance is the nearest distance a back-reference may reach.
	BLZMinDistance = 3

	// BLZFooterSize is the size of the trailing enc/hdr/inc fields.
	BLZFooterSize = 8
)
