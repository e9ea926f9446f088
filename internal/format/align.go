package format

// Alignment utilities for the container formats.

const (
	// Align4Mask and Align16Mask are the low-bit masks used to round up.
	Align4Mask  = 0x3
	Align16Mask = DARCAlignment - 1
)

// Align returns n rounded up to the next multiple of alignment.
// An alignment of 0 or 1 leaves n unchanged.
//
// Example:
//
//	Align(1, 16)  = 16
//	Align(16, 16) = 16
//	Align(17, 16) = 32
//	Align(5, 3)   = 6
func Align(n, alignment int) int {
	if alignment <= 1 {
		return n
	}
	if rem := n % alignment; rem != 0 {
		return n + alignment - rem
	}
	return n
}

// Align16 returns n aligned up to the next 16-byte boundary.
// Used for DARC data blocks.
//
// Example:
//
//	Align16(0)  = 0
//	Align16(1)  = 16
//	Align16(16) = 16
//	Align16(17) = 32
func Align16(n int) int {
	return (n + Align16Mask) & ^Align16Mask
}

// Align4 returns n aligned up to the next 4-byte boundary.
// Used for the BLZ footer.
func Align4(n int) int {
	return (n + Align4Mask) & ^Align4Mask
}
