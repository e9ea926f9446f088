package buf

import (
	"fmt"
	"math"
)

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// GrowTarget returns the capacity a buffer of capacity cur should grow to in
// order to hold need bytes: max(need, ceil(cur*factor)). A factor below 1
// yields exactly need.
//
// Example:
//
//	GrowTarget(10, 11, 1.5) = 15
//	GrowTarget(10, 40, 1.5) = 40
//	GrowTarget(0, 4, 1.5)   = 4
func GrowTarget(cur, need int, factor float64) int {
	if factor < 1 || cur <= 0 {
		return need
	}
	scaled := math.Ceil(float64(cur) * factor)
	if scaled >= math.MaxInt {
		return need
	}
	return max(need, int(scaled))
}

// CheckRange validates that n bytes starting at offset fit within a region
// of length size. Returns the end offset if valid, or an error describing
// the failure (negative input, overflow or out of bounds).
//
//	end, err := buf.CheckRange(size, off, width)
//	if err != nil {
//	    return fmt.Errorf("read: %w", err)
//	}
func CheckRange(size, offset, n int) (int, error) {
	if offset < 0 {
		return 0, fmt.Errorf("negative offset: %d", offset)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative length: %d", n)
	}
	end, ok := AddOverflowSafe(offset, n)
	if !ok {
		return 0, fmt.Errorf("overflow: offset=%d + size=%d", offset, n)
	}
	if end > size {
		return 0, fmt.Errorf("bounds: end=%d > len=%d", end, size)
	}
	return end, nil
}

// Slice returns the sub-slice [off:off+n] if it fits within len(b).
func Slice(b []byte, off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off > len(b) {
		return nil, false
	}
	end, ok := AddOverflowSafe(off, n)
	if !ok || end > len(b) {
		return nil, false
	}
	return b[off:end], true
}

// Has reports whether b[off:off+n] is within bounds.
func Has(b []byte, off, n int) bool {
	_, ok := Slice(b, off, n)
	return ok
}
