// Package memory implements a bounded, growable byte cursor.
//
// A Memory owns a byte buffer (its capacity), a logical size (the bytes
// considered populated) and a read/write offset, with the invariant
// 0 <= offset <= size <= capacity. Every codec in ctrkit reads and writes
// exclusively through this type, so bounds checks, endianness and string
// encoding are decided in one place.
//
// Features:
//   - typed fixed-width numerics: 8/16/24/32/40/48/64-bit integers, float32, float64
//   - raw byte runs with exact counts, limits and padding
//   - terminated or counted strings in UTF-8, UTF-16, Latin-1, ASCII, hex, base64
//   - byte-order-mark detection
//   - lazy allocation and multiplicative growth (or fixed capacity)
//   - scoped repositioning with guaranteed restore (At)
//   - one-shot consumption (Steal), after which every call fails
//
// Reads past the populated size fail with ErrOutOfBounds unless lenient mode
// is enabled, in which case they yield zero values and LastRead reports 0.
//
// A Memory is not safe for concurrent use. Give each goroutine its own.
//
// Example:
//
//	m, _ := memory.New(memory.WithEndianness(memory.BE))
//	_ = m.WriteU16(0xCAFE)
//	_ = m.WriteString("hi", memory.Terminate(memory.NulTerminated))
//	b, _ := m.Steal() // ca fe 68 69 00
package memory
