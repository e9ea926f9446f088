package memory

import "fmt"

// BOMKind selects the width of a byte-order mark.
type BOMKind uint8

const (
	BOM16 BOMKind = 2
	BOM32 BOMKind = 4
)

// Byte-order-mark values as read in big-endian field order.
const (
	BOMBigEndian    = 0xFEFF
	BOMLittleEndian = 0xFFFE
)

func (k BOMKind) dataType() (DataType, bool) {
	switch k {
	case BOM16:
		return U16, true
	case BOM32:
		return U32, true
	}
	return "", false
}

// ReadBOM reads a byte-order mark in big-endian field order regardless of
// the cursor's endianness and returns the order it announces. The caller
// decides whether to apply it with SetEndianness.
func (m *Memory) ReadBOM(kind BOMKind, opts ...CallOption) (Endianness, error) {
	dt, ok := kind.dataType()
	if !ok {
		return LE, m.invalid("unknown BOM kind %d", kind)
	}
	mark, err := m.readBits(dt, append(opts, InOrder(BE)))
	if err != nil {
		return LE, err
	}
	switch mark {
	case BOMBigEndian:
		return BE, nil
	case BOMLittleEndian:
		return LE, nil
	}
	return LE, &Error{
		Code:     CodeInvalidArgument,
		Msg:      fmt.Sprintf("unknown byte-order mark 0x%X", mark),
		DataType: dt,
		Value:    mark,
		Offset:   m.offset - SizeOf(dt),
		Size:     m.size,
	}
}

// WriteBOM writes the mark announcing order in big-endian field order.
func (m *Memory) WriteBOM(kind BOMKind, order Endianness, opts ...CallOption) error {
	dt, ok := kind.dataType()
	if !ok {
		return m.invalid("unknown BOM kind %d", kind)
	}
	mark := uint64(BOMLittleEndian)
	if order == BE {
		mark = BOMBigEndian
	}
	return m.writeUnsigned(dt, mark, append(opts, InOrder(BE)))
}
