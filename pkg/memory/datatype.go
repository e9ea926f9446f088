package memory

import (
	"fmt"
	"math"
	"strings"

	"github.com/joshuapare/ctrkit/internal/format"
)

// DataType tags a fixed-width numeric field.
type DataType string

const (
	I8  DataType = "i8"
	U8  DataType = "u8"
	I16 DataType = "i16"
	U16 DataType = "u16"
	I24 DataType = "i24"
	U24 DataType = "u24"
	F32 DataType = "f32"
	I32 DataType = "i32"
	U32 DataType = "u32"
	I40 DataType = "i40"
	U40 DataType = "u40"
	I48 DataType = "i48"
	U48 DataType = "u48"
	F64 DataType = "f64"
	I64 DataType = "i64"
	U64 DataType = "u64"

	// Raw and Str label raw-run and string accesses in errors.
	Raw DataType = "raw"
	Str DataType = "string"
)

// DataTypes lists every numeric type in width order.
var DataTypes = []DataType{I8, U8, I16, U16, I24, U24, F32, I32, U32, I40, U40, I48, U48, F64, I64, U64}

var sizes = map[DataType]int{
	I8: 1, U8: 1,
	I16: 2, U16: 2,
	I24: 3, U24: 3,
	F32: 4, I32: 4, U32: 4,
	I40: 5, U40: 5,
	I48: 6, U48: 6,
	F64: 8, I64: 8, U64: 8,
}

// Range is the inclusive set of values a DataType can hold. Integer bounds
// are int64 (signed types) or uint64 (unsigned types); float bounds are
// float64.
type Range struct {
	Min any
	Max any
}

func (r Range) String() string { return fmt.Sprintf("[%v, %v]", r.Min, r.Max) }

var ranges = map[DataType]Range{
	I8:  {int64(math.MinInt8), int64(math.MaxInt8)},
	U8:  {uint64(0), uint64(math.MaxUint8)},
	I16: {int64(math.MinInt16), int64(math.MaxInt16)},
	U16: {uint64(0), uint64(math.MaxUint16)},
	I24: {int64(-1 << 23), int64(1<<23 - 1)},
	U24: {uint64(0), uint64(1<<24 - 1)},
	F32: {-math.MaxFloat32, math.MaxFloat32},
	I32: {int64(math.MinInt32), int64(math.MaxInt32)},
	U32: {uint64(0), uint64(math.MaxUint32)},
	I40: {int64(-1 << 39), int64(1<<39 - 1)},
	U40: {uint64(0), uint64(1<<40 - 1)},
	I48: {int64(-1 << 47), int64(1<<47 - 1)},
	U48: {uint64(0), uint64(1<<48 - 1)},
	F64: {-math.MaxFloat64, math.MaxFloat64},
	I64: {int64(math.MinInt64), int64(math.MaxInt64)},
	U64: {uint64(0), uint64(math.MaxUint64)},
}

// ParseDataType resolves a tag such as "u24" (any case).
func ParseDataType(s string) (DataType, error) {
	dt := DataType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := sizes[dt]; !ok {
		return "", &Error{Code: CodeInvalidArgument, Msg: fmt.Sprintf("unknown datatype %q", s), Value: s}
	}
	return dt, nil
}

// SizeOf returns the width of dt in bytes, or 0 for unknown types.
func SizeOf(dt DataType) int { return sizes[dt] }

// RangeOf returns the legal values of dt.
func RangeOf(dt DataType) Range { return ranges[dt] }

// Signed reports whether dt is a signed integer type.
func (dt DataType) Signed() bool {
	return dt != "" && dt[0] == 'i'
}

// Float reports whether dt is a floating-point type.
func (dt DataType) Float() bool { return dt == F32 || dt == F64 }

// Bits returns the width of dt in bits.
func (dt DataType) Bits() int { return sizes[dt] * 8 }

// Align rounds offset up to a multiple of alignment.
func Align(offset, alignment int) int { return format.Align(offset, alignment) }
