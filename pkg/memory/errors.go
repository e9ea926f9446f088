package memory

import (
	"fmt"

	"github.com/joshuapare/ctrkit/pkg/types"
)

// Error codes returned by cursor operations.
const (
	CodeCountFail           types.Code = "memory.count_fail"
	CodeDeallocated         types.Code = "memory.deallocated"
	CodeOutOfRange          types.Code = "memory.out_of_range"
	CodeOutOfMemory         types.Code = "memory.out_of_memory"
	CodeOutOfBounds         types.Code = "memory.out_of_bounds"
	CodeInvalidArgument     types.Code = "memory.invalid_argument"
	CodeUnsupportedEncoding types.Code = "memory.unsupported_encoding"
)

// Action names the kind of access that failed.
type Action string

const (
	ActionRead  Action = "read"
	ActionWrite Action = "write"
	ActionSeek  Action = "seek"
)

// Error is the single error type produced by this package. Which metadata
// fields are meaningful depends on Code:
//
//	out_of_bounds         Action, DataType, Offset
//	out_of_range          DataType, Range, Value
//	count_fail            Action, Count, Actual
//	unsupported_encoding  Encoding
//
// Size is a snapshot of the cursor's populated size when the error occurred.
type Error struct {
	Code     types.Code
	Msg      string
	Action   Action
	Offset   int
	DataType DataType
	Range    *Range
	Value    any
	Count    int
	Actual   int
	Encoding Encoding
	Size     int
	Err      error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := "memory: " + e.Msg
	if e.Msg == "" {
		msg = string(e.Code)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorCode implements types.Coded.
func (e *Error) ErrorCode() types.Code { return e.Code }

// Is matches sentinels by code.
func (e *Error) Is(target error) bool { return e != nil && types.Match(e.Code, target) }

// Sentinels for errors.Is. Returned errors carry metadata; compare by code.
var (
	ErrCountFail           = &Error{Code: CodeCountFail, Msg: "count mismatch"}
	ErrDeallocated         = &Error{Code: CodeDeallocated, Msg: "memory was deallocated"}
	ErrOutOfRange          = &Error{Code: CodeOutOfRange, Msg: "value out of range"}
	ErrOutOfMemory         = &Error{Code: CodeOutOfMemory, Msg: "out of memory"}
	ErrOutOfBounds         = &Error{Code: CodeOutOfBounds, Msg: "out of bounds access"}
	ErrInvalidArgument     = &Error{Code: CodeInvalidArgument, Msg: "invalid argument"}
	ErrUnsupportedEncoding = &Error{Code: CodeUnsupportedEncoding, Msg: "unsupported encoding"}
)

func (m *Memory) oob(action Action, dt DataType, off int) error {
	return &Error{
		Code:     CodeOutOfBounds,
		Msg:      fmt.Sprintf("out of bounds %s of %s at offset %d (size %d)", action, dt, off, m.size),
		Action:   action,
		DataType: dt,
		Offset:   off,
		Size:     m.size,
	}
}

func (m *Memory) rangeErr(dt DataType, v any) error {
	r := RangeOf(dt)
	return &Error{
		Code:     CodeOutOfRange,
		Msg:      fmt.Sprintf("%v is out of range for %s, expected %s", v, dt, r),
		DataType: dt,
		Range:    &r,
		Value:    v,
		Offset:   m.offset,
		Size:     m.size,
	}
}

func (m *Memory) countErr(action Action, count, actual int) error {
	return &Error{
		Code:   CodeCountFail,
		Msg:    fmt.Sprintf("%s expected %d bytes but got %d", action, count, actual),
		Action: action,
		Count:  count,
		Actual: actual,
		Offset: m.offset,
		Size:   m.size,
	}
}

func (m *Memory) invalid(format string, args ...any) error {
	return &Error{
		Code:   CodeInvalidArgument,
		Msg:    fmt.Sprintf(format, args...),
		Offset: m.offset,
		Size:   m.size,
	}
}

func errDeallocated() error {
	return &Error{Code: CodeDeallocated, Msg: "memory was deallocated or stolen"}
}

func errEncoding(enc Encoding) error {
	return &Error{
		Code:     CodeUnsupportedEncoding,
		Msg:      fmt.Sprintf("unsupported encoding %q", string(enc)),
		Encoding: enc,
	}
}
