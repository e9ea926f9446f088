package blz

import (
	"errors"
	"fmt"

	"github.com/joshuapare/ctrkit/pkg/memory"
	"github.com/joshuapare/ctrkit/pkg/types"
)

// Error codes.
const (
	CodeBufferTooSmall types.Code = "blz.buffer_too_small"
	CodeBufferTooLarge types.Code = "blz.buffer_too_large"
	CodeInvalidHeader  types.Code = "blz.invalid_header"
	CodeNotBLZ         types.Code = "blz.not_a_blz_file"
	CodeMalformed      types.Code = "blz.malformed_file"
	CodeUnexpectedEOF  types.Code = "blz.unexpected_end_of_file"
	CodeDecode         types.Code = "blz.decode"
	CodeEncode         types.Code = "blz.encode"
)

// Error reports a BLZ failure. Decode and Encode always return an outer
// error with CodeDecode or CodeEncode whose Err is the specific cause.
type Error struct {
	Code types.Code
	Msg  string
	// Size is the length of the buffer being decoded or encoded.
	Size int
	// Offset locates the failure inside the output, when known.
	Offset int
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := "blz: " + e.Msg
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

var (
	// ErrBufferTooSmall indicates an input shorter than the 8-byte footer.
	ErrBufferTooSmall = &Error{Code: CodeBufferTooSmall, Msg: "buffer too small"}

	// ErrBufferTooLarge indicates an input over the size the format can describe.
	ErrBufferTooLarge = &Error{Code: CodeBufferTooLarge, Msg: "buffer too large"}

	// ErrInvalidHeader indicates footer fields that contradict each other or the input.
	ErrInvalidHeader = &Error{Code: CodeInvalidHeader, Msg: "invalid header"}

	// ErrNotBLZ indicates a zero increase field (stored or foreign data).
	ErrNotBLZ = &Error{Code: CodeNotBLZ, Msg: "not a BLZ file"}

	// ErrMalformed indicates a back-reference outside the output.
	ErrMalformed = &Error{Code: CodeMalformed, Msg: "malformed file"}

	// ErrUnexpectedEOF indicates the packed region ended early.
	ErrUnexpectedEOF = &Error{Code: CodeUnexpectedEOF, Msg: "unexpected end of file"}

	// ErrDecode and ErrEncode match the outer errors of Decode and Encode.
	ErrDecode = &Error{Code: CodeDecode, Msg: "decode failed"}
	ErrEncode = &Error{Code: CodeEncode, Msg: "encode failed"}
)

func fail(code types.Code, size int, format string, args ...any) error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...), Size: size}
}

func decodeErr(size int, err error) error {
	if errors.Is(err, memory.ErrOutOfBounds) {
		err = &Error{Code: CodeUnexpectedEOF, Msg: "unexpected end of file", Size: size, Err: err}
	}
	return &Error{Code: CodeDecode, Msg: fmt.Sprintf("decode of %d bytes failed", size), Size: size, Err: err}
}

func encodeErr(size int, err error) error {
	return &Error{Code: CodeEncode, Msg: fmt.Sprintf("encode of %d bytes failed", size), Size: size, Err: err}
}
