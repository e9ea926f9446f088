package darc

import (
	"errors"
	"fmt"

	"github.com/joshuapare/ctrkit/pkg/memory"
	"github.com/joshuapare/ctrkit/pkg/types"
)

// Error codes.
const (
	CodeNotDARC            types.Code = "darc.not_a_darc_file"
	CodeUnsupportedVersion types.Code = "darc.unsupported_version"
	CodeInvalidHeader      types.Code = "darc.invalid_header"
	CodeMalformed          types.Code = "darc.malformed_file"
	CodeRootNotDirectory   types.Code = "darc.root_is_not_a_directory"
	CodeUnexpectedEOF      types.Code = "darc.unexpected_end_of_file"
	CodeInvalidState       types.Code = "darc.invalid_state"
	CodeBuild              types.Code = "darc.build"
	CodeParse              types.Code = "darc.parse"
)

// Error reports a DARC failure. Build and Parse return an outer error with
// CodeBuild or CodeParse whose Err is the specific cause.
type Error struct {
	Code types.Code
	Msg  string
	// Offset is the cursor position when the failure was detected.
	Offset int
	// Path names the offending tree node for invalid_state errors.
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := "darc: " + e.Msg
	if e.Path != "" {
		msg += fmt.Sprintf(" (%s)", e.Path)
	} else if e.Offset > 0 {
		msg += fmt.Sprintf(" at 0x%X", e.Offset)
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

var (
	ErrNotDARC            = &Error{Code: CodeNotDARC, Msg: "not a DARC file"}
	ErrUnsupportedVersion = &Error{Code: CodeUnsupportedVersion, Msg: "unsupported version"}
	ErrInvalidHeader      = &Error{Code: CodeInvalidHeader, Msg: "invalid header"}
	ErrMalformed          = &Error{Code: CodeMalformed, Msg: "malformed file"}
	ErrRootNotDirectory   = &Error{Code: CodeRootNotDirectory, Msg: "root is not a directory"}
	ErrUnexpectedEOF      = &Error{Code: CodeUnexpectedEOF, Msg: "unexpected end of file"}

	// ErrInvalidState is returned when the tree cannot be written as an
	// archive: bad padding attributes, bad names, or sizes past the format.
	ErrInvalidState = &Error{Code: CodeInvalidState, Msg: "invalid state"}

	// ErrBuild and ErrParse match the outer errors of Build and Parse.
	ErrBuild = &Error{Code: CodeBuild, Msg: "build failed"}
	ErrParse = &Error{Code: CodeParse, Msg: "parse failed"}
)

func fail(code types.Code, m *memory.Memory, format string, args ...any) error {
	e := &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
	if m != nil {
		e.Offset = m.Offset()
	}
	return e
}

func invalidState(path, format string, args ...any) error {
	return &Error{Code: CodeInvalidState, Path: path, Msg: fmt.Sprintf(format, args...)}
}

// parseErr wraps a failure as the outer parse error. Cursor bound and count
// failures become unexpected_end_of_file.
func parseErr(m *memory.Memory, err error) error {
	var derr *Error
	if !errors.As(err, &derr) &&
		(errors.Is(err, memory.ErrOutOfBounds) || errors.Is(err, memory.ErrCountFail)) {
		err = &Error{Code: CodeUnexpectedEOF, Msg: "unexpected end of file", Offset: m.Offset(), Err: err}
	}
	return &Error{Code: CodeParse, Msg: "parse failed", Offset: m.Offset(), Err: err}
}

func buildErr(m *memory.Memory, err error) error {
	e := &Error{Code: CodeBuild, Msg: "build failed", Err: err}
	if m != nil {
		e.Offset = m.Offset()
	}
	return e
}
