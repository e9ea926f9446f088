package vfs

import (
	"fmt"

	"github.com/joshuapare/ctrkit/pkg/types"
)

// Error codes.
const (
	CodeAlreadyExists   types.Code = "vfs.already_exists"
	CodeMissingFile     types.Code = "vfs.missing_file"
	CodeInvalidArgument types.Code = "vfs.invalid_argument"
	CodeUnsafeName      types.Code = "vfs.unsafe_name"
	CodeIO              types.Code = "vfs.io"
)

// Error reports a tree operation failure.
type Error struct {
	Code types.Code
	Msg  string
	// Path names the node or disk path involved.
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := "vfs: " + e.Msg
	if e.Path != "" {
		msg += fmt.Sprintf(" (%s)", e.Path)
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
	// ErrAlreadyExists is returned by Append in fail mode for a duplicate name.
	ErrAlreadyExists = &Error{Code: CodeAlreadyExists, Msg: "node already exists"}

	// ErrMissingFile is returned by Read when no file lives at the path.
	ErrMissingFile = &Error{Code: CodeMissingFile, Msg: "missing file"}

	// ErrInvalidArgument is returned for nil nodes, unknown modes and cycles.
	ErrInvalidArgument = &Error{Code: CodeInvalidArgument, Msg: "invalid argument"}

	// ErrUnsafeName is returned by WriteDir for names that would escape the
	// destination.
	ErrUnsafeName = &Error{Code: CodeUnsafeName, Msg: "unsafe node name"}

	// ErrIO wraps disk failures from FromDir and WriteDir.
	ErrIO = &Error{Code: CodeIO, Msg: "i/o failure"}
)

func newErr(code types.Code, path, format string, args ...any) error {
	return &Error{Code: code, Path: path, Msg: fmt.Sprintf(format, args...)}
}

func ioErr(path, op string, err error) error {
	return &Error{Code: CodeIO, Path: path, Msg: op, Err: err}
}
