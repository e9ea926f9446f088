package rom

import (
	"fmt"

	"github.com/joshuapare/ctrkit/pkg/types"
)

// Error codes.
const (
	CodeRead          types.Code = "rom.read"
	CodeUnknownFormat types.Code = "rom.unknown_format"
	CodeUnknown       types.Code = "rom.unknown"
)

// Error reports a load failure. Read returns an outer error with CodeRead
// whose Err is the specific cause.
type Error struct {
	Code types.Code
	Msg  string
	// Path is the partition path being loaded.
	Path string
	// Format is the extension of an unrecognised input, without the dot.
	// Empty when the input has none.
	Format string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := "rom: " + e.Msg
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
	// ErrRead matches the outer error of Read, ReadExeFS and ReadRomFS.
	ErrRead = &Error{Code: CodeRead, Msg: "read failed"}

	// ErrUnknownFormat is returned for partition inputs that are not
	// directories.
	ErrUnknownFormat = &Error{Code: CodeUnknownFormat, Msg: "unsupported format"}

	// ErrUnknown matches failures without a more specific code.
	ErrUnknown = &Error{Code: CodeUnknown, Msg: "unknown error"}
)

func unknownFormat(path, format string) error {
	name := format
	if name == "" {
		name = "<none>"
	}
	return &Error{
		Code:   CodeUnknownFormat,
		Msg:    fmt.Sprintf("unsupported format '%s'", name),
		Path:   path,
		Format: format,
	}
}

func readErr(path string, err error) error {
	return &Error{Code: CodeRead, Msg: "read failed", Path: path, Err: err}
}
