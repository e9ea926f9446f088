package types

import "errors"

// -----------------------------------------------------------------------------
// Typed Errors (stable codes for programmatic handling)
// -----------------------------------------------------------------------------

// Code identifies a failure so callers can branch on intent rather than text.
// Codes are "<subsystem>.<name>" and never change once released.
type Code string

// String returns the code itself.
func (c Code) String() string { return string(c) }

// Coded is implemented by every error type in the module.
type Coded interface {
	error
	ErrorCode() Code
}

// CodeOf returns the code of the first Coded error in err's chain, or ""
// when there is none.
func CodeOf(err error) Code {
	var coded Coded
	if errors.As(err, &coded) {
		return coded.ErrorCode()
	}
	return ""
}

// HasCode reports whether any error in err's chain carries code.
func HasCode(err error, code Code) bool {
	for err != nil {
		if coded, ok := err.(Coded); ok && coded.ErrorCode() == code {
			return true
		}
		switch u := err.(type) {
		case interface{ Unwrap() error }:
			err = u.Unwrap()
		case interface{ Unwrap() []error }:
			for _, e := range u.Unwrap() {
				if HasCode(e, code) {
					return true
				}
			}
			return false
		default:
			return false
		}
	}
	return false
}

// Match reports whether target is a Coded error carrying code. Subsystem
// error types call it from their Is method.
func Match(code Code, target error) bool {
	coded, ok := target.(Coded)
	return ok && coded.ErrorCode() == code
}

// Error is a typed error with an optional underlying cause, used by
// subsystems whose failures need no metadata beyond a message.
type Error struct {
	Code Code
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorCode implements Coded.
func (e *Error) ErrorCode() Code { return e.Code }

// Is matches any Coded target with the same code, so package sentinels work
// with errors.Is regardless of the metadata attached to a particular failure.
func (e *Error) Is(target error) bool {
	return e != nil && Match(e.Code, target)
}
