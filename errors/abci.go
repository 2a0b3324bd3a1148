package errors

import (
	"errors"
	"fmt"
)

const (
	// SuccessCode is returned together with a nil error.
	SuccessCode uint32 = 0

	// All errors that do not provide a code are reported as internal,
	// with a generic message instead of the detailed error string.
	internalCode uint32 = 1
	internalLog         = "internal error"
)

// ABCIInfo returns the code and the log message that should be reported to
// the client for the given error.
//
// Errors that do not wrap a registered root error are internal. Outside of
// debug mode their message is replaced with a generic one, as are panics.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if errIsNil(err) {
		return SuccessCode, ""
	}

	code := abciCode(err)
	if debug {
		return code, fmt.Sprintf("%+v", err)
	}
	if code == internalCode || code == ErrPanic.code {
		return internalCode, internalLog
	}
	return code, err.Error()
}

type coder interface {
	ABCICode() uint32
}

// abciCode unwraps the error until it finds a code.
func abciCode(err error) uint32 {
	if errIsNil(err) {
		return SuccessCode
	}
	for {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return internalCode
		}
	}
}

// Redact replaces all errors that do not wrap a registered root error, and
// all recovered panics, with a generic internal error.
//
// This is a no-operation when running in debug mode.
func Redact(err error, debug bool) error {
	if debug || errIsNil(err) {
		return err
	}
	if ErrPanic.Is(err) || abciCode(err) == internalCode {
		return errors.New(internalLog)
	}
	return err
}
