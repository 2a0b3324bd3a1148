package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var (
	// ErrUnauthorized is returned when the required signature of an
	// identity is missing from the request.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound is returned when an account or a record does not exist.
	ErrNotFound = Register(3, "not found")

	// ErrInvalidMsg is returned whenever a message is malformed and cannot
	// be handled.
	ErrInvalidMsg = Register(4, "invalid message")

	// ErrInvalidModel is returned when a model fails validation and cannot
	// be persisted.
	ErrInvalidModel = Register(5, "invalid model")

	// ErrAddressCollision is returned when a derived address is already
	// occupied by a live account.
	ErrAddressCollision = Register(6, "address collision")

	// ErrHuman is returned when the application reaches a code path that
	// should never be reached if the code was written as intended.
	ErrHuman = Register(7, "coding error")

	// ErrAddressMismatch is returned when a supplied address does not match
	// the address derived from the stored parameters.
	ErrAddressMismatch = Register(8, "address mismatch")

	// ErrEmpty is returned when a value fails a not empty assertion.
	ErrEmpty = Register(9, "value is empty")

	// ErrInvalidState is returned when an object is in an invalid state.
	ErrInvalidState = Register(10, "invalid state")

	// ErrInvalidType is returned whenever the type is not what was expected.
	ErrInvalidType = Register(11, "invalid type")

	// ErrInsufficientFunds is returned when an account balance cannot cover
	// a transfer or a reserve.
	ErrInsufficientFunds = Register(12, "insufficient funds")

	// ErrInvalidAmount is returned for zero or otherwise unusable amounts.
	ErrInvalidAmount = Register(13, "invalid amount")

	// ErrInvalidInput stands for general input problems.
	ErrInvalidInput = Register(14, "invalid input")

	// ErrAssetMismatch is returned when an account holds a different asset
	// than the operation requires.
	ErrAssetMismatch = Register(15, "asset mismatch")

	// ErrOverflow is returned when a computation cannot be completed
	// because the result value exceeds the type.
	ErrOverflow = Register(16, "an operation cannot be completed due to value overflow")

	// ErrDatabase is returned when the underlying storage fails.
	ErrDatabase = Register(17, "database")

	// ErrIteratorDone is returned by an iterator that has no more items.
	ErrIteratorDone = Register(18, "iterator done")

	// ErrInvalidSequence is returned when a signature carries an unexpected
	// sequence value.
	ErrInvalidSequence = Register(19, "invalid sequence")

	// ErrNoViableBump is returned when no bump produces an address that is
	// off the ed25519 curve.
	ErrNoViableBump = Register(20, "no viable bump")

	// ErrPanic is only set when we recover from a panic, so we know to
	// redact potentially sensitive system info.
	ErrPanic = Register(111222, "panic")
)

// Register returns an error instance that should be used as the base for
// creating error instances during runtime.
//
// Attempt to reuse an error code results in panic. Use this function only
// during a program startup phase.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	err := &Error{
		code: code,
		desc: description,
	}
	usedCodes[err.code] = err
	return err
}

// usedCodes keeps track of registered codes. Code 1 is reserved for
// errors that do not come from this package.
var usedCodes = map[uint32]*Error{
	1: {code: 1, desc: "internal"},
}

// Error represents a root error.
//
// Every error instance created at runtime should wrap one of the root
// errors. This allows error tests and returning all errors to the client in
// a safe manner.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// ABCICode returns the numeric code of this root error.
func (e Error) ABCICode() uint32 {
	return e.code
}

// New returns a new error wrapping this root error.
//   e.New("my description")
// is the same as
//   Wrap(e, "my description")
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is New with formatting capabilities.
func (e *Error) Newf(description string, args ...interface{}) error {
	return e.New(fmt.Sprintf(description, args...))
}

// Is checks if the given error instance is of this kind. The error is
// unwrapped using the Cause method if available.
//
// A nil *Error matches only a nil error, which makes it convenient to use
// in table tests where no failure is expected.
func (e *Error) Is(err error) bool {
	// Reflect usage is necessary to correctly compare with a wrapped nil
	// implementation of an error.
	if e == nil {
		return errIsNil(err)
	}

	for {
		if err == e {
			return true
		}
		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return false
		}
	}
}

// Wrap extends given error with an additional information.
//
// If err is nil, this returns nil, avoiding the need for an if statement
// when wrapping an error returned at the end of a function.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}

	// Attach the stacktrace only once, at the innermost wrap.
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}

	return &wrappedError{
		parent: err,
		msg:    description,
	}
}

// Wrapf extends given error with an additional, formatted information.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

// Cause returns the wrapped error, for github.com/pkg/errors compatibility.
func (e *wrappedError) Cause() error {
	return e.parent
}

// Unwrap returns the wrapped error, for the standard library errors.Is.
func (e *wrappedError) Unwrap() error {
	return e.parent
}

// Format prints the message chain and, with %+v, the stacktrace recorded
// by the innermost wrap.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s", e.Error())
		if st := stackTrace(e); st != nil {
			fmt.Fprintf(s, "%+v", st)
		}
		return
	}
	fmt.Fprint(s, e.Error())
}

// Recover captures a panic and stops its propagation. The panic is
// converted into an ErrPanic instance and assigned to the given error.
// Call this function using defer.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type causer interface {
	Cause() error
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace returns the first stacktrace found while unwrapping err.
func stackTrace(err error) errors.StackTrace {
	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return nil
		}
	}
}

// errIsNil returns true if value represented by the given error is nil.
func errIsNil(err error) bool {
	if err == nil {
		return true
	}
	if val := reflect.ValueOf(err); val.Kind() == reflect.Ptr {
		return val.IsNil()
	}
	return false
}
