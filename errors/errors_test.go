package errors

import (
	stdlib "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestCause(t *testing.T) {
	std := stdlib.New("this is a stdlib error")

	cases := map[string]struct {
		err  error
		root error
	}{
		"Errors are self-causing": {
			err:  ErrNotFound,
			root: ErrNotFound,
		},
		"Wrap reveals root cause": {
			err:  Wrap(ErrNotFound, "foo"),
			root: ErrNotFound,
		},
		"Cause works for stderr as root": {
			err:  Wrap(std, "Some helpful text"),
			root: std,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := errors.Cause(tc.err); got != tc.root {
				t.Fatalf("unexpected result: %v", got)
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		a      *Error
		b      error
		wantIs bool
	}{
		"instance of the same error": {
			a:      ErrNotFound,
			b:      ErrNotFound,
			wantIs: true,
		},
		"two different coded errors": {
			a:      ErrNotFound,
			b:      ErrAddressMismatch,
			wantIs: false,
		},
		"successful comparison to a wrapped error": {
			a:      ErrAssetMismatch,
			b:      Wrap(Wrap(ErrAssetMismatch, "inner"), "outer"),
			wantIs: true,
		},
		"pkg/errors wrapping is unwrapped too": {
			a:      ErrInsufficientFunds,
			b:      errors.Wrap(ErrInsufficientFunds, "maker"),
			wantIs: true,
		},
		"nil matches nil": {
			a:      nil,
			b:      nil,
			wantIs: true,
		},
		"nil does not match an error": {
			a:      nil,
			b:      ErrUnauthorized,
			wantIs: false,
		},
		"nil matches a typed nil": {
			a:      nil,
			b:      (*wrappedError)(nil),
			wantIs: true,
		},
		"stdlib error is not a root error": {
			a:      ErrInvalidInput,
			b:      fmt.Errorf("invalid input"),
			wantIs: false,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.a.Is(tc.b); got != tc.wantIs {
				t.Fatalf("unexpected result - got:%v want: %v", got, tc.wantIs)
			}
		})
	}
}

func TestStdlibIs(t *testing.T) {
	err := Wrap(ErrAddressCollision, "escrow")
	if !stdlib.Is(err, ErrAddressCollision) {
		t.Fatal("stdlib errors.Is does not see the root error")
	}
	if stdlib.Is(err, ErrAddressMismatch) {
		t.Fatal("stdlib errors.Is matched a different root error")
	}

	// the stacktrace is attached once, deeper wraps must not hide the root
	nested := Wrapf(Wrap(err, "create"), "tx %d", 1)
	if !stdlib.Is(nested, ErrAddressCollision) {
		t.Fatal("stdlib errors.Is does not see through nested wraps")
	}
	if !ErrAddressCollision.Is(nested) {
		t.Fatal("root error not found through nested wraps")
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, "ignore me"); err != nil {
		t.Fatalf("want nil, got %+v", err)
	}
	if err := Wrapf(nil, "ignore %d", 1); err != nil {
		t.Fatalf("want nil, got %+v", err)
	}
}

func TestWrappedMessage(t *testing.T) {
	err := ErrNotFound.Newf("escrow %s", "abc")
	if got, want := err.Error(), "escrow abc: not found"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	full := fmt.Sprintf("%+v", err)
	if !strings.Contains(full, "escrow abc: not found") {
		t.Fatalf("stacktrace format lost the message: %s", full)
	}
	if !strings.Contains(full, "errors_test.go") {
		t.Fatalf("stacktrace missing the caller: %s", full)
	}
}

func TestRecover(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err)
		panic("boom")
	}
	err := fn()
	if !ErrPanic.Is(err) {
		t.Fatalf("want panic error, got %+v", err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("registering a used code must panic")
		}
	}()
	Register(ErrNotFound.ABCICode(), "again")
}

func TestABCIInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"no error": {
			err:      nil,
			wantCode: SuccessCode,
		},
		"registered error": {
			err:      Wrap(ErrNotFound, "escrow"),
			wantCode: ErrNotFound.ABCICode(),
			wantLog:  "escrow: not found",
		},
		"stdlib error is redacted": {
			err:      fmt.Errorf("disk on fire"),
			wantCode: internalCode,
			wantLog:  internalLog,
		},
		"panic is redacted": {
			err:      Wrap(ErrPanic, "secret"),
			wantCode: internalCode,
			wantLog:  internalLog,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, log := ABCIInfo(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Errorf("want code %d, got %d", tc.wantCode, code)
			}
			if log != tc.wantLog {
				t.Errorf("want log %q, got %q", tc.wantLog, log)
			}
		})
	}
}

func TestRedact(t *testing.T) {
	if err := Redact(Wrap(ErrPanic, "stack"), false); ErrPanic.Is(err) {
		t.Fatal("panic not redacted")
	}
	if err := Redact(Wrap(ErrPanic, "stack"), true); !ErrPanic.Is(err) {
		t.Fatal("debug mode must keep the panic")
	}
	if err := Redact(ErrUnauthorized, false); !ErrUnauthorized.Is(err) {
		t.Fatal("registered errors must pass through")
	}
}
