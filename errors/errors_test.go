package errors

import (
	stdlib "errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

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
			b:      ErrModel,
			wantIs: false,
		},
		"successful comparison to a wrapped error": {
			a:      ErrNotFound,
			b:      Wrap(ErrNotFound, "gone"),
			wantIs: true,
		},
		"comparison to a pkg/errors wrapped error": {
			a:      ErrNotFound,
			b:      errors.Wrap(ErrNotFound, "gone"),
			wantIs: true,
		},
		"unsuccessful comparison to a wrapped error": {
			a:      ErrNotFound,
			b:      Wrap(ErrOverflow, "too big"),
			wantIs: false,
		},
		"not equal to stdlib error": {
			a:      ErrNotFound,
			b:      fmt.Errorf("stdlib error"),
			wantIs: false,
		},
		"nil is nil": {
			a:      nil,
			b:      nil,
			wantIs: true,
		},
		"nil is a typed nil": {
			a:      nil,
			b:      (*Error)(nil),
			wantIs: true,
		},
		"nil is not not-nil": {
			a:      nil,
			b:      ErrNotFound,
			wantIs: false,
		},
		"not-nil is not nil": {
			a:      ErrNotFound,
			b:      nil,
			wantIs: false,
		},
		"multi error containing the error": {
			a:      ErrNotFound,
			b:      Append(ErrState, Wrap(ErrNotFound, "test")),
			wantIs: true,
		},
		"multi error not containing the error": {
			a:      ErrNotFound,
			b:      Append(ErrState, ErrModel),
			wantIs: false,
		},
		"field error": {
			a:      ErrEmpty,
			b:      Field("Owner", ErrEmpty, "required"),
			wantIs: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.a.Is(tc.b); got != tc.wantIs {
				t.Fatalf("unexpected result: %v", got)
			}
		})
	}
}

func TestRegisterDuplicatedCode(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("registering a used code must panic")
		}
	}()
	Register(ErrNotFound.code, "something else")
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, "test"); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
	if err := Wrapf(nil, "test %d", 1); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
}

func TestWrapMessage(t *testing.T) {
	err := Wrapf(ErrNotFound.New("guardian"), "load %d", 4)
	if want := "load 4: guardian: not found"; err.Error() != want {
		t.Fatalf("want %q, got %q", want, err.Error())
	}
	if got := Code(err); got != 3 {
		t.Fatalf("want code 3, got %d", got)
	}
}

func TestRecover(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err)
		panic("boom")
	}
	err := fn()
	if !ErrPanic.Is(err) {
		t.Fatalf("want panic error, got %v", err)
	}
}

func TestAppend(t *testing.T) {
	if err := Append(nil, nil); err != nil {
		t.Fatalf("want nil, got %v", err)
	}

	single := Wrap(ErrState, "one")
	if err := Append(nil, single, nil); err != single {
		t.Fatalf("single error must be returned as it is, got %v", err)
	}

	err := Append(Append(ErrState, ErrEmpty), io.EOF)
	u, ok := err.(unpacker)
	if !ok {
		t.Fatalf("want multi error, got %T", err)
	}
	if n := len(u.Unpack()); n != 3 {
		t.Fatalf("want a flat list of 3 errors, got %d", n)
	}
	if got := Code(err); got != ErrState.code {
		t.Fatalf("want first error code, got %d", got)
	}
	if !strings.HasPrefix(err.Error(), "3 errors occurred") {
		t.Fatalf("unexpected message: %s", err)
	}
}

func TestFieldErrors(t *testing.T) {
	err := Append(
		Field("Owner", ErrEmpty, "required"),
		Field("Beneficiaries.0.Share", ErrInput, "zero"),
		Field("Owner", ErrModel, "second"),
	)
	if got := FieldErrors(err, "Owner"); len(got) != 2 {
		t.Fatalf("want 2 owner errors, got %d", len(got))
	}
	if got := FieldErrors(err, "Beneficiaries.0.Share"); len(got) != 1 {
		t.Fatalf("want 1 share error, got %d", len(got))
	}
	if got := FieldErrors(err, "Assets"); len(got) != 0 {
		t.Fatalf("want no errors, got %d", len(got))
	}
	if got := FieldErrors(nil, "Owner"); got != nil {
		t.Fatalf("want nil, got %v", got)
	}
}

func TestStackTraceIsAttachedOnce(t *testing.T) {
	inner := Wrap(stdlib.New("raw"), "inner")
	outer := Wrap(inner, "outer")
	if stackTrace(outer) == nil {
		t.Fatal("stack trace must be attached")
	}
	w := outer.(*wrappedError)
	if _, ok := w.parent.(stackTracer); ok {
		t.Fatal("outer wrap must not attach a second stack trace")
	}
	if got := fmt.Sprintf("%v", outer); !strings.HasPrefix(got, "outer: inner: raw [") {
		t.Fatalf("compressed frame missing: %s", got)
	}
}

func TestABCIInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"nil": {
			err:      nil,
			wantCode: 0,
			wantLog:  "",
		},
		"registered": {
			err:      Wrap(ErrNotFound, "guardian"),
			wantCode: 3,
			wantLog:  "guardian: not found",
		},
		"unregistered is redacted": {
			err:      fmt.Errorf("disk on fire"),
			wantCode: 1,
			wantLog:  "internal error",
		},
		"unregistered in debug mode": {
			err:      fmt.Errorf("disk on fire"),
			debug:    true,
			wantCode: 1,
			wantLog:  "disk on fire",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
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
