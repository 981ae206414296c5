/*
Package assert holds the few assertions used by table driven tests of
models and messages. Failures print errors with %+v so that the stack trace
recorded by the errors package is visible.
*/
package assert

import (
	"reflect"

	"github.com/crypto-guardian/custody/errors"
)

// Tester is implemented by *testing.T and *testing.B.
type Tester interface {
	Helper()
	Fatalf(string, ...interface{})
}

// Nil fails unless value is nil. Typed nil pointers, slices and maps count
// as nil too.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if value == nil {
		return
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		if v.IsNil() {
			return
		}
	}
	t.Fatalf("unexpected non nil value: %+v", value)
}

// Equal fails unless both values are deeply equal and of the same type.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if reflect.DeepEqual(want, got) {
		return
	}
	t.Fatalf("mismatch\nwant %T %v\n got %T %v", want, want, got, got)
}

// FieldError fails unless err carries an error of kind want for given
// field. A nil want requires that the field has no error at all.
func FieldError(t Tester, err error, field string, want *errors.Error) {
	t.Helper()
	found := errors.FieldErrors(err, field)
	if want == nil {
		if len(found) > 0 {
			t.Fatalf("field %s: unexpected errors %q", field, found)
		}
		return
	}
	for _, e := range found {
		if want.Is(e) {
			return
		}
	}
	t.Fatalf("field %s: want %q error, got %q", field, want, found)
}
