package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If only one error is provided, it is returned unchanged. Multi errors are
// flattened so that the result is never nested.
func Append(errs ...error) error {
	var list []error
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if u, ok := e.(unpacker); ok {
			list = append(list, u.Unpack()...)
		} else {
			list = append(list, e)
		}
	}

	switch len(list) {
	case 0:
		return nil
	case 1:
		return list[0]
	}
	return multiErr(list)
}

type unpacker interface {
	Unpack() []error
}

// multiErr represents a group of errors. Its code is the code of the first
// contained error.
type multiErr []error

func (errs multiErr) Unpack() []error {
	return errs
}

func (errs multiErr) ABCICode() uint32 {
	return Code(errs[0])
}

func (errs multiErr) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = "* " + e.Error()
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s", len(errs), strings.Join(msgs, "\n\t"))
}
