package errors

import (
	"fmt"
)

// Code reported for errors that were not created from a registered error.
// Their message is hidden outside of debug mode.
const (
	internalCode uint32 = 1
	internalLog         = "internal error"
)

// ABCIInfo returns the code and log of an ABCI response describing err. A
// nil error is code zero. Errors that do not wrap a registered error are
// reported with code 1 and, unless debug is set, a generic log so that
// internal details never reach the client.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if isNilErr(err) {
		return 0, ""
	}
	code := Code(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalCode:
		return code, internalLog
	default:
		return code, err.Error()
	}
}

type coder interface {
	ABCICode() uint32
}

// Code walks the cause chain of err and returns the first declared ABCI
// code. Unregistered errors return 1 and nil returns 0.
func Code(err error) uint32 {
	if isNilErr(err) {
		return 0
	}
	for err != nil {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return internalCode
}
