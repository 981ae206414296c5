/*
Package errors implements the error handling of the custody application.

Every error returned to a client should wrap one of the root errors. Root
errors are created with Register and carry a code that is returned as the
ABCI code of a failed transaction or query. Common root errors are declared
in this package, extensions declare their own (see x/guardian).

Use ErrXyz.New, ErrXyz.Newf or Wrap at the point of creation to attach a
stack trace. Only the most inner wrap records one.

Once you have an error, use `fmt.Printf/Sprintf` to get more context

	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created
*/
package errors
