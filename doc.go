/*
Package custody defines the common interfaces that tie together the
subpackages of the custody application, as well as implementations of the
simpler components.

The application is a dead man's switch: an owner places coins under the
custody of a guardian, keeps signalling activity with heartbeats, and once
the owner stays silent for longer than the configured inactivity window any
beneficiary can trigger a one time proportional distribution. The state
machine lives in x/guardian, this package only provides the framework.

We pass context through context.Context between app, decorators and
handlers. There should exist two functions for every XYZ of type T that we
want to support in Context:

	WithXYZ(Context, T) Context
	GetXYZ(Context) (val T, ok bool)

WithXYZ panics if the value was previously set to prevent lower level
modules from overwriting it (eg. height, header).
*/
package custody
