/*
Package x contains the interfaces and helpers shared by the extensions.

Extensions implement common functionality (Handler, Decorator, Initializer)
and are combined together by the application. Authentication is abstracted
by the Authenticator interface so that a handler does not depend on a
particular signature scheme.
*/
package x
