/*
Package sigs provides basic authentication middleware to verify the
signatures on the transaction, and maintain nonces for replay protection.

It is the identity source of the application: every verified signature is
turned into a condition and exposed to the handlers through the
Authenticate type.
*/
package sigs
