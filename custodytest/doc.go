/*
Package custodytest provides mocks and helpers for testing extensions and
the application without a running node.
*/
package custodytest
