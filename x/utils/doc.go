/*
Package utils provides the decorators every application stack needs: panic
recovery, logging, metrics, transaction tagging and savepoints.
*/
package utils
