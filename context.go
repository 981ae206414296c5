package custody

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/crypto-guardian/custody/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

type contextKey int

const (
	contextKeyHeader contextKey = iota
	contextKeyHeight
	contextKeyChainID
	contextKeyLogger
	contextKeyQuery
)

var (
	// DefaultLogger is used for all context that have not set anything
	// themselves.
	DefaultLogger = log.NewNopLogger()

	// IsValidChainID is the RegExp to ensure valid chain IDs.
	IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString
)

// Context is just an alias for the standard implementation. We use functions
// to extend it to our domain.
type Context = context.Context

// WithHeader sets the block header for the Context. Panics if called with
// header already set.
func WithHeader(ctx Context, header abci.Header) Context {
	if _, ok := GetHeader(ctx); ok {
		panic("Header already set")
	}
	return context.WithValue(ctx, contextKeyHeader, header)
}

// GetHeader returns the current block header. ok is false if no header set
// in this Context.
func GetHeader(ctx Context) (abci.Header, bool) {
	val, ok := ctx.Value(contextKeyHeader).(abci.Header)
	return val, ok
}

// WithHeight sets the block height for the Context. Panics if called with
// height already set.
func WithHeight(ctx Context, height int64) Context {
	if _, ok := GetHeight(ctx); ok {
		panic("Height already set")
	}
	return context.WithValue(ctx, contextKeyHeight, height)
}

// GetHeight returns the current block height. ok is false if no height set
// in this Context.
func GetHeight(ctx Context) (int64, bool) {
	val, ok := ctx.Value(contextKeyHeight).(int64)
	return val, ok
}

// WithChainID sets the chain id for the Context. Panics if called with chain
// id already set or if the value is not a valid chain id.
func WithChainID(ctx Context, chainID string) Context {
	if ctx.Value(contextKeyChainID) != nil {
		panic("Chain ID already set")
	}
	if !IsValidChainID(chainID) {
		panic(fmt.Sprintf("Invalid chain ID: %s", chainID))
	}
	return context.WithValue(ctx, contextKeyChainID, chainID)
}

// GetChainID returns the current chain id. Panics if chain id is not set,
// because it is required by signature verification.
func GetChainID(ctx Context) string {
	val, _ := ctx.Value(contextKeyChainID).(string)
	if val == "" {
		panic("Must set ChainID in context")
	}
	return val
}

// WithLogger sets the logger for this Context.
func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// WithLogInfo accepts keyvalue pairs, and returns another context like this,
// after passing all the keyvals to the Logger.
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	logger := GetLogger(ctx).With(keyvals...)
	return WithLogger(ctx, logger)
}

// GetLogger returns the currently set logger, or DefaultLogger if none was
// set.
func GetLogger(ctx Context) log.Logger {
	val, ok := ctx.Value(contextKeyLogger).(log.Logger)
	if !ok {
		return DefaultLogger
	}
	return val
}

// WithQuery marks the context as serving a read only query.
func WithQuery(ctx Context) Context {
	return context.WithValue(ctx, contextKeyQuery, true)
}

// IsQuery returns true if the context was created to serve a query.
func IsQuery(ctx Context) bool {
	val, _ := ctx.Value(contextKeyQuery).(bool)
	return val
}

// BlockTime returns the time of the currently processed block. Every time
// dependent operation must use this value instead of the wall clock so that
// all nodes agree on the result.
func BlockTime(ctx Context) (time.Time, error) {
	header, ok := GetHeader(ctx)
	if !ok {
		return time.Time{}, errors.Wrap(errors.ErrHuman, "block header not present")
	}
	if header.Time.IsZero() {
		return time.Time{}, errors.Wrap(errors.ErrHuman, "block time not present")
	}
	return header.Time, nil
}

// BlockUnixTime is BlockTime with the result converted to UnixTime.
func BlockUnixTime(ctx Context) (UnixTime, error) {
	t, err := BlockTime(ctx)
	if err != nil {
		return 0, err
	}
	return AsUnixTime(t), nil
}
