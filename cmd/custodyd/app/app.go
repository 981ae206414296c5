/*
Package custodyd links together all the various components to construct the
custody chain application.
*/
package custodyd

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/app"
	"github.com/crypto-guardian/custody/errors"
	"github.com/crypto-guardian/custody/orm"
	"github.com/crypto-guardian/custody/store/iavl"
	"github.com/crypto-guardian/custody/x"
	"github.com/crypto-guardian/custody/x/cash"
	"github.com/crypto-guardian/custody/x/guardian"
	"github.com/crypto-guardian/custody/x/sigs"
	"github.com/crypto-guardian/custody/x/utils"
	"github.com/prometheus/client_golang/prometheus"
)

// Authenticator returns the typical authentication, just using public key
// signatures.
func Authenticator() x.Authenticator {
	return sigs.Authenticate{}
}

// CashControl returns a controller for cash functions.
func CashControl() cash.Controller {
	return cash.NewController(cash.NewBucket())
}

// Chain returns a chain of decorators, to handle authentication, logging,
// metrics and recovery. Transaction metrics are registered with reg.
func Chain(reg prometheus.Registerer) app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewMetrics(reg),
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment the nonce even if the
		// message fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching to the cash and guardian handlers.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	ctrl := CashControl()
	cash.RegisterRoutes(r, authFn, ctrl)
	guardian.RegisterRoutes(r, authFn, ctrl)
	return r
}

// QueryRouter returns a default query router, allowing access to
// "/wallets", "/auth", "/guardians", "/receipts" and "/".
func QueryRouter() custody.QueryRouter {
	r := custody.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		sigs.RegisterQuery,
		guardian.RegisterQuery,
		orm.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator chain. This
// can be passed into BaseApp.
func Stack(reg prometheus.Registerer) custody.Handler {
	authFn := Authenticator()
	return Chain(reg).WithHandler(Router(authFn))
}

// Initializers returns all genesis initializers of the application.
func Initializers() custody.Initializer {
	return custody.ChainInitializers(
		&cash.Initializer{},
		&guardian.Initializer{},
	)
}

// Application constructs a basic ABCI application with the given arguments.
// If you are not sure what to use for the Handler, just use Stack().
func Application(name string, h custody.Handler, tx custody.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	return app.NewBaseApp(store, tx, h, debug), nil
}

// CommitKVStore returns an initialized KVStore that persists the data to
// the named path.
func CommitKVStore(dbPath string) (custody.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name %q: %s", dbPath, err)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name), nil
}
