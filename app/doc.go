/*
Package app contains the pieces needed to turn a custody.Handler into an
abci.Application.

A typical application builds a Router with all message handlers, wraps it
with a chain of decorators and passes the result to NewBaseApp together with
a StoreApp holding the committed state:

	stack := app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		utils.NewSavepoint().OnDeliver(),
	).WithHandler(router)
*/
package app
