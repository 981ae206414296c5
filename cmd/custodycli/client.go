package main

import (
	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/app"
	"github.com/crypto-guardian/custody/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
	tmtypes "github.com/tendermint/tendermint/types"
)

// Client is the subset of node functionality used by the commands.
type Client interface {
	// ChainID returns the chain ID declared by the node genesis.
	ChainID() (string, error)
	// Query returns all models matching the query. Mod is either
	// custody.KeyQueryMod or custody.PrefixQueryMod.
	Query(path, mod string, data []byte) ([]custody.Model, error)
	// Broadcast submits a serialized transaction and waits until it is
	// included in a block.
	Broadcast(tx []byte) (*abci.ResponseDeliverTx, error)
}

// newClient returns a client connected to the node at given address. Tests
// replace it to avoid network access.
var newClient = func(addr string) Client {
	return &tmClient{conn: rpcclient.NewHTTP(addr, "/websocket")}
}

type tmClient struct {
	conn *rpcclient.HTTP
}

func (c *tmClient) ChainID() (string, error) {
	res, err := c.conn.Genesis()
	if err != nil {
		return "", errors.Wrap(err, "genesis")
	}
	return res.Genesis.ChainID, nil
}

func (c *tmClient) Query(path, mod string, data []byte) ([]custody.Model, error) {
	if mod == custody.PrefixQueryMod {
		path += "?" + custody.PrefixQueryMod
	}
	res, err := c.conn.ABCIQuery(path, data)
	if err != nil {
		return nil, errors.Wrap(err, "abci query")
	}
	resp := res.Response
	if resp.IsErr() {
		return nil, errors.Wrapf(errors.ErrState, "query %s failed with code %d: %s", path, resp.Code, resp.Log)
	}
	if len(resp.Key) == 0 {
		return nil, nil
	}

	var keys, values app.ResultSet
	if err := keys.Unmarshal(resp.Key); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal keys")
	}
	if err := values.Unmarshal(resp.Value); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal values")
	}
	return app.JoinResults(&keys, &values)
}

func (c *tmClient) Broadcast(tx []byte) (*abci.ResponseDeliverTx, error) {
	res, err := c.conn.BroadcastTxCommit(tmtypes.Tx(tx))
	if err != nil {
		return nil, errors.Wrap(err, "broadcast")
	}
	if res.CheckTx.IsErr() {
		return nil, errors.Wrapf(errors.ErrState, "check tx failed with code %d: %s", res.CheckTx.Code, res.CheckTx.Log)
	}
	if res.DeliverTx.IsErr() {
		return nil, errors.Wrapf(errors.ErrState, "deliver tx failed with code %d: %s", res.DeliverTx.Code, res.DeliverTx.Log)
	}
	return &res.DeliverTx, nil
}
