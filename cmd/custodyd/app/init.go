package custodyd

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/coin"
	"github.com/crypto-guardian/custody/crypto"
	"github.com/crypto-guardian/custody/errors"
	"github.com/crypto-guardian/custody/x/guardian"
	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Name is returned in the abci Info response.
const Name = "custody"

// GenInitOptions will produce some basic options for one rich account, to
// use for dev mode.
//
//	custodyd init [ticker] [address]
//
// When no address is given a new key is generated and its private key is
// printed, hex encoded, so it can be used by the client.
func GenInitOptions(args []string) (json.RawMessage, error) {
	ticker := guardian.DefaultNativeTicker
	if len(args) > 0 {
		ticker = args[0]
	}
	if !coin.IsTicker(ticker) {
		return nil, errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", ticker)
	}

	var addr custody.Address
	if len(args) > 1 {
		var err error
		if addr, err = custody.ParseAddress(args[1]); err != nil {
			return nil, errors.Wrap(err, "address")
		}
	} else {
		key := crypto.GenPrivKeyEd25519()
		addr = key.PublicKey().Address()
		fmt.Printf("private key: %s\n", hex.EncodeToString(key.Ed25519))
	}

	type dict map[string]interface{}
	return json.Marshal(dict{
		"cash": []dict{
			{
				"address": addr,
				"coins":   []coin.Coin{coin.NewCoin(123456789, ticker)},
			},
		},
		"conf": dict{
			"guardian": guardian.Configuration{
				Owner:            addr,
				NativeTicker:     ticker,
				MaxBeneficiaries: 32,
			},
		},
	})
}

// GenerateApp is used to create a stub for server/start.go command.
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "abci.db")
	}

	stack := Stack(prometheus.DefaultRegisterer)
	application, err := Application(Name, stack, TxDecoder, dbPath, debug)
	if err != nil {
		return nil, err
	}
	application.WithInit(Initializers())
	application.WithLogger(logger)
	return application, nil
}
