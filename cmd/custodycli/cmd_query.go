package main

import (
	"bytes"
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/errors"
	"github.com/crypto-guardian/custody/x/cash"
	"github.com/crypto-guardian/custody/x/guardian"
	"github.com/crypto-guardian/custody/x/sigs"
)

func cmdQuery(input io.Reader, output io.Writer, args []string) error {
	fl := newFlagSet("query", `
Execute a ABCI query and print JSON encoded result.
`)
	var (
		tmAddrFl = fl.String("tm", env(envTMAddr, defaultTMAddr),
			"Tendermint node address. You can use "+envTMAddr+" environment variable to set it.")
		pathFl        = fl.String("path", "", "Path to be queried. Must be one of the supported.")
		dataFl        = fl.String("data", "", "Individual query data. Format depends on the queried entity: a number for guardians and receipts, an address otherwise.")
		prefixQueryFl = fl.Bool("prefix", false, "If true, use prefix queries instead of the exact match with provided data.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}

	conf, ok := queries[*pathFl]
	if !ok {
		paths := make([]string, 0, len(queries))
		for p := range queries {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		return errors.Wrapf(errors.ErrInput, "available query paths:\n\t- %s", strings.Join(paths, "\n\t- "))
	}

	var data []byte
	if len(*dataFl) != 0 {
		var err error
		if data, err = conf.encID(*dataFl); err != nil {
			return errors.Wrap(err, "can not encode data")
		}
	}
	mod := custody.KeyQueryMod
	if *prefixQueryFl || *dataFl == "" {
		if conf.indexed {
			return errors.Wrapf(errors.ErrInput, "%s supports only exact match queries", *pathFl)
		}
		mod = custody.PrefixQueryMod
	}

	models, err := newClient(*tmAddrFl).Query(*pathFl, mod, data)
	if err != nil {
		return errors.Wrap(err, "failed to run query")
	}

	result := make([]keyval, 0, len(models))
	for i, m := range models {
		obj := conf.newObj()
		if err := obj.Unmarshal(m.Value); err != nil {
			return errors.Wrapf(err, "failed to unmarshal model %d", i)
		}
		key, err := conf.decKey(m.Key)
		if err != nil {
			return errors.Wrapf(err, "cannot decode %x key", m.Key)
		}
		result = append(result, keyval{Key: key, Value: obj})
	}
	pretty, err := json.MarshalIndent(result, "", "\t")
	if err != nil {
		return errors.Wrap(err, "cannot JSON serialize")
	}
	_, err = output.Write(append(pretty, '\n'))
	return err
}

type keyval struct {
	Key   string
	Value custody.Persistent
}

// queries contains a mapping of query path to that query specifics. Each
// query returns a custom model type and may use different ID encoding
// pattern.
var queries = map[string]struct {
	// newObj returns a new instance of the model that the result of the
	// ABCI query should be extracted into.
	newObj func() custody.Persistent
	// decKey transforms a database key into a human readable form.
	decKey func([]byte) (string, error)
	// encID parses the user input into the query data.
	encID func(string) ([]byte, error)
	// indexed is set for secondary index paths.
	indexed bool
}{
	"/wallets": {
		newObj: func() custody.Persistent { return &cash.Wallet{} },
		decKey: addressKey,
		encID:  addressID,
	},
	"/auth": {
		newObj: func() custody.Persistent { return &sigs.UserData{} },
		decKey: addressKey,
		encID:  addressID,
	},
	"/guardians": {
		newObj: func() custody.Persistent { return &guardian.Guardian{} },
		decKey: sequenceKey,
		encID:  numericID,
	},
	"/guardians/owner": {
		newObj:  func() custody.Persistent { return &guardian.Guardian{} },
		decKey:  sequenceKey,
		encID:   addressID,
		indexed: true,
	},
	"/guardians/beneficiary": {
		newObj:  func() custody.Persistent { return &guardian.Guardian{} },
		decKey:  sequenceKey,
		encID:   addressID,
		indexed: true,
	},
	"/receipts": {
		newObj: func() custody.Persistent { return &guardian.Receipt{} },
		decKey: sequenceKey,
		encID:  numericID,
	},
}

// stripBucket removes the bucket name prefix from a database key.
func stripBucket(key []byte) ([]byte, error) {
	idx := bytes.IndexByte(key, ':')
	if idx < 0 {
		return nil, errors.Wrap(errors.ErrInput, "key without bucket prefix")
	}
	return key[idx+1:], nil
}

func sequenceKey(key []byte) (string, error) {
	raw, err := stripBucket(key)
	if err != nil {
		return "", err
	}
	n, err := fromSequence(raw)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(n, 10), nil
}

func addressKey(key []byte) (string, error) {
	raw, err := stripBucket(key)
	if err != nil {
		return "", err
	}
	return custody.Address(raw).String(), nil
}

func numericID(s string) ([]byte, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot decode %q as a number", s)
	}
	return sequenceID(n), nil
}

func addressID(s string) ([]byte, error) {
	addr, err := custody.ParseAddress(s)
	if err != nil {
		return nil, err
	}
	return addr, nil
}
