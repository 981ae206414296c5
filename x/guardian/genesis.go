package guardian

import (
	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/errors"
	"github.com/crypto-guardian/custody/gconf"
)

const optKey = "guardian"

// Initializer fulfils the custody.Initializer interface to load guardians
// and the extension configuration from the genesis file.
type Initializer struct{}

var _ custody.Initializer = (*Initializer)(nil)

// FromGenesis stores all guardians listed under the "guardian" key, in
// order, and the configuration found under "conf.guardian".
func (*Initializer) FromGenesis(opts custody.Options, db custody.KVStore) error {
	if err := gconf.InitConfig(db, opts, packageName, &Configuration{}); err != nil && !errors.ErrNotFound.Is(err) {
		return errors.Wrap(err, "init config")
	}

	var guardians []Guardian
	if err := opts.ReadOptions(optKey, &guardians); err != nil {
		return err
	}
	bucket := NewGuardianBucket()
	for i := range guardians {
		if _, err := bucket.Create(db, &guardians[i]); err != nil {
			return errors.Wrapf(err, "guardian #%d", i)
		}
	}
	return nil
}
