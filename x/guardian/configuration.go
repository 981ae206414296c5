package guardian

import (
	"github.com/crypto-guardian/custody"
	"github.com/crypto-guardian/custody/coin"
	"github.com/crypto-guardian/custody/errors"
	"github.com/crypto-guardian/custody/gconf"
)

const packageName = "guardian"

// Configuration of the guardian extension, stored with gconf.
type Configuration struct {
	// Owner can update the configuration.
	Owner custody.Address `json:"owner"`
	// NativeTicker is distributed by guardians that list no assets.
	NativeTicker string `json:"native_ticker"`
	// MaxBeneficiaries limits the size of a registry. Zero means no limit.
	MaxBeneficiaries int32 `json:"max_beneficiaries"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) GetOwner() custody.Address { return c.Owner }

func (c *Configuration) Validate() error {
	var errs error
	if len(c.Owner) != 0 {
		errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	}
	if !coin.IsTicker(c.NativeTicker) {
		errs = errors.AppendField(errs, "NativeTicker", errors.ErrCurrency)
	}
	if c.MaxBeneficiaries < 0 {
		errs = errors.AppendField(errs, "MaxBeneficiaries", errors.ErrInput)
	}
	return errs
}

// loadConf returns the stored configuration, or the defaults if none was
// saved.
func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	switch err := gconf.Load(db, packageName, &conf); {
	case err == nil:
		return &conf, nil
	case errors.ErrNotFound.Is(err):
		return &Configuration{NativeTicker: DefaultNativeTicker}, nil
	default:
		return nil, err
	}
}
