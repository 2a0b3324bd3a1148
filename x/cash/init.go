package cash

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/gconf"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file. Each entry
// mints a balance for the owner.
type GenesisAccount struct {
	Owner  bazaar.Address `json:"owner"`
	Asset  string         `json:"asset"`
	Amount uint64         `json:"amount"`
}

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct{}

var _ bazaar.Initializer = Initializer{}

// FromGenesis stores the configuration and mints all genesis balances.
func (Initializer) FromGenesis(opts bazaar.Options, kv bazaar.KVStore) error {
	if err := gconf.InitConfig(kv, opts, packageName, &Configuration{}); err != nil {
		return errors.Wrap(err, "init config")
	}

	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	ctrl := NewController(NewBucket())
	for i, acct := range accts {
		if err := acct.Owner.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		if _, err := ctrl.Mint(kv, acct.Owner, acct.Asset, acct.Amount); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}
