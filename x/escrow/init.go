package escrow

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/gconf"
)

// Initializer stores the escrow configuration from the genesis file.
type Initializer struct{}

var _ bazaar.Initializer = Initializer{}

// FromGenesis reads conf.escrow from the genesis.
func (Initializer) FromGenesis(opts bazaar.Options, kv bazaar.KVStore) error {
	return errors.Wrap(gconf.InitConfig(kv, opts, packageName, &Configuration{}), "init config")
}
