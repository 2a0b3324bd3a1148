package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// Genesis is the content of a genesis file.
type Genesis struct {
	ChainID  string          `json:"chain_id"`
	AppState json.RawMessage `json:"app_state"`
}

// Validate checks the chain id and that the state is present.
func (g *Genesis) Validate() error {
	if !bazaar.IsValidChainID(g.ChainID) {
		return errors.Wrapf(errors.ErrInvalidInput, "chain id: %q", g.ChainID)
	}
	if len(g.AppState) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app state")
	}
	return nil
}

// LoadGenesis reads and validates a genesis file.
func LoadGenesis(filePath string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "read genesis: %s", err)
	}
	var g Genesis
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "parse genesis: %s", err)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &g, nil
}

// InitFromGenesis initializes the application state from the genesis.
func (b *BaseApp) InitFromGenesis(g *Genesis) error {
	return b.InitChain(g.ChainID, g.AppState)
}
