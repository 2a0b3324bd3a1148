package cash

import (
	"github.com/iov-one/bazaar"
)

// ProgramID namespaces the addresses of holding accounts.
var ProgramID = bazaar.NewProgramID("cash")

const accountSeed = "cash"

func accountSeeds(owner bazaar.Address, asset string) [][]byte {
	return [][]byte{owner, []byte(accountSeed), []byte(asset)}
}

// AccountAddress returns the address of the holding account of owner for the
// given asset, together with its bump.
func AccountAddress(owner bazaar.Address, asset string) (bazaar.Address, uint8, error) {
	return bazaar.FindProgramAddress(accountSeeds(owner, asset), ProgramID)
}
