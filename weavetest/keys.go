package weavetest

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/crypto"
)

// NewKey returns a new random ed25519 private key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewAddress returns the address of a new random key.
func NewAddress() bazaar.Address {
	return NewKey().PublicKey().Address()
}
