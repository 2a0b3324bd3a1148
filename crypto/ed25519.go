package crypto

import (
	"github.com/iov-one/bazaar/errors"
	"golang.org/x/crypto/ed25519"
)

// Verify verifies the signature was created with this message and public key
func (m *PublicKey) Verify(message []byte, sig *Signature) bool {
	if m == nil || sig == nil {
		return false
	}
	if len(m.Ed25519) != ed25519.PublicKeySize || len(sig.Ed25519) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(m.Ed25519), message, sig.Ed25519)
}

// Validate checks the key has the right size.
func (m *PublicKey) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrEmpty, "public key")
	}
	if len(m.Ed25519) != ed25519.PublicKeySize {
		return errors.Wrapf(errors.ErrInvalidInput, "public key length %d", len(m.Ed25519))
	}
	return nil
}

var _ Signer = (*PrivateKey)(nil)

// Sign returns a matching signature for this private key
func (m *PrivateKey) Sign(message []byte) (*Signature, error) {
	if len(m.Ed25519) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "private key length %d", len(m.Ed25519))
	}
	bz := ed25519.Sign(ed25519.PrivateKey(m.Ed25519), message)
	return &Signature{Ed25519: bz}, nil
}

// PublicKey returns the corresponding PublicKey
func (m *PrivateKey) PublicKey() *PublicKey {
	pub := ed25519.PrivateKey(m.Ed25519).Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	return &PrivateKey{Ed25519: ed25519.NewKeyFromSeed(seed)}
}
