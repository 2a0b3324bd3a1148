package sigs

import (
	"testing"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/crypto"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/store"
	"github.com/iov-one/bazaar/weavetest"
	"github.com/iov-one/bazaar/weavetest/assert"
)

// signedTx is a minimal SignedTx used across the package tests.
type signedTx struct {
	weavetest.Tx
	payload []byte
	sigs    []*StdSignature
}

var _ SignedTx = (*signedTx)(nil)

func (s *signedTx) GetSignBytes() ([]byte, error) { return s.payload, nil }
func (s *signedTx) GetSignatures() []*StdSignature { return s.sigs }

func TestVerifySignature(t *testing.T) {
	kv := store.MemStore()
	priv := weavetest.NewKey()
	pub := priv.PublicKey()

	bz := []byte("my special valentine")
	chainID := "emo-music-2345"

	sig0 := mustSign(t, priv, bz, chainID, 0)
	sig1 := mustSign(t, priv, bz, chainID, 1)
	empty := &StdSignature{Pubkey: pub, Sequence: 0}

	// wrong sequence
	_, err := VerifySignature(kv, sig1, bz, chainID)
	assert.IsErr(t, errors.ErrInvalidSequence, err)
	// wrong chain
	_, err = VerifySignature(kv, sig0, bz, "metal-music-3456")
	assert.IsErr(t, errors.ErrUnauthorized, err)
	// missing signature
	_, err = VerifySignature(kv, empty, bz, chainID)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	signer, err := VerifySignature(kv, sig0, bz, chainID)
	assert.Nil(t, err)
	assert.Equal(t, pub.Address(), signer)

	// replay fails
	_, err = VerifySignature(kv, sig0, bz, chainID)
	assert.IsErr(t, errors.ErrInvalidSequence, err)

	seq, err := NextSequence(kv, pub)
	assert.Nil(t, err)
	assert.Equal(t, int64(1), seq)

	signer, err = VerifySignature(kv, sig1, bz, chainID)
	assert.Nil(t, err)
	assert.Equal(t, pub.Address(), signer)
}

func TestVerifyTxSignatures(t *testing.T) {
	kv := store.MemStore()
	chainID := "hot_summer_days"

	a, b := weavetest.NewKey(), weavetest.NewKey()
	tx := &signedTx{payload: []byte("let the music play")}

	sigA, err := SignTx(a, tx, chainID, 0)
	assert.Nil(t, err)
	sigB, err := SignTx(b, tx, chainID, 0)
	assert.Nil(t, err)

	tx.sigs = []*StdSignature{sigA, sigB}
	signers, err := VerifyTxSignatures(kv, tx, chainID)
	assert.Nil(t, err)
	assert.Equal(t, []bazaar.Address{a.PublicKey().Address(), b.PublicKey().Address()}, signers)

	// a signature made for another payload fails
	other := &signedTx{payload: []byte("turn it off"), sigs: []*StdSignature{sigA}}
	_, err = VerifyTxSignatures(kv, other, chainID)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// no signatures yields no signers
	signers, err = VerifyTxSignatures(kv, &signedTx{}, chainID)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(signers))
}

func TestBuildSignBytes(t *testing.T) {
	cases := map[string]struct {
		chainID string
		seq     int64
		wantErr *errors.Error
	}{
		"valid":            {chainID: "test-chain", seq: 7},
		"negative seq":     {chainID: "test-chain", seq: -1, wantErr: errors.ErrInvalidSequence},
		"invalid chain id": {chainID: "no", seq: 1, wantErr: errors.ErrInvalidInput},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			bz, err := BuildSignBytes([]byte("data"), tc.chainID, tc.seq)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, 64, len(bz))
		})
	}
}

func TestCheckAndIncrementSequence(t *testing.T) {
	user := UserData{Metadata: &bazaar.Metadata{Schema: 1}, Sequence: 5}
	assert.IsErr(t, errors.ErrInvalidSequence, user.CheckAndIncrementSequence(4))
	assert.Nil(t, user.CheckAndIncrementSequence(5))
	assert.Equal(t, int64(6), user.Sequence)

	user.Sequence = maxSequenceValue
	assert.IsErr(t, errors.ErrOverflow, user.CheckAndIncrementSequence(maxSequenceValue))
}

func mustSign(t testing.TB, signer *crypto.PrivateKey, payload []byte, chainID string, seq int64) *StdSignature {
	t.Helper()
	sig, err := SignTx(signer, &signedTx{payload: payload}, chainID, seq)
	if err != nil {
		t.Fatalf("cannot sign: %s", err)
	}
	return sig
}
