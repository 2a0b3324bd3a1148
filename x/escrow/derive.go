package escrow

import (
	"encoding/binary"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/x/cash"
)

// ProgramID namespaces the addresses of escrow records.
var ProgramID = bazaar.NewProgramID("escrow")

const recordSeed = "escrow"

func recordSeeds(maker bazaar.Address, salt uint64) [][]byte {
	s := make([]byte, 8)
	binary.LittleEndian.PutUint64(s, salt)
	return [][]byte{[]byte(recordSeed), maker, s}
}

// RecordAddress returns the address of the escrow record of maker with the
// given salt, together with the canonical bump.
func RecordAddress(maker bazaar.Address, salt uint64) (bazaar.Address, uint8, error) {
	return bazaar.FindProgramAddress(recordSeeds(maker, salt), ProgramID)
}

// VaultAddress returns the address of the vault of an escrow record.
func VaultAddress(record bazaar.Address, assetA string) (bazaar.Address, error) {
	addr, _, err := cash.AccountAddress(record, assetA)
	return addr, err
}

// verifyAddresses recomputes the record and vault addresses from the stored
// parameters and compares them with the supplied ones.
func verifyAddresses(e *Escrow, record, vault bazaar.Address) error {
	if e.Bump > 255 {
		return errors.Wrapf(errors.ErrInvalidModel, "bump %d", e.Bump)
	}
	want, err := bazaar.CreateProgramAddress(recordSeeds(e.Maker, e.Salt), uint8(e.Bump), ProgramID)
	if err != nil {
		return errors.Wrap(errors.ErrAddressMismatch, err.Error())
	}
	if !want.Equals(record) {
		return errors.Wrapf(errors.ErrAddressMismatch, "escrow %s, derived %s", record, want)
	}
	wantVault, err := VaultAddress(record, e.AssetA)
	if err != nil {
		return err
	}
	if !wantVault.Equals(vault) {
		return errors.Wrapf(errors.ErrAddressMismatch, "vault %s, derived %s", vault, wantVault)
	}
	return nil
}
