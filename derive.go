package bazaar

import (
	"crypto/sha256"

	"github.com/iov-one/bazaar/errors"
)

const (
	// MaxSeeds is the maximum number of seeds used to derive an address.
	MaxSeeds = 16
	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32

	pdaMarker = "ProgramDerivedAddress"
)

// NewProgramID returns the identifier of a program. Program identifiers
// namespace derived addresses, so that two programs never derive the same
// address from the same seeds.
func NewProgramID(name string) Address {
	h := sha256.Sum256([]byte("bazaar/program/" + name))
	return h[:]
}

// CreateProgramAddress computes the address for the given seeds and bump.
//
//   sha256(seed_0 | ... | seed_n | bump | program | "ProgramDerivedAddress")
//
// The result must not be a point on the ed25519 curve, otherwise a private
// key could exist for it. Such a bump is rejected with ErrInvalidInput.
func CreateProgramAddress(seeds [][]byte, bump uint8, program Address) (Address, error) {
	if err := validateSeeds(seeds); err != nil {
		return nil, err
	}
	if err := program.Validate(); err != nil {
		return nil, errors.Wrap(err, "program")
	}
	addr := hashSeeds(seeds, bump, program)
	if addr.IsOnCurve() {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "bump %d gives an address on the curve", bump)
	}
	return addr, nil
}

// FindProgramAddress searches for the canonical bump, starting from 255 and
// going down, and returns the first address that is off the ed25519 curve.
//
// The result is a pure function of the seeds and the program. Anybody can
// recompute it, and nobody holds a key for it.
func FindProgramAddress(seeds [][]byte, program Address) (Address, uint8, error) {
	if err := validateSeeds(seeds); err != nil {
		return nil, 0, err
	}
	if err := program.Validate(); err != nil {
		return nil, 0, errors.Wrap(err, "program")
	}
	for bump := 255; bump >= 0; bump-- {
		addr := hashSeeds(seeds, uint8(bump), program)
		if !addr.IsOnCurve() {
			return addr, uint8(bump), nil
		}
	}
	return nil, 0, errors.ErrNoViableBump
}

// MustFindProgramAddress is FindProgramAddress for seeds known to be valid.
// It panics on error.
func MustFindProgramAddress(seeds [][]byte, program Address) (Address, uint8) {
	addr, bump, err := FindProgramAddress(seeds, program)
	if err != nil {
		panic(err)
	}
	return addr, bump
}

func hashSeeds(seeds [][]byte, bump uint8, program Address) Address {
	h := sha256.New()
	for _, s := range seeds {
		h.Write(s)
	}
	h.Write([]byte{bump})
	h.Write(program)
	h.Write([]byte(pdaMarker))
	return h.Sum(nil)
}

func validateSeeds(seeds [][]byte) error {
	if len(seeds) > MaxSeeds {
		return errors.Wrapf(errors.ErrInvalidInput, "too many seeds: %d", len(seeds))
	}
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return errors.Wrapf(errors.ErrInvalidInput, "seed %d too long: %d", i, len(s))
		}
	}
	return nil
}
