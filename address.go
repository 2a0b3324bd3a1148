package bazaar

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"strings"

	"filippo.io/edwards25519"
	"github.com/btcsuite/btcutil/bech32"
	"github.com/iov-one/bazaar/errors"
	"github.com/mr-tron/base58"
)

// AddressLength is the length of all addresses.
const AddressLength = 32

// Address identifies an account. It is either the ed25519 public key of an
// identity, or a program derived address (see FindProgramAddress).
//
// The canonical text form is base58.
type Address []byte

// Equals checks if two addresses are the same.
func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// Clone returns a copy that does not share memory with a.
func (a Address) Clone() Address {
	if a == nil {
		return nil
	}
	cpy := make(Address, len(a))
	copy(cpy, a)
	return cpy
}

// String returns the base58 representation.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return base58.Encode(a)
}

// Validate returns an error if the address is not the valid size.
func (a Address) Validate() error {
	if len(a) != AddressLength {
		return errors.Wrapf(errors.ErrInvalidInput, "address length %d", len(a))
	}
	return nil
}

// IsOnCurve returns true if the address is a valid compressed ed25519
// point. Only such addresses can have a private key.
func (a Address) IsOnCurve() bool {
	if len(a) != AddressLength {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(a)
	return err == nil
}

// Bech32 returns the bech32 representation with the given human readable
// part.
func (a Address) Bech32(hrp string) (string, error) {
	conv, err := bech32.ConvertBits(a, 8, 5, true)
	if err != nil {
		return "", errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	s, err := bech32.Encode(hrp, conv)
	if err != nil {
		return "", errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return s, nil
}

// MarshalJSON provides a base58 representation for JSON, to override the
// standard base64 []byte encoding.
func (a Address) MarshalJSON() ([]byte, error) {
	if len(a) == 0 {
		return json.Marshal("")
	}
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts any text form understood by ParseAddress.
func (a *Address) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	addr, err := ParseAddress(enc)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// ParseAddress decodes an address from its text form. Without a prefix the
// text is base58. Prefixes "hex:" and "bech32:" select another encoding.
// An empty string decodes into a nil address.
func ParseAddress(enc string) (Address, error) {
	format := "base58"
	if chunks := strings.SplitN(enc, ":", 2); len(chunks) == 2 {
		format, enc = chunks[0], chunks[1]
	}
	if len(enc) == 0 {
		return nil, nil
	}

	var (
		raw []byte
		err error
	)
	switch format {
	case "base58":
		raw, err = base58.Decode(enc)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "base58: %s", err)
		}
	case "hex":
		raw, err = hex.DecodeString(enc)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "hex: %s", err)
		}
	case "bech32":
		_, data, err := bech32.Decode(enc)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "bech32: %s", err)
		}
		raw, err = bech32.ConvertBits(data, 5, 8, false)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "bech32: %s", err)
		}
	default:
		return nil, errors.Wrapf(errors.ErrInvalidType, "unknown format %q", format)
	}

	addr := Address(raw)
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}
