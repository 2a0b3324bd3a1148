package bazaar

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/weavetest/assert"
)

func TestParseAddress(t *testing.T) {
	raw := bytes.Repeat([]byte{0x42}, AddressLength)
	addr := Address(raw)
	b32, err := addr.Bech32("bzr")
	assert.Nil(t, err)

	cases := map[string]struct {
		enc     string
		want    Address
		wantErr *errors.Error
	}{
		"base58": {
			enc:  addr.String(),
			want: addr,
		},
		"hex": {
			enc:  "hex:" + hex.EncodeToString(raw),
			want: addr,
		},
		"bech32": {
			enc:  "bech32:" + b32,
			want: addr,
		},
		"empty": {
			enc:  "",
			want: nil,
		},
		"unknown format": {
			enc:     "zzz:abc",
			wantErr: errors.ErrInvalidType,
		},
		"bad base58": {
			enc:     "0OIl",
			wantErr: errors.ErrInvalidInput,
		},
		"bad hex": {
			enc:     "hex:xyz",
			wantErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := ParseAddress(tc.enc)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAddressJSON(t *testing.T) {
	addr := Address(bytes.Repeat([]byte{7}, AddressLength))
	raw, err := json.Marshal(addr)
	assert.Nil(t, err)
	if !strings.Contains(string(raw), addr.String()) {
		t.Fatalf("unexpected json %s", raw)
	}

	var back Address
	assert.Nil(t, json.Unmarshal(raw, &back))
	assert.Equal(t, addr, back)

	var empty Address
	raw, err = json.Marshal(empty)
	assert.Nil(t, err)
	assert.Equal(t, `""`, string(raw))
}

func TestAddressHelpers(t *testing.T) {
	addr := Address(bytes.Repeat([]byte{1}, AddressLength))
	cpy := addr.Clone()
	assert.Equal(t, addr, cpy)
	cpy[0] = 9
	if addr[0] == 9 {
		t.Fatal("clone shares memory")
	}

	assert.Nil(t, addr.Validate())
	assert.IsErr(t, errors.ErrInvalidInput, Address("short").Validate())
	assert.Equal(t, "(nil)", Address(nil).String())
}
