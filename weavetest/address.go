package weavetest

import (
	"testing"

	"github.com/iov-one/bazaar"
)

// ParseAddress takes an address in a human readable format and returns
// its binary representation. This function is a test helper that is using
// bazaar.ParseAddress function functionality.
func ParseAddress(t testing.TB, encodedAddress string) bazaar.Address {
	t.Helper()

	addr, err := bazaar.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
