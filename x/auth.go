package x

import (
	"github.com/iov-one/bazaar"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system,
// rather than hard-coding x/sigs for all extensions.
type Authenticator interface {
	// GetSigners reveals all addresses that authorized the current
	// operation.
	GetSigners(bazaar.Context) []bazaar.Address
	// HasAddress checks if any signer matches this address
	HasAddress(bazaar.Context, bazaar.Address) bool
}

// MultiAuth chains together many Authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetSigners combines all signers from all Authenticators, without
// duplicates.
func (m MultiAuth) GetSigners(ctx bazaar.Context) []bazaar.Address {
	var res []bazaar.Address
	for _, impl := range m.impls {
		for _, addr := range impl.GetSigners(ctx) {
			if !containsAddress(res, addr) {
				res = append(res, addr)
			}
		}
	}
	return res
}

// HasAddress returns true iff any Authenticator support this
func (m MultiAuth) HasAddress(ctx bazaar.Context, addr bazaar.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first signer if any, otherwise nil
func MainSigner(ctx bazaar.Context, auth Authenticator) bazaar.Address {
	signers := auth.GetSigners(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// HasAllAddresses returns true if all elements in required are
// also in context.
func HasAllAddresses(ctx bazaar.Context, auth Authenticator, required []bazaar.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}

// HasNAddresses returns true if at least n elements in requested are
// also in context.
func HasNAddresses(ctx bazaar.Context, auth Authenticator, required []bazaar.Address, n int) bool {
	if n <= 0 {
		return true
	}
	for _, r := range required {
		if auth.HasAddress(ctx, r) {
			n--
			if n == 0 {
				return true
			}
		}
	}
	return false
}

func containsAddress(addrs []bazaar.Address, addr bazaar.Address) bool {
	for _, a := range addrs {
		if a.Equals(addr) {
			return true
		}
	}
	return false
}
