package weavetest

import (
	"context"
	"fmt"

	"github.com/iov-one/bazaar"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced addresses. You can use
// either Signer or Signers (or both) attributes to reference signers.
type Auth struct {
	// Signer represents an authentication of a single signer. This is a
	// convenience attribute when creating an authentication method for a
	// single signer.
	Signer bazaar.Address

	// Signers represents an authentication of multiple signers.
	Signers []bazaar.Address
}

func (a *Auth) GetSigners(bazaar.Context) []bazaar.Address {
	if a.Signer != nil {
		return append([]bazaar.Address{a.Signer}, a.Signers...)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx bazaar.Context, addr bazaar.Address) bool {
	for _, s := range a.GetSigners(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve signers.
type CtxAuth struct {
	// Key used to set and retrieve signers from the context. For
	// convenience only string type keys are allowed.
	Key string
}

type ctxAuthKey string

// SetSigners returns a context that authenticates given addresses.
func (a *CtxAuth) SetSigners(ctx bazaar.Context, signers ...bazaar.Address) bazaar.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), signers)
}

func (a *CtxAuth) GetSigners(ctx bazaar.Context) []bazaar.Address {
	val := ctx.Value(ctxAuthKey(a.Key))
	if val == nil {
		return nil
	}
	signers, ok := val.([]bazaar.Address)
	if !ok {
		panic(fmt.Sprintf("instead of []bazaar.Address got %T", val))
	}
	if len(signers) == 0 {
		return nil
	}
	return signers
}

func (a *CtxAuth) HasAddress(ctx bazaar.Context, addr bazaar.Address) bool {
	for _, s := range a.GetSigners(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}
