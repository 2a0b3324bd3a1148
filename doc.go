/*
Package bazaar defines the interfaces shared by all packages of the escrow
settlement application, as well as implementations of the simpler
components (when interfaces would be too much overhead).

Context is passed through context.Context between the application,
decorators and handlers. For every value XYZ of type T that can be stored in
the context there are two functions:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)

WithXYZ panics if the value was previously set, so that lower-level code
cannot overwrite it.

Addresses are 32 bytes. An address is either an ed25519 public key of an
identity, or a program derived address that no private key controls (see
FindProgramAddress). Derived addresses are how escrow records, custody vaults
and holding accounts are located without any mutable registry.
*/
package bazaar
