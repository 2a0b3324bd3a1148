/*
Package x contains the standard extensions of the application.

Extensions implement common functionality (Handler, Decorator,
etc.) and can be combined together to construct an application.

This package itself defines the Authenticator interface, used by every
handler to learn which addresses authorized the current operation.
Note that protobuf types in exported code will be prefixed by the package,
so follow standard go naming conventions and avoid stutter. Use eg.
`escrow.CreateMsg` in place of `escrow.CreateEscrowMsg`.
*/
package x
