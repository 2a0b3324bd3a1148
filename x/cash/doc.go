/*
Package cash implements single asset holding accounts.

Every account holds exactly one asset and belongs to an owner. The owner is
either an identity holding a private key or a derived address that only a
program can act for. The address of an account is derived from its owner
and asset, so that anybody can locate the account of a given owner.

Opening an account charges an existence reserve, paid in the native asset
by whoever opens it. The reserve is given back to a beneficiary when the
account is closed.
*/
package cash
