/*
Package escrow implements a two party conditional swap.

A maker deposits an amount of asset A into a vault and names the amount of
asset B expected in return. Any taker can fulfill the trade by paying that
amount of B to the maker, receiving the whole vault in exchange. Until then
the maker can cancel and take the deposit back.

Every escrow is a record stored under an address derived from the maker
and a salt chosen by the maker. The vault is the holding account of asset A
owned by the record address. Nobody holds a key for either address, only
this package can move the vault funds.

Record and vault are created together by Create and destroyed together by
Cancel or Fulfill. Both existence reserves go back to the maker, whoever
triggers the destruction. Once destroyed the salt can be used again.
*/
package escrow
