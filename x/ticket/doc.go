/*
Package ticket implements the dual representation project ticket ledger.

Every fundraising project can issue tickets. A ticket exists in one of two
representations. Staked tickets are tracked by this package in per holder
accounts and can be locked by third parties. Unstaked tickets are regular
coins of the ticker registered for the project, custodied by x/cash wallets
and freely transferable.

The ledger guarantees that for every holder the locked amount never exceeds
the staked amount, and that the per project staked supply always equals the
sum of all staked account balances. Minting and burning are not exposed as
messages. They are capabilities of the Controller, held by the treasury
terminal serving the project.
*/
package ticket
