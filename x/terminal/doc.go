/*
Package terminal implements the treasury terminal of the fundraising
protocol.

Each project owns a pooled balance of contributed value, denominated in
settlement units of the configured ticker. Contributions mint project
tickets for the contributor using the funding cycle weight, withdrawals
release value up to the cycle spending target, and ticket holders redeem
tickets for a share of the overflow above that target through a bonding
curve.

The terminal keeps a signed processed ticket tracker per project. The
difference between the total ticket supply and the tracker is the amount of
tickets that reserved ticket printing did not account for yet. Every
operation that changes the supply or the reserved accounting updates the
tracker within the same delivery, otherwise the reserved math diverges.

Value custody uses x/cash wallets. Each project treasury is the wallet of a
deterministic condition address derived from the project ID. The pooled
balance stored in the treasury model mirrors the settlement unit value of
that wallet.

State releasing operations run under a non-reentrant guard per operation
kind. External collaborators, the cycle scheduler, the price feed and split
allocators, are capability interfaces and may call back into the terminal.
A call that re-enters a guarded operation fails with ErrReentrancy. All
balance and tracker mutations are applied before any outbound transfer.
*/
package terminal
