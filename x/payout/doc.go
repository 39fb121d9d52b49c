/*
Package payout implements weighted payment splitting.

A project owner configures a list of splits per group. The payout group
routes withdrawn funds, the reserved group routes reserved ticket prints.
Each split claims a fixed fraction of the distributed amount, expressed in
1/10000 units. The fractions of a group must not sum up to more than the
whole.

A split share can be routed three ways. A named allocator receives the share
through application provided code. A project receives the share as a
contribution through its terminal. A plain beneficiary receives the share
directly. Distribution is ordered and fails fast, a failing split aborts the
whole distribution.
*/
package payout
