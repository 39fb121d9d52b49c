package ticket

import (
	"github.com/iov-one/weave/errors"
)

var (
	// ErrInsufficientFunds is returned when a requested amount exceeds
	// what the holder can spend: the unstaked balance plus the unlocked
	// part of the staked balance.
	ErrInsufficientFunds = errors.Register(1100, "insufficient funds")
)
