package terminal

import (
	"github.com/iov-one/weave/errors"
)

var (
	// ErrInadequate is returned when a computed result undercuts a caller
	// specified minimum. This is the slippage protection failure.
	ErrInadequate = errors.Register(1110, "inadequate")

	// ErrReentrancy is returned when a guarded operation is entered again
	// before the first call finished.
	ErrReentrancy = errors.Register(1111, "reentrancy")

	// ErrNotAllowed is returned when an operation is blocked by a guard
	// that is not an authorization check, for example a migration to a
	// terminal that is not allow listed.
	ErrNotAllowed = errors.Register(1112, "not allowed")
)
