package ticket

import (
	"regexp"

	"github.com/iov-one/weave"
	"github.com/iov-one/weave/coin"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/migration"
)

func init() {
	migration.MustRegister(1, &IssueTokenMsg{}, migration.NoModification)
	migration.MustRegister(1, &StakeMsg{}, migration.NoModification)
	migration.MustRegister(1, &UnstakeMsg{}, migration.NoModification)
	migration.MustRegister(1, &LockMsg{}, migration.NoModification)
	migration.MustRegister(1, &UnlockMsg{}, migration.NoModification)
	migration.MustRegister(1, &TransferMsg{}, migration.NoModification)
}

const (
	pathIssueTokenMsg = "ticket/issue"
	pathStakeMsg      = "ticket/stake"
	pathUnstakeMsg    = "ticket/unstake"
	pathLockMsg       = "ticket/lock"
	pathUnlockMsg     = "ticket/unlock"
	pathTransferMsg   = "ticket/transfer"
)

var isTokenName = regexp.MustCompile(`^[A-Za-z0-9 \-_:]{3,32}$`).MatchString

var _ weave.Msg = (*IssueTokenMsg)(nil)

func (m *IssueTokenMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := validateProjectID(m.Project); err != nil {
		return err
	}
	if !isTokenName(m.Name) {
		return errors.Wrapf(errors.ErrMsg, "invalid token name %q", m.Name)
	}
	if !coin.IsCC(m.Ticker) {
		return errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", m.Ticker)
	}
	return nil
}

func (IssueTokenMsg) Path() string {
	return pathIssueTokenMsg
}

// validateAmount ensures a message amount is a positive ticket count. Zero
// amount operations are rejected outright rather than silently ignored.
func validateAmount(amount int64) error {
	if amount <= 0 {
		return errors.Wrap(errors.ErrAmount, "positive amount required")
	}
	return nil
}

var _ weave.Msg = (*StakeMsg)(nil)

func (m *StakeMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := validateProjectID(m.Project); err != nil {
		return err
	}
	return validateAmount(m.Amount)
}

func (StakeMsg) Path() string {
	return pathStakeMsg
}

var _ weave.Msg = (*UnstakeMsg)(nil)

func (m *UnstakeMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := validateProjectID(m.Project); err != nil {
		return err
	}
	return validateAmount(m.Amount)
}

func (UnstakeMsg) Path() string {
	return pathUnstakeMsg
}

var _ weave.Msg = (*LockMsg)(nil)

func (m *LockMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := validateProjectID(m.Project); err != nil {
		return err
	}
	if err := m.Holder.Validate(); err != nil {
		return errors.Wrap(err, "holder")
	}
	return validateAmount(m.Amount)
}

func (LockMsg) Path() string {
	return pathLockMsg
}

var _ weave.Msg = (*UnlockMsg)(nil)

func (m *UnlockMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := validateProjectID(m.Project); err != nil {
		return err
	}
	if err := m.Holder.Validate(); err != nil {
		return errors.Wrap(err, "holder")
	}
	return validateAmount(m.Amount)
}

func (UnlockMsg) Path() string {
	return pathUnlockMsg
}

var _ weave.Msg = (*TransferMsg)(nil)

func (m *TransferMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := validateProjectID(m.Project); err != nil {
		return err
	}
	if len(m.Recipient) == 0 {
		return errors.Wrap(errors.ErrEmpty, "recipient")
	}
	if err := m.Recipient.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	return validateAmount(m.Amount)
}

func (TransferMsg) Path() string {
	return pathTransferMsg
}
