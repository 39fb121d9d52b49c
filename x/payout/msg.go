package payout

import (
	"github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/migration"
)

func init() {
	migration.MustRegister(1, &SetSplitsMsg{}, migration.NoModification)
}

const pathSetSplitsMsg = "payout/set_splits"

var _ weave.Msg = (*SetSplitsMsg)(nil)

func (m *SetSplitsMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := validateProjectID(m.Project); err != nil {
		return err
	}
	if m.Group != GroupPayout && m.Group != GroupReserved {
		return errors.Wrapf(errors.ErrMsg, "unknown split group %d", m.Group)
	}
	return validateSplits(m.Group, m.Splits)
}

func (SetSplitsMsg) Path() string {
	return pathSetSplitsMsg
}
