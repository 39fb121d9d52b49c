package terminal

import (
	"github.com/iov-one/weave"
	"github.com/iov-one/weave/coin"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/migration"
)

func init() {
	migration.MustRegister(1, &ContributeMsg{}, migration.NoModification)
	migration.MustRegister(1, &WithdrawMsg{}, migration.NoModification)
	migration.MustRegister(1, &UseAllowanceMsg{}, migration.NoModification)
	migration.MustRegister(1, &RedeemMsg{}, migration.NoModification)
	migration.MustRegister(1, &PrintReservedMsg{}, migration.NoModification)
	migration.MustRegister(1, &MigrateMsg{}, migration.NoModification)
	migration.MustRegister(1, &AddBalanceMsg{}, migration.NoModification)
	migration.MustRegister(1, &SetWeightMsg{}, migration.NoModification)
	migration.MustRegister(1, &UpdateConfigurationMsg{}, migration.NoModification)
}

const (
	pathContributeMsg          = "terminal/contribute"
	pathWithdrawMsg            = "terminal/withdraw"
	pathUseAllowanceMsg        = "terminal/use_allowance"
	pathRedeemMsg              = "terminal/redeem"
	pathPrintReservedMsg       = "terminal/print_reserved"
	pathMigrateMsg             = "terminal/migrate"
	pathAddBalanceMsg          = "terminal/add_balance"
	pathSetWeightMsg           = "terminal/set_weight"
	pathUpdateConfigurationMsg = "terminal/update_configuration"
)

func validateAmount(amount int64) error {
	if amount <= 0 {
		return errors.Wrap(errors.ErrAmount, "positive amount required")
	}
	return nil
}

var _ weave.Msg = (*ContributeMsg)(nil)

func (m *ContributeMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := validateProjectID(m.Project); err != nil {
		return err
	}
	if err := validateAmount(m.Amount); err != nil {
		return err
	}
	if len(m.Beneficiary) == 0 {
		return errors.Wrap(errors.ErrEmpty, "beneficiary")
	}
	if err := m.Beneficiary.Validate(); err != nil {
		return errors.Wrap(err, "beneficiary")
	}
	if m.MinTickets < 0 {
		return errors.Wrap(errors.ErrMsg, "negative minimum")
	}
	return nil
}

func (ContributeMsg) Path() string {
	return pathContributeMsg
}

var _ weave.Msg = (*WithdrawMsg)(nil)

func (m *WithdrawMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := validateProjectID(m.Project); err != nil {
		return err
	}
	if err := validateAmount(m.Amount); err != nil {
		return err
	}
	if !coin.IsCC(m.Currency) {
		return errors.Wrapf(errors.ErrCurrency, "invalid currency %q", m.Currency)
	}
	if m.MinValue < 0 {
		return errors.Wrap(errors.ErrMsg, "negative minimum")
	}
	return nil
}

func (WithdrawMsg) Path() string {
	return pathWithdrawMsg
}

var _ weave.Msg = (*UseAllowanceMsg)(nil)

func (m *UseAllowanceMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := validateProjectID(m.Project); err != nil {
		return err
	}
	if err := validateAmount(m.Amount); err != nil {
		return err
	}
	if !coin.IsCC(m.Currency) {
		return errors.Wrapf(errors.ErrCurrency, "invalid currency %q", m.Currency)
	}
	if len(m.Beneficiary) == 0 {
		return errors.Wrap(errors.ErrEmpty, "beneficiary")
	}
	if err := m.Beneficiary.Validate(); err != nil {
		return errors.Wrap(err, "beneficiary")
	}
	if m.MinValue < 0 {
		return errors.Wrap(errors.ErrMsg, "negative minimum")
	}
	return nil
}

func (UseAllowanceMsg) Path() string {
	return pathUseAllowanceMsg
}

var _ weave.Msg = (*RedeemMsg)(nil)

func (m *RedeemMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := validateProjectID(m.Project); err != nil {
		return err
	}
	if err := validateAmount(m.Count); err != nil {
		return err
	}
	if len(m.Beneficiary) == 0 {
		return errors.Wrap(errors.ErrEmpty, "beneficiary")
	}
	if err := m.Beneficiary.Validate(); err != nil {
		return errors.Wrap(err, "beneficiary")
	}
	if m.MinValue < 0 {
		return errors.Wrap(errors.ErrMsg, "negative minimum")
	}
	return nil
}

func (RedeemMsg) Path() string {
	return pathRedeemMsg
}

var _ weave.Msg = (*PrintReservedMsg)(nil)

func (m *PrintReservedMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return validateProjectID(m.Project)
}

func (PrintReservedMsg) Path() string {
	return pathPrintReservedMsg
}

var _ weave.Msg = (*MigrateMsg)(nil)

func (m *MigrateMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := validateProjectID(m.Project); err != nil {
		return err
	}
	if len(m.Destination) == 0 {
		return errors.Wrap(errors.ErrEmpty, "destination")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	return nil
}

func (MigrateMsg) Path() string {
	return pathMigrateMsg
}

var _ weave.Msg = (*AddBalanceMsg)(nil)

func (m *AddBalanceMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := validateProjectID(m.Project); err != nil {
		return err
	}
	return validateAmount(m.Amount)
}

func (AddBalanceMsg) Path() string {
	return pathAddBalanceMsg
}

var _ weave.Msg = (*SetWeightMsg)(nil)

func (m *SetWeightMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := validateProjectID(m.Project); err != nil {
		return err
	}
	if m.Weight < 0 {
		return errors.Wrap(errors.ErrMsg, "negative weight")
	}
	return nil
}

func (SetWeightMsg) Path() string {
	return pathSetWeightMsg
}

var _ weave.Msg = (*UpdateConfigurationMsg)(nil)

func (m *UpdateConfigurationMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	return nil
}

func (UpdateConfigurationMsg) Path() string {
	return pathUpdateConfigurationMsg
}
