package terminal

import (
	"strconv"

	"github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/gconf"
	"github.com/iov-one/weave/migration"
	"github.com/iov-one/weave/x"
)

const (
	contributeCost int64 = 50
	releaseCost    int64 = 100
	updateCost     int64 = 10
)

// RegisterRoutes registers handlers for all terminal message types.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, ctrl *Controller) {
	r = migration.SchemaMigratingRegistry("terminal", r)

	r.Handle(&ContributeMsg{}, &contributeHandler{auth: auth, ctrl: ctrl})
	r.Handle(&WithdrawMsg{}, &withdrawHandler{auth: auth, ctrl: ctrl})
	r.Handle(&UseAllowanceMsg{}, &useAllowanceHandler{auth: auth, ctrl: ctrl})
	r.Handle(&RedeemMsg{}, &redeemHandler{auth: auth, ctrl: ctrl})
	r.Handle(&PrintReservedMsg{}, &printReservedHandler{auth: auth, ctrl: ctrl})
	r.Handle(&MigrateMsg{}, &migrateHandler{auth: auth, ctrl: ctrl})
	r.Handle(&AddBalanceMsg{}, &addBalanceHandler{auth: auth, ctrl: ctrl})
	r.Handle(&SetWeightMsg{}, &setWeightHandler{auth: auth, ctrl: ctrl})
	r.Handle(&UpdateConfigurationMsg{}, gconf.NewUpdateConfigurationHandler(
		"terminal", &Configuration{}, auth, migration.CurrentAdmin))
}

// RegisterQuery registers terminal buckets for queries.
func RegisterQuery(qr weave.QueryRouter) {
	NewTreasuryBucket().Register("treasuries", qr)
}

// fundLog reports the settlement unit or ticket amount an operation moved.
func fundLog(amount int64) string {
	return strconv.FormatInt(amount, 10)
}

func txSigner(ctx weave.Context, auth x.Authenticator) (weave.Address, error) {
	signer := x.AnySigner(ctx, auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "signature required")
	}
	return signer.Address(), nil
}

type contributeHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ weave.Handler = (*contributeHandler)(nil)

func (h *contributeHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: contributeCost}, nil
}

func (h *contributeHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, payer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	minted, err := h.ctrl.Contribute(db, payer, msg.Project, msg.Amount, msg.Beneficiary, msg.MinTickets, msg.PreferUnstaked, msg.Memo)
	if err != nil {
		return nil, err
	}
	return &weave.DeliverResult{Log: fundLog(minted)}, nil
}

func (h *contributeHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*ContributeMsg, weave.Address, error) {
	var msg ContributeMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	payer, err := txSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, payer, nil
}

type withdrawHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ weave.Handler = (*withdrawHandler)(nil)

func (h *withdrawHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: releaseCost}, nil
}

func (h *withdrawHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	released, err := h.ctrl.Withdraw(db, msg.Project, msg.Amount, msg.Currency, msg.MinValue)
	if err != nil {
		return nil, err
	}
	return &weave.DeliverResult{Log: fundLog(released)}, nil
}

// Withdrawing is permissionless. The released value always flows through
// the configured splits and the remainder to the project owner.
func (h *withdrawHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*WithdrawMsg, error) {
	var msg WithdrawMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &msg, nil
}

type useAllowanceHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ weave.Handler = (*useAllowanceHandler)(nil)

func (h *useAllowanceHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: releaseCost}, nil
}

func (h *useAllowanceHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	released, err := h.ctrl.UseAllowance(db, msg.Project, msg.Amount, msg.Currency, msg.Beneficiary, msg.MinValue)
	if err != nil {
		return nil, err
	}
	return &weave.DeliverResult{Log: fundLog(released)}, nil
}

func (h *useAllowanceHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*UseAllowanceMsg, error) {
	var msg UseAllowanceMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	owner, err := h.ctrl.projects.OwnerOf(db, msg.Project)
	if err != nil {
		return nil, errors.Wrap(err, "project owner")
	}
	if !h.auth.HasAddress(ctx, owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "project owner signature required")
	}
	return &msg, nil
}

type redeemHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ weave.Handler = (*redeemHandler)(nil)

func (h *redeemHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: releaseCost}, nil
}

func (h *redeemHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, account, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	paid, err := h.ctrl.Redeem(db, account, msg.Project, msg.Count, msg.MinValue, msg.Beneficiary, msg.PreferUnstaked)
	if err != nil {
		return nil, err
	}
	return &weave.DeliverResult{Log: fundLog(paid)}, nil
}

func (h *redeemHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*RedeemMsg, weave.Address, error) {
	var msg RedeemMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	account, err := txSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, account, nil
}

type printReservedHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ weave.Handler = (*printReservedHandler)(nil)

func (h *printReservedHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: releaseCost}, nil
}

func (h *printReservedHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	minted, err := h.ctrl.PrintReservedTickets(db, msg.Project)
	if err != nil {
		return nil, err
	}
	return &weave.DeliverResult{Log: fundLog(minted)}, nil
}

func (h *printReservedHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*PrintReservedMsg, error) {
	var msg PrintReservedMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &msg, nil
}

type migrateHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ weave.Handler = (*migrateHandler)(nil)

func (h *migrateHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: releaseCost}, nil
}

func (h *migrateHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Migrate(db, msg.Project, msg.Destination); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{Data: msg.Project}, nil
}

func (h *migrateHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*MigrateMsg, error) {
	var msg MigrateMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	owner, err := h.ctrl.projects.OwnerOf(db, msg.Project)
	if err != nil {
		return nil, errors.Wrap(err, "project owner")
	}
	if !h.auth.HasAddress(ctx, owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "project owner signature required")
	}
	return &msg, nil
}

type addBalanceHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ weave.Handler = (*addBalanceHandler)(nil)

func (h *addBalanceHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: contributeCost}, nil
}

func (h *addBalanceHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, payer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.AddToBalance(db, payer, msg.Project, msg.Amount, msg.Memo); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{}, nil
}

func (h *addBalanceHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*AddBalanceMsg, weave.Address, error) {
	var msg AddBalanceMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	payer, err := txSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, payer, nil
}

type setWeightHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ weave.Handler = (*setWeightHandler)(nil)

func (h *setWeightHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: updateCost}, nil
}

func (h *setWeightHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.SetWeight(db, msg.Project, msg.Weight); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{}, nil
}

func (h *setWeightHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*SetWeightMsg, error) {
	var msg SetWeightMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	owner, err := h.ctrl.projects.OwnerOf(db, msg.Project)
	if err != nil {
		return nil, errors.Wrap(err, "project owner")
	}
	if !h.auth.HasAddress(ctx, owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "project owner signature required")
	}
	return &msg, nil
}
