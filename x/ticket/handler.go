package ticket

import (
	"github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/migration"
	"github.com/iov-one/weave/x"
)

const (
	issueTokenCost int64 = 100
	moveTicketCost int64 = 10
)

// ProjectRegistry resolves the owner of a registered project. Issuing the
// project token is restricted to the owner.
type ProjectRegistry interface {
	OwnerOf(db weave.KVStore, project []byte) (weave.Address, error)
}

// RegisterRoutes registers handlers for all ticket message types.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, ctrl *Controller, projects ProjectRegistry) {
	r = migration.SchemaMigratingRegistry("ticket", r)

	r.Handle(&IssueTokenMsg{}, &issueTokenHandler{auth: auth, ctrl: ctrl, projects: projects})
	r.Handle(&StakeMsg{}, &stakeHandler{auth: auth, ctrl: ctrl})
	r.Handle(&UnstakeMsg{}, &unstakeHandler{auth: auth, ctrl: ctrl})
	r.Handle(&LockMsg{}, &lockHandler{auth: auth, ctrl: ctrl})
	r.Handle(&UnlockMsg{}, &unlockHandler{auth: auth, ctrl: ctrl})
	r.Handle(&TransferMsg{}, &transferHandler{auth: auth, ctrl: ctrl})
}

// RegisterQuery registers ticket buckets for queries.
func RegisterQuery(qr weave.QueryRouter) {
	NewTokenBucket().Register("tickettokens", qr)
	NewAccountBucket().Register("ticketaccounts", qr)
	NewGrantBucket().Register("ticketgrants", qr)
	NewSupplyBucket().Register("ticketsupplies", qr)
}

type issueTokenHandler struct {
	auth     x.Authenticator
	ctrl     *Controller
	projects ProjectRegistry
}

var _ weave.Handler = (*issueTokenHandler)(nil)

func (h *issueTokenHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: issueTokenCost}, nil
}

func (h *issueTokenHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Issue(db, msg.Project, msg.Name, msg.Ticker); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{Data: msg.Project}, nil
}

func (h *issueTokenHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*IssueTokenMsg, error) {
	var msg IssueTokenMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	owner, err := h.projects.OwnerOf(db, msg.Project)
	if err != nil {
		return nil, errors.Wrap(err, "project owner")
	}
	if !h.auth.HasAddress(ctx, owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "project owner signature required")
	}
	return &msg, nil
}

type stakeHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ weave.Handler = (*stakeHandler)(nil)

func (h *stakeHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: moveTicketCost}, nil
}

func (h *stakeHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, holder, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Stake(db, holder, msg.Project, msg.Amount); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{}, nil
}

func (h *stakeHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*StakeMsg, weave.Address, error) {
	var msg StakeMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	holder := x.AnySigner(ctx, h.auth)
	if holder == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "signature required")
	}
	return &msg, holder.Address(), nil
}

type unstakeHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ weave.Handler = (*unstakeHandler)(nil)

func (h *unstakeHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: moveTicketCost}, nil
}

func (h *unstakeHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, holder, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Unstake(db, holder, msg.Project, msg.Amount); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{}, nil
}

func (h *unstakeHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*UnstakeMsg, weave.Address, error) {
	var msg UnstakeMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	holder := x.AnySigner(ctx, h.auth)
	if holder == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "signature required")
	}
	return &msg, holder.Address(), nil
}

type lockHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ weave.Handler = (*lockHandler)(nil)

func (h *lockHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: moveTicketCost}, nil
}

func (h *lockHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, locker, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Lock(db, locker, msg.Holder, msg.Project, msg.Amount); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{}, nil
}

func (h *lockHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*LockMsg, weave.Address, error) {
	var msg LockMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	locker := x.AnySigner(ctx, h.auth)
	if locker == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "signature required")
	}
	return &msg, locker.Address(), nil
}

type unlockHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ weave.Handler = (*unlockHandler)(nil)

func (h *unlockHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: moveTicketCost}, nil
}

func (h *unlockHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, locker, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Unlock(db, locker, msg.Holder, msg.Project, msg.Amount); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{}, nil
}

func (h *unlockHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*UnlockMsg, weave.Address, error) {
	var msg UnlockMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	locker := x.AnySigner(ctx, h.auth)
	if locker == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "signature required")
	}
	return &msg, locker.Address(), nil
}

type transferHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ weave.Handler = (*transferHandler)(nil)

func (h *transferHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: moveTicketCost}, nil
}

func (h *transferHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, holder, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Transfer(db, holder, msg.Project, msg.Amount, msg.Recipient); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{}, nil
}

func (h *transferHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*TransferMsg, weave.Address, error) {
	var msg TransferMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	holder := x.AnySigner(ctx, h.auth)
	if holder == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "signature required")
	}
	return &msg, holder.Address(), nil
}
