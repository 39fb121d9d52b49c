package payout

import (
	"github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/migration"
	"github.com/iov-one/weave/x"
)

const setSplitsCost int64 = 50

// ProjectRegistry resolves the owner of a registered project. Split
// configuration is restricted to the owner.
type ProjectRegistry interface {
	OwnerOf(db weave.KVStore, project []byte) (weave.Address, error)
}

// RegisterRoutes registers handlers for all payout message types.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, projects ProjectRegistry) {
	r = migration.SchemaMigratingRegistry("payout", r)

	r.Handle(&SetSplitsMsg{}, &setSplitsHandler{
		auth:     auth,
		bucket:   NewSplitsBucket(),
		projects: projects,
	})
}

// RegisterQuery registers payout buckets for queries.
func RegisterQuery(qr weave.QueryRouter) {
	NewSplitsBucket().Register("payoutsplits", qr)
}

type setSplitsHandler struct {
	auth     x.Authenticator
	bucket   *SplitsBucket
	projects ProjectRegistry
}

var _ weave.Handler = (*setSplitsHandler)(nil)

func (h *setSplitsHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: setSplitsCost}, nil
}

func (h *setSplitsHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.bucket.Save(db, msg.Project, msg.Group, msg.Splits); err != nil {
		return nil, errors.Wrap(err, "save splits")
	}
	return &weave.DeliverResult{Data: msg.Project}, nil
}

func (h *setSplitsHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*SetSplitsMsg, error) {
	var msg SetSplitsMsg
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
