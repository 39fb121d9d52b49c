package terminal

import (
	"context"
	"testing"

	"github.com/iov-one/weave"
	"github.com/iov-one/weave/app"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/weavetest"
	"github.com/iov-one/weave/weavetest/assert"
)

func TestHandlers(t *testing.T) {
	var (
		payer    = weavetest.NewCondition()
		stranger = weavetest.NewCondition()
	)

	cases := map[string]struct {
		prepare        func(t *testing.T, e *env)
		conditions     func(e *env) []weave.Condition
		msg            func(e *env) weave.Msg
		wantCheckErr   *errors.Error
		wantDeliverErr *errors.Error
	}{
		"contribute mints tickets for the beneficiary": {
			prepare: func(t *testing.T, e *env) {
				e.fund(t, payer.Address(), 100)
				e.scheduler.cycles[string(projectID)] = FundingCycle{
					ID: 1, Currency: settlementTicker, Weight: weightUnit,
				}
			},
			conditions: func(e *env) []weave.Condition {
				return []weave.Condition{payer}
			},
			msg: func(e *env) weave.Msg {
				return &ContributeMsg{
					Metadata:    &weave.Metadata{Schema: 1},
					Project:     projectID,
					Amount:      100,
					Beneficiary: payer.Address(),
				}
			},
		},
		"contribute requires a signature": {
			msg: func(e *env) weave.Msg {
				return &ContributeMsg{
					Metadata:    &weave.Metadata{Schema: 1},
					Project:     projectID,
					Amount:      100,
					Beneficiary: payer.Address(),
				}
			},
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
		},
		"redeem with a zero count is rejected early": {
			conditions: func(e *env) []weave.Condition {
				return []weave.Condition{payer}
			},
			msg: func(e *env) weave.Msg {
				return &RedeemMsg{
					Metadata:    &weave.Metadata{Schema: 1},
					Project:     projectID,
					Count:       0,
					Beneficiary: payer.Address(),
				}
			},
			wantCheckErr:   errors.ErrAmount,
			wantDeliverErr: errors.ErrAmount,
		},
		"set weight by the project owner": {
			conditions: func(e *env) []weave.Condition {
				return []weave.Condition{e.ownerCond}
			},
			msg: func(e *env) weave.Msg {
				return &SetWeightMsg{
					Metadata: &weave.Metadata{Schema: 1},
					Project:  projectID,
					Weight:   2 * weightUnit,
				}
			},
		},
		"set weight by a stranger": {
			conditions: func(e *env) []weave.Condition {
				return []weave.Condition{stranger}
			},
			msg: func(e *env) weave.Msg {
				return &SetWeightMsg{
					Metadata: &weave.Metadata{Schema: 1},
					Project:  projectID,
					Weight:   2 * weightUnit,
				}
			},
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
		},
		"migrate by a stranger": {
			conditions: func(e *env) []weave.Condition {
				return []weave.Condition{stranger}
			},
			msg: func(e *env) weave.Msg {
				return &MigrateMsg{
					Metadata:    &weave.Metadata{Schema: 1},
					Project:     projectID,
					Destination: e.allowed,
				}
			},
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
		},
		"add to balance": {
			prepare: func(t *testing.T, e *env) {
				e.fund(t, payer.Address(), 50)
			},
			conditions: func(e *env) []weave.Condition {
				return []weave.Condition{payer}
			},
			msg: func(e *env) weave.Msg {
				return &AddBalanceMsg{
					Metadata: &weave.Metadata{Schema: 1},
					Project:  projectID,
					Amount:   50,
				}
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			e := newTestEnv(t)

			auth := &weavetest.CtxAuth{Key: "auth"}
			rt := app.NewRouter()
			RegisterRoutes(rt, auth, e.ctrl)

			if tc.prepare != nil {
				tc.prepare(t, e)
			}

			var conds []weave.Condition
			if tc.conditions != nil {
				conds = tc.conditions(e)
			}

			ctx := weave.WithHeight(context.Background(), 100)
			ctx = auth.SetConditions(ctx, conds...)

			tx := &weavetest.Tx{Msg: tc.msg(e)}

			cache := e.db.CacheWrap()
			if _, err := rt.Check(ctx, cache, tx); !tc.wantCheckErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			cache.Discard()

			if _, err := rt.Deliver(ctx, e.db, tx); !tc.wantDeliverErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}
		})
	}
}

func TestSetWeightHandlerPersists(t *testing.T) {
	e := newTestEnv(t)

	auth := &weavetest.CtxAuth{Key: "auth"}
	rt := app.NewRouter()
	RegisterRoutes(rt, auth, e.ctrl)

	ctx := weave.WithHeight(context.Background(), 100)
	ctx = auth.SetConditions(ctx, e.ownerCond)

	tx := &weavetest.Tx{Msg: &SetWeightMsg{
		Metadata: &weave.Metadata{Schema: 1},
		Project:  projectID,
		Weight:   3 * weightUnit,
	}}
	if _, err := rt.Deliver(ctx, e.db, tx); err != nil {
		t.Fatalf("cannot deliver: %+v", err)
	}
	assert.Equal(t, int64(3*weightUnit), e.treasury(t, projectID).WeightOverride)
}
