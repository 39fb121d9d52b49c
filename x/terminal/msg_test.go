package terminal

import (
	"testing"

	"github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/weavetest"
)

func TestValidateMessages(t *testing.T) {
	project := weavetest.SequenceID(2)
	addr := weavetest.NewCondition().Address()

	cases := map[string]struct {
		msg     weave.Msg
		wantErr *errors.Error
	}{
		"valid contribute": {
			msg: &ContributeMsg{
				Metadata:    &weave.Metadata{Schema: 1},
				Project:     project,
				Amount:      100,
				Beneficiary: addr,
			},
		},
		"contribute without a beneficiary": {
			msg: &ContributeMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Project:  project,
				Amount:   100,
			},
			wantErr: errors.ErrEmpty,
		},
		"contribute with a zero amount": {
			msg: &ContributeMsg{
				Metadata:    &weave.Metadata{Schema: 1},
				Project:     project,
				Amount:      0,
				Beneficiary: addr,
			},
			wantErr: errors.ErrAmount,
		},
		"withdraw with a broken currency": {
			msg: &WithdrawMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Project:  project,
				Amount:   100,
				Currency: "not-a-currency",
			},
			wantErr: errors.ErrCurrency,
		},
		"withdraw with a negative minimum": {
			msg: &WithdrawMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Project:  project,
				Amount:   100,
				Currency: "IOV",
				MinValue: -1,
			},
			wantErr: errors.ErrMsg,
		},
		"valid redeem": {
			msg: &RedeemMsg{
				Metadata:    &weave.Metadata{Schema: 1},
				Project:     project,
				Count:       10,
				Beneficiary: addr,
			},
		},
		"migrate without a destination": {
			msg: &MigrateMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Project:  project,
			},
			wantErr: errors.ErrEmpty,
		},
		"set weight with a negative weight": {
			msg: &SetWeightMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Project:  project,
				Weight:   -1,
			},
			wantErr: errors.ErrMsg,
		},
		"update configuration without a patch": {
			msg: &UpdateConfigurationMsg{
				Metadata: &weave.Metadata{Schema: 1},
			},
			wantErr: errors.ErrEmpty,
		},
		"short project ID": {
			msg: &AddBalanceMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Project:  []byte{1},
				Amount:   5,
			},
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.msg.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected validation error: %+v", err)
			}
		})
	}
}
