package ticket

import (
	"testing"

	"github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/weavetest"
)

func TestValidateMessages(t *testing.T) {
	project := weavetest.SequenceID(1)
	addr := weavetest.NewCondition().Address()

	cases := map[string]struct {
		msg     weave.Msg
		wantErr *errors.Error
	}{
		"valid issue": {
			msg: &IssueTokenMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Project:  project,
				Name:     "My Token",
				Ticker:   "TKN",
			},
		},
		"issue with a broken ticker": {
			msg: &IssueTokenMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Project:  project,
				Name:     "My Token",
				Ticker:   "this-is-not-a-ticker",
			},
			wantErr: errors.ErrCurrency,
		},
		"issue with a too short name": {
			msg: &IssueTokenMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Project:  project,
				Name:     "ab",
				Ticker:   "TKN",
			},
			wantErr: errors.ErrMsg,
		},
		"issue with a short project ID": {
			msg: &IssueTokenMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Project:  []byte{1, 2, 3},
				Name:     "My Token",
				Ticker:   "TKN",
			},
			wantErr: errors.ErrInput,
		},
		"stake with a negative amount": {
			msg: &StakeMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Project:  project,
				Amount:   -1,
			},
			wantErr: errors.ErrAmount,
		},
		"valid unstake": {
			msg: &UnstakeMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Project:  project,
				Amount:   5,
			},
		},
		"lock without a holder": {
			msg: &LockMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Project:  project,
				Amount:   5,
			},
			wantErr: errors.ErrInput,
		},
		"valid unlock": {
			msg: &UnlockMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Project:  project,
				Holder:   addr,
				Amount:   5,
			},
		},
		"transfer without a recipient": {
			msg: &TransferMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Project:  project,
				Amount:   5,
			},
			wantErr: errors.ErrEmpty,
		},
		"missing metadata": {
			msg: &TransferMsg{
				Project:   project,
				Recipient: addr,
				Amount:    5,
			},
			wantErr: errors.ErrMetadata,
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
