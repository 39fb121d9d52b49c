package ticket

import (
	"testing"

	"github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/migration"
	"github.com/iov-one/weave/store"
	"github.com/iov-one/weave/weavetest"
	"github.com/iov-one/weave/weavetest/assert"
	"github.com/iov-one/weave/x/cash"
)

func newTestController(t testing.TB) (weave.KVStore, *Controller) {
	t.Helper()
	db := store.MemStore()
	migration.MustInitPkg(db, "ticket", "cash", "currency")
	return db, NewController(cash.NewController(cash.NewBucket()))
}

func TestIssueToken(t *testing.T) {
	db, ctrl := newTestController(t)
	project := weavetest.SequenceID(1)

	if err := ctrl.Issue(db, project, "My Token", "TKN"); err != nil {
		t.Fatalf("cannot issue token: %+v", err)
	}
	if err := ctrl.Issue(db, project, "My Token", "TKN"); !errors.ErrDuplicate.Is(err) {
		t.Fatalf("second issuance must fail with duplicate, got %+v", err)
	}

	other := weavetest.SequenceID(2)
	if err := ctrl.Issue(db, other, "Other Token", "TKN"); !errors.ErrDuplicate.Is(err) {
		t.Fatalf("reusing a ticker must fail with duplicate, got %+v", err)
	}
}

func TestMintStakedByDefault(t *testing.T) {
	db, ctrl := newTestController(t)
	project := weavetest.SequenceID(1)
	holder := weavetest.NewCondition().Address()

	// Without an issued token the preference is ignored.
	if err := ctrl.Mint(db, holder, project, 100, true); err != nil {
		t.Fatalf("cannot mint: %+v", err)
	}
	balance, err := ctrl.BalanceOf(db, holder, project)
	assert.Nil(t, err)
	assert.Equal(t, int64(100), balance)

	supply, err := ctrl.TotalSupply(db, project)
	assert.Nil(t, err)
	assert.Equal(t, int64(100), supply)

	unlocked, err := ctrl.UnlockedStaked(db, holder, project)
	assert.Nil(t, err)
	assert.Equal(t, int64(100), unlocked)
}

func TestMintedBeforeIssuanceStaysStaked(t *testing.T) {
	db, ctrl := newTestController(t)
	project := weavetest.SequenceID(1)
	holder := weavetest.NewCondition().Address()

	if err := ctrl.Mint(db, holder, project, 50, true); err != nil {
		t.Fatalf("cannot mint: %+v", err)
	}
	if err := ctrl.Issue(db, project, "My Token", "TKN"); err != nil {
		t.Fatalf("cannot issue token: %+v", err)
	}

	// Earlier tickets remain staked. Unstaking moves them explicitly.
	unlocked, err := ctrl.UnlockedStaked(db, holder, project)
	assert.Nil(t, err)
	assert.Equal(t, int64(50), unlocked)

	if err := ctrl.Mint(db, holder, project, 30, true); err != nil {
		t.Fatalf("cannot mint unstaked: %+v", err)
	}
	balance, err := ctrl.BalanceOf(db, holder, project)
	assert.Nil(t, err)
	assert.Equal(t, int64(80), balance)
	unlocked, err = ctrl.UnlockedStaked(db, holder, project)
	assert.Nil(t, err)
	assert.Equal(t, int64(50), unlocked)
}

func TestStakeUnstakeRoundTrip(t *testing.T) {
	db, ctrl := newTestController(t)
	project := weavetest.SequenceID(1)
	holder := weavetest.NewCondition().Address()

	if err := ctrl.Issue(db, project, "My Token", "TKN"); err != nil {
		t.Fatalf("cannot issue token: %+v", err)
	}
	if err := ctrl.Mint(db, holder, project, 100, false); err != nil {
		t.Fatalf("cannot mint: %+v", err)
	}

	if err := ctrl.Unstake(db, holder, project, 40); err != nil {
		t.Fatalf("cannot unstake: %+v", err)
	}
	unlocked, err := ctrl.UnlockedStaked(db, holder, project)
	assert.Nil(t, err)
	assert.Equal(t, int64(60), unlocked)
	balance, err := ctrl.BalanceOf(db, holder, project)
	assert.Nil(t, err)
	assert.Equal(t, int64(100), balance)

	if err := ctrl.Stake(db, holder, project, 40); err != nil {
		t.Fatalf("cannot stake: %+v", err)
	}
	unlocked, err = ctrl.UnlockedStaked(db, holder, project)
	assert.Nil(t, err)
	assert.Equal(t, int64(100), unlocked)
	supply, err := ctrl.TotalSupply(db, project)
	assert.Nil(t, err)
	assert.Equal(t, int64(100), supply)

	if err := ctrl.Stake(db, holder, project, 1); !ErrInsufficientFunds.Is(err) {
		t.Fatalf("staking without unstaked tickets must fail, got %+v", err)
	}
	if err := ctrl.Unstake(db, holder, project, 101); !ErrInsufficientFunds.Is(err) {
		t.Fatalf("unstaking above the staked balance must fail, got %+v", err)
	}
}

func TestBurnAcrossRepresentations(t *testing.T) {
	db, ctrl := newTestController(t)
	project := weavetest.SequenceID(1)
	holder := weavetest.NewCondition().Address()

	if err := ctrl.Issue(db, project, "My Token", "TKN"); err != nil {
		t.Fatalf("cannot issue token: %+v", err)
	}
	if err := ctrl.Mint(db, holder, project, 60, false); err != nil {
		t.Fatalf("cannot mint staked: %+v", err)
	}
	if err := ctrl.Mint(db, holder, project, 40, true); err != nil {
		t.Fatalf("cannot mint unstaked: %+v", err)
	}

	if err := ctrl.Burn(db, holder, project, 101, false); !ErrInsufficientFunds.Is(err) {
		t.Fatalf("burning above the total balance must fail, got %+v", err)
	}

	// Burning the exact total drains both representations.
	if err := ctrl.Burn(db, holder, project, 100, false); err != nil {
		t.Fatalf("cannot burn: %+v", err)
	}
	balance, err := ctrl.BalanceOf(db, holder, project)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), balance)
	supply, err := ctrl.TotalSupply(db, project)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), supply)
}

func TestBurnPreference(t *testing.T) {
	db, ctrl := newTestController(t)
	project := weavetest.SequenceID(1)
	holder := weavetest.NewCondition().Address()

	if err := ctrl.Issue(db, project, "My Token", "TKN"); err != nil {
		t.Fatalf("cannot issue token: %+v", err)
	}
	if err := ctrl.Mint(db, holder, project, 60, false); err != nil {
		t.Fatalf("cannot mint staked: %+v", err)
	}
	if err := ctrl.Mint(db, holder, project, 40, true); err != nil {
		t.Fatalf("cannot mint unstaked: %+v", err)
	}

	if err := ctrl.Burn(db, holder, project, 30, true); err != nil {
		t.Fatalf("cannot burn: %+v", err)
	}
	// Unstaked went first, staked is untouched.
	unlocked, err := ctrl.UnlockedStaked(db, holder, project)
	assert.Nil(t, err)
	assert.Equal(t, int64(60), unlocked)

	if err := ctrl.Burn(db, holder, project, 30, false); err != nil {
		t.Fatalf("cannot burn: %+v", err)
	}
	unlocked, err = ctrl.UnlockedStaked(db, holder, project)
	assert.Nil(t, err)
	assert.Equal(t, int64(30), unlocked)

	supply, err := ctrl.TotalSupply(db, project)
	assert.Nil(t, err)
	assert.Equal(t, int64(40), supply)
}

func TestBurnParksCoinsAtDeadWallet(t *testing.T) {
	db, ctrl := newTestController(t)
	project := weavetest.SequenceID(1)
	holder := weavetest.NewCondition().Address()

	if err := ctrl.Issue(db, project, "My Token", "TKN"); err != nil {
		t.Fatalf("cannot issue token: %+v", err)
	}
	if err := ctrl.Mint(db, holder, project, 40, true); err != nil {
		t.Fatalf("cannot mint unstaked: %+v", err)
	}

	if err := ctrl.Burn(db, holder, project, 15, true); err != nil {
		t.Fatalf("cannot burn: %+v", err)
	}
	if err := ctrl.Stake(db, holder, project, 25); err != nil {
		t.Fatalf("cannot stake: %+v", err)
	}

	// The holder wallet is drained and the burned and staked-away coins
	// sit at the project dead wallet, out of circulation.
	unstaked, err := ctrl.unstakedBalance(db, holder, "TKN")
	assert.Nil(t, err)
	assert.Equal(t, int64(0), unstaked)

	dead, err := ctrl.unstakedBalance(db, burnAddress(project), "TKN")
	assert.Nil(t, err)
	assert.Equal(t, int64(40), dead)

	// Parked coins do not count towards supply or anyone's balance.
	supply, err := ctrl.TotalSupply(db, project)
	assert.Nil(t, err)
	assert.Equal(t, int64(25), supply)
	balance, err := ctrl.BalanceOf(db, holder, project)
	assert.Nil(t, err)
	assert.Equal(t, int64(25), balance)
}

func TestBurnRespectsLocks(t *testing.T) {
	db, ctrl := newTestController(t)
	project := weavetest.SequenceID(1)
	holder := weavetest.NewCondition().Address()
	locker := weavetest.NewCondition().Address()

	if err := ctrl.Mint(db, holder, project, 100, false); err != nil {
		t.Fatalf("cannot mint: %+v", err)
	}
	if err := ctrl.Lock(db, locker, holder, project, 70); err != nil {
		t.Fatalf("cannot lock: %+v", err)
	}

	if err := ctrl.Burn(db, holder, project, 31, false); !ErrInsufficientFunds.Is(err) {
		t.Fatalf("burning locked tickets must fail, got %+v", err)
	}
	if err := ctrl.Burn(db, holder, project, 30, false); err != nil {
		t.Fatalf("cannot burn unlocked tickets: %+v", err)
	}
}

func TestLockUnlockGrants(t *testing.T) {
	db, ctrl := newTestController(t)
	project := weavetest.SequenceID(1)
	holder := weavetest.NewCondition().Address()
	alice := weavetest.NewCondition().Address()
	bob := weavetest.NewCondition().Address()

	if err := ctrl.Mint(db, holder, project, 100, false); err != nil {
		t.Fatalf("cannot mint: %+v", err)
	}
	if err := ctrl.Lock(db, alice, holder, project, 40); err != nil {
		t.Fatalf("cannot lock: %+v", err)
	}
	if err := ctrl.Lock(db, bob, holder, project, 30); err != nil {
		t.Fatalf("cannot lock: %+v", err)
	}
	if err := ctrl.Lock(db, alice, holder, project, 31); !ErrInsufficientFunds.Is(err) {
		t.Fatalf("locking above the unlocked balance must fail, got %+v", err)
	}

	// Bob cannot release what alice locked.
	if err := ctrl.Unlock(db, bob, holder, project, 31); !ErrInsufficientFunds.Is(err) {
		t.Fatalf("unlocking beyond own grant must fail, got %+v", err)
	}

	if err := ctrl.Unlock(db, alice, holder, project, 40); err != nil {
		t.Fatalf("cannot unlock: %+v", err)
	}
	if err := ctrl.Unlock(db, bob, holder, project, 30); err != nil {
		t.Fatalf("cannot unlock: %+v", err)
	}
	unlocked, err := ctrl.UnlockedStaked(db, holder, project)
	assert.Nil(t, err)
	assert.Equal(t, int64(100), unlocked)
}

func TestTransferStaked(t *testing.T) {
	db, ctrl := newTestController(t)
	project := weavetest.SequenceID(1)
	holder := weavetest.NewCondition().Address()
	recipient := weavetest.NewCondition().Address()
	locker := weavetest.NewCondition().Address()

	if err := ctrl.Mint(db, holder, project, 100, false); err != nil {
		t.Fatalf("cannot mint: %+v", err)
	}

	if err := ctrl.Transfer(db, holder, project, 10, holder); !errors.ErrInput.Is(err) {
		t.Fatalf("transfer to self must fail, got %+v", err)
	}

	if err := ctrl.Lock(db, locker, holder, project, 95); err != nil {
		t.Fatalf("cannot lock: %+v", err)
	}
	if err := ctrl.Transfer(db, holder, project, 6, recipient); !ErrInsufficientFunds.Is(err) {
		t.Fatalf("transferring locked tickets must fail, got %+v", err)
	}

	if err := ctrl.Transfer(db, holder, project, 5, recipient); err != nil {
		t.Fatalf("cannot transfer: %+v", err)
	}
	got, err := ctrl.BalanceOf(db, recipient, project)
	assert.Nil(t, err)
	assert.Equal(t, int64(5), got)

	// Transfer does not change the total supply.
	supply, err := ctrl.TotalSupply(db, project)
	assert.Nil(t, err)
	assert.Equal(t, int64(100), supply)
}
