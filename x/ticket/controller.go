package ticket

import (
	"bytes"

	"github.com/iov-one/weave"
	"github.com/iov-one/weave/coin"
	"github.com/iov-one/weave/errors"
	"github.com/iov-one/weave/x/currency"
)

// CashController is the subset of the x/cash controller functionality needed
// to custody the unstaked ticket representation. Unstaked tickets are plain
// coins of the project ticker, one ticket per whole coin unit.
type CashController interface {
	Balance(weave.KVStore, weave.Address) (coin.Coins, error)
	MoveCoins(weave.KVStore, weave.Address, weave.Address, coin.Coin) error
	CoinMint(weave.KVStore, weave.Address, coin.Coin) error
}

// burnAddress is the dead wallet of a project. Cash cannot destroy coins, so
// burned unstaked tickets are parked here. Nothing can sign for a condition
// address, the coins are out of circulation for good. Supply bookkeeping
// counts them as burned.
func burnAddress(project []byte) weave.Address {
	return weave.NewCondition("ticket", "burn", project).Address()
}

// Controller exposes the ticket ledger operations. Mint and Burn are not
// reachable through messages. The treasury terminal serving a project holds
// the controller instance and is the only caller.
type Controller struct {
	tokens   *TokenBucket
	accounts *AccountBucket
	grants   *GrantBucket
	supplies *SupplyBucket
	tickers  *currency.TokenInfoBucket
	cash     CashController
}

func NewController(cashCtrl CashController) *Controller {
	return &Controller{
		tokens:   NewTokenBucket(),
		accounts: NewAccountBucket(),
		grants:   NewGrantBucket(),
		supplies: NewSupplyBucket(),
		tickers:  currency.NewTokenInfoBucket(),
		cash:     cashCtrl,
	}
}

// Issue creates the one time transferable token of a project. The ticker is
// registered with the currency extension so that unstaked tickets are
// ordinary coins.
func (c *Controller) Issue(db weave.KVStore, project []byte, name, ticker string) error {
	if err := validateProjectID(project); err != nil {
		return err
	}
	if !isTokenName(name) {
		return errors.Wrapf(errors.ErrInput, "invalid token name %q", name)
	}
	if !coin.IsCC(ticker) {
		return errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", ticker)
	}
	switch _, err := c.tokens.GetToken(db, project); {
	case err == nil:
		return errors.Wrap(errors.ErrDuplicate, "token already issued")
	case !errors.ErrNotFound.Is(err):
		return err
	}
	obj, err := c.tickers.Get(db, ticker)
	if err != nil {
		return errors.Wrap(err, "ticker registry")
	}
	if obj != nil {
		return errors.Wrapf(errors.ErrDuplicate, "ticker %q already registered", ticker)
	}
	if err := c.tickers.Save(db, currency.NewTokenInfo(ticker, name)); err != nil {
		return errors.Wrap(err, "register ticker")
	}
	token := Token{
		Metadata: &weave.Metadata{Schema: 1},
		Name:     name,
		Ticker:   ticker,
	}
	if _, err := c.tokens.Put(db, project, &token); err != nil {
		return errors.Wrap(err, "store token")
	}
	return nil
}

// Mint creates amount new tickets for the holder. When the project issued a
// token and the holder prefers the unstaked representation, coins of the
// project ticker are minted. Otherwise the staked account grows. Minting
// before issuance always produces staked tickets and issuing a token later
// does not move them.
func (c *Controller) Mint(db weave.KVStore, holder weave.Address, project []byte, amount int64, preferUnstaked bool) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	supply, err := c.supplies.GetOrCreate(db, project)
	if err != nil {
		return err
	}
	token, err := c.issuedToken(db, project)
	if err != nil {
		return err
	}
	if preferUnstaked && token != nil {
		if err := c.cash.CoinMint(db, holder, coin.NewCoin(amount, 0, token.Ticker)); err != nil {
			return errors.Wrap(err, "mint unstaked")
		}
		if supply.Unstaked, err = safeAdd(supply.Unstaked, amount); err != nil {
			return err
		}
		return c.supplies.Save(db, project, supply)
	}

	acc, err := c.accounts.GetOrCreate(db, project, holder)
	if err != nil {
		return err
	}
	if acc.Staked, err = safeAdd(acc.Staked, amount); err != nil {
		return err
	}
	if err := c.accounts.Save(db, project, holder, acc); err != nil {
		return err
	}
	if supply.Staked, err = safeAdd(supply.Staked, amount); err != nil {
		return err
	}
	return c.supplies.Save(db, project, supply)
}

// Burn destroys amount tickets of the holder, drawing from both
// representations. With preferUnstaked the unstaked balance is consumed
// first, otherwise as much as possible is taken from the unlocked staked
// balance. Coverage is verified without intermediate subtraction so that no
// underflow can occur.
func (c *Controller) Burn(db weave.KVStore, holder weave.Address, project []byte, amount int64, preferUnstaked bool) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	acc, err := c.accounts.GetOrCreate(db, project, holder)
	if err != nil {
		return err
	}
	unlocked := acc.Staked - acc.Locked
	token, err := c.issuedToken(db, project)
	if err != nil {
		return err
	}
	var unstaked int64
	if token != nil {
		if unstaked, err = c.unstakedBalance(db, holder, token.Ticker); err != nil {
			return err
		}
	}
	// amount <= unstaked + unlocked, without computing the sum.
	if amount > unstaked && amount-unstaked > unlocked {
		return errors.Wrapf(ErrInsufficientFunds, "burn %d", amount)
	}

	var fromStaked, fromUnstaked int64
	if preferUnstaked {
		fromUnstaked = min64(amount, unstaked)
		fromStaked = amount - fromUnstaked
	} else {
		fromStaked = min64(amount, unlocked)
		fromUnstaked = amount - fromStaked
	}

	supply, err := c.supplies.GetOrCreate(db, project)
	if err != nil {
		return err
	}
	if fromStaked > 0 {
		acc.Staked -= fromStaked
		if err := c.accounts.Save(db, project, holder, acc); err != nil {
			return err
		}
		supply.Staked -= fromStaked
	}
	if fromUnstaked > 0 {
		if err := c.cash.MoveCoins(db, holder, burnAddress(project), coin.NewCoin(fromUnstaked, 0, token.Ticker)); err != nil {
			return errors.Wrap(err, "burn unstaked")
		}
		supply.Unstaked -= fromUnstaked
	}
	return c.supplies.Save(db, project, supply)
}

// Stake converts unstaked tickets into staked ones.
func (c *Controller) Stake(db weave.KVStore, holder weave.Address, project []byte, amount int64) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	token, err := c.tokens.GetToken(db, project)
	if err != nil {
		return errors.Wrap(err, "token")
	}
	unstaked, err := c.unstakedBalance(db, holder, token.Ticker)
	if err != nil {
		return err
	}
	if unstaked < amount {
		return errors.Wrapf(ErrInsufficientFunds, "stake %d", amount)
	}
	if err := c.cash.MoveCoins(db, holder, burnAddress(project), coin.NewCoin(amount, 0, token.Ticker)); err != nil {
		return errors.Wrap(err, "burn unstaked")
	}
	acc, err := c.accounts.GetOrCreate(db, project, holder)
	if err != nil {
		return err
	}
	if acc.Staked, err = safeAdd(acc.Staked, amount); err != nil {
		return err
	}
	if err := c.accounts.Save(db, project, holder, acc); err != nil {
		return err
	}
	supply, err := c.supplies.GetOrCreate(db, project)
	if err != nil {
		return err
	}
	if supply.Staked, err = safeAdd(supply.Staked, amount); err != nil {
		return err
	}
	supply.Unstaked -= amount
	return c.supplies.Save(db, project, supply)
}

// Unstake converts unlocked staked tickets into unstaked ones.
func (c *Controller) Unstake(db weave.KVStore, holder weave.Address, project []byte, amount int64) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	token, err := c.tokens.GetToken(db, project)
	if err != nil {
		return errors.Wrap(err, "token")
	}
	acc, err := c.accounts.GetOrCreate(db, project, holder)
	if err != nil {
		return err
	}
	if acc.Staked-acc.Locked < amount {
		return errors.Wrapf(ErrInsufficientFunds, "unstake %d", amount)
	}
	acc.Staked -= amount
	if err := c.accounts.Save(db, project, holder, acc); err != nil {
		return err
	}
	if err := c.cash.CoinMint(db, holder, coin.NewCoin(amount, 0, token.Ticker)); err != nil {
		return errors.Wrap(err, "mint unstaked")
	}
	supply, err := c.supplies.GetOrCreate(db, project)
	if err != nil {
		return err
	}
	supply.Staked -= amount
	if supply.Unstaked, err = safeAdd(supply.Unstaked, amount); err != nil {
		return err
	}
	return c.supplies.Save(db, project, supply)
}

// Lock reserves amount of the holder staked tickets for the locker. Only the
// same locker can release the grant again.
func (c *Controller) Lock(db weave.KVStore, locker, holder weave.Address, project []byte, amount int64) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	acc, err := c.accounts.GetOrCreate(db, project, holder)
	if err != nil {
		return err
	}
	if acc.Staked-acc.Locked < amount {
		return errors.Wrapf(ErrInsufficientFunds, "lock %d", amount)
	}
	acc.Locked += amount
	if err := c.accounts.Save(db, project, holder, acc); err != nil {
		return err
	}
	grant, err := c.grants.GetOrCreate(db, project, holder, locker)
	if err != nil {
		return err
	}
	if grant.Amount, err = safeAdd(grant.Amount, amount); err != nil {
		return err
	}
	return c.grants.Save(db, project, holder, locker, grant)
}

// Unlock releases amount of the grant the locker holds on the holder
// account. A locker cannot release more than it locked itself, regardless of
// the aggregate locked amount.
func (c *Controller) Unlock(db weave.KVStore, locker, holder weave.Address, project []byte, amount int64) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	grant, err := c.grants.GetOrCreate(db, project, holder, locker)
	if err != nil {
		return err
	}
	if grant.Amount < amount {
		return errors.Wrapf(ErrInsufficientFunds, "unlock %d exceeds grant %d", amount, grant.Amount)
	}
	grant.Amount -= amount
	if grant.Amount == 0 {
		if err := c.grants.Delete(db, grantKey(project, holder, locker)); err != nil {
			return errors.Wrap(err, "delete grant")
		}
	} else {
		if err := c.grants.Save(db, project, holder, locker, grant); err != nil {
			return err
		}
	}
	acc, err := c.accounts.GetOrCreate(db, project, holder)
	if err != nil {
		return err
	}
	acc.Locked -= amount
	return c.accounts.Save(db, project, holder, acc)
}

// Transfer moves staked tickets between holders. Total supply is unchanged.
func (c *Controller) Transfer(db weave.KVStore, holder weave.Address, project []byte, amount int64, recipient weave.Address) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	if len(recipient) == 0 {
		return errors.Wrap(errors.ErrEmpty, "recipient")
	}
	if err := recipient.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	if bytes.Equal(holder, recipient) {
		return errors.Wrap(errors.ErrInput, "transfer to self")
	}
	acc, err := c.accounts.GetOrCreate(db, project, holder)
	if err != nil {
		return err
	}
	if acc.Staked-acc.Locked < amount {
		return errors.Wrapf(ErrInsufficientFunds, "transfer %d", amount)
	}
	acc.Staked -= amount
	if err := c.accounts.Save(db, project, holder, acc); err != nil {
		return err
	}
	rcpt, err := c.accounts.GetOrCreate(db, project, recipient)
	if err != nil {
		return err
	}
	if rcpt.Staked, err = safeAdd(rcpt.Staked, amount); err != nil {
		return err
	}
	return c.accounts.Save(db, project, recipient, rcpt)
}

// TotalSupply returns the full ticket supply of a project, staked and
// unstaked combined.
func (c *Controller) TotalSupply(db weave.KVStore, project []byte) (int64, error) {
	supply, err := c.supplies.GetOrCreate(db, project)
	if err != nil {
		return 0, err
	}
	return safeAdd(supply.Staked, supply.Unstaked)
}

// BalanceOf returns the holder balance across both representations.
func (c *Controller) BalanceOf(db weave.KVStore, holder weave.Address, project []byte) (int64, error) {
	acc, err := c.accounts.GetOrCreate(db, project, holder)
	if err != nil {
		return 0, err
	}
	token, err := c.issuedToken(db, project)
	if err != nil {
		return 0, err
	}
	if token == nil {
		return acc.Staked, nil
	}
	unstaked, err := c.unstakedBalance(db, holder, token.Ticker)
	if err != nil {
		return 0, err
	}
	return safeAdd(acc.Staked, unstaked)
}

// UnlockedStaked returns the spendable part of the holder staked balance.
func (c *Controller) UnlockedStaked(db weave.KVStore, holder weave.Address, project []byte) (int64, error) {
	acc, err := c.accounts.GetOrCreate(db, project, holder)
	if err != nil {
		return 0, err
	}
	return acc.Staked - acc.Locked, nil
}

// issuedToken returns the project token or nil when none was issued yet.
func (c *Controller) issuedToken(db weave.KVStore, project []byte) (*Token, error) {
	switch token, err := c.tokens.GetToken(db, project); {
	case err == nil:
		return token, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, err
	}
}

// unstakedBalance counts whole coin units of the project ticker held by the
// holder. Fractional dust cannot be produced by this ledger and is ignored.
func (c *Controller) unstakedBalance(db weave.KVStore, holder weave.Address, ticker string) (int64, error) {
	coins, err := c.cash.Balance(db, holder)
	switch {
	case err == nil:
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, errors.Wrap(err, "cash balance")
	}
	for _, c := range coins {
		if c.Ticker == ticker {
			return c.Whole, nil
		}
	}
	return 0, nil
}

func safeAdd(a, b int64) (int64, error) {
	sum := a + b
	if b > 0 && sum < a || b < 0 && sum > a {
		return 0, errors.Wrap(errors.ErrOverflow, "int64 addition")
	}
	return sum, nil
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
