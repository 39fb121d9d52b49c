package terminal

import (
	"bytes"

	"github.com/iov-one/fundraising/x/payout"
	"github.com/iov-one/fundraising/x/ticket"
	"github.com/iov-one/weave"
	"github.com/iov-one/weave/coin"
	"github.com/iov-one/weave/errors"
)

// Guarded operation kinds. One guard per kind, process wide.
const (
	opWithdraw  = "withdraw"
	opAllowance = "useAllowance"
	opRedeem    = "redeem"
	opPrint     = "printReservedTickets"
	opMigrate   = "migrate"
)

// CashController is the subset of the x/cash controller functionality the
// terminal needs to move custodied value between wallets.
type CashController interface {
	MoveCoins(weave.KVStore, weave.Address, weave.Address, coin.Coin) error
}

// TicketLedger is the ticket controller capability the terminal holds. Mint
// and burn have no message path, the terminal is their only caller.
type TicketLedger interface {
	Mint(db weave.KVStore, holder weave.Address, project []byte, amount int64, preferUnstaked bool) error
	Burn(db weave.KVStore, holder weave.Address, project []byte, amount int64, preferUnstaked bool) error
	TotalSupply(db weave.KVStore, project []byte) (int64, error)
	BalanceOf(db weave.KVStore, holder weave.Address, project []byte) (int64, error)
}

// TreasuryAddress is the deterministic address custodying the pooled value
// of a project.
func TreasuryAddress(project []byte) weave.Address {
	return weave.NewCondition("terminal", "treasury", project).Address()
}

// Controller exposes all treasury terminal operations.
type Controller struct {
	treasuries  *TreasuryBucket
	splits      *payout.SplitsBucket
	tickets     TicketLedger
	cash        CashController
	distributor *payout.Distributor
	scheduler   CycleScheduler
	prices      PriceFeed
	directory   Directory
	projects    ProjectRegistry
	active      map[string]bool
}

func NewController(
	tickets TicketLedger,
	cashCtrl CashController,
	distributor *payout.Distributor,
	scheduler CycleScheduler,
	prices PriceFeed,
	directory Directory,
	projects ProjectRegistry,
) *Controller {
	return &Controller{
		treasuries:  NewTreasuryBucket(),
		splits:      payout.NewSplitsBucket(),
		tickets:     tickets,
		cash:        cashCtrl,
		distributor: distributor,
		scheduler:   scheduler,
		prices:      prices,
		directory:   directory,
		projects:    projects,
		active:      make(map[string]bool),
	}
}

var _ payout.Terminal = (*Controller)(nil)

// enter acquires the guard of an operation kind. The returned release must
// be deferred. Execution is single threaded per delivery, the guard only
// detects calls re-entering through an external collaborator.
func (c *Controller) enter(op string) (func(), error) {
	if c.active[op] {
		return nil, errors.Wrapf(ErrReentrancy, "%s in progress", op)
	}
	c.active[op] = true
	return func() { delete(c.active, op) }, nil
}

// Contribute pays amount settlement units from the payer wallet into the
// project treasury and mints the unreserved part of the weighted ticket
// amount for the beneficiary. The returned value is the minted unreserved
// ticket amount.
func (c *Controller) Contribute(db weave.KVStore, payer weave.Address, project []byte, amount int64, beneficiary weave.Address, minTickets int64, preferUnstaked bool, memo string) (int64, error) {
	if err := validateAmount(amount); err != nil {
		return 0, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return 0, err
	}
	cycle, err := c.scheduler.CurrentCycle(db, project)
	if err != nil {
		return 0, errors.Wrap(err, "current cycle")
	}
	treasury, err := c.treasuries.GetOrCreate(db, project)
	if err != nil {
		return 0, err
	}

	weight := conf.BaseWeight
	if cycle.ID != 0 {
		weight = cycle.Weight
	}
	if treasury.WeightOverride > 0 {
		weight = treasury.WeightOverride
	}
	weighted, err := mulDiv(amount, weight, weightUnit)
	if err != nil {
		return 0, err
	}

	var rate int64
	if cycle.ID != 0 {
		rate = cycle.Metadata.ReservedRate
		if err := validateRate(rate); err != nil {
			return 0, err
		}
	}

	supply, err := c.tickets.TotalSupply(db, project)
	if err != nil {
		return 0, err
	}
	if cycle.ID == 0 {
		// Pre-configuration printing is permitted only while every
		// existing ticket is a pre-configuration print itself.
		if supply != treasury.PreconfigureCount || treasury.Tracker != treasury.PreconfigureCount {
			return 0, errors.Wrap(ErrNotAllowed, "premined printing no longer permitted")
		}
	}
	if max := cycle.Metadata.MaxSupply; max > 0 {
		owed, err := reservedAmount(treasury.Tracker, rate, supply)
		if err != nil {
			return 0, err
		}
		room := max - supply - owed
		if room < 0 {
			room = 0
		}
		if weighted > room {
			weighted = room
		}
	}

	unreserved, err := mulDiv(weighted, rateScale-rate, rateScale)
	if err != nil {
		return 0, err
	}
	if unreserved < minTickets {
		return 0, errors.Wrapf(ErrInadequate, "minted %d below minimum %d", unreserved, minTickets)
	}

	if err := c.cash.MoveCoins(db, payer, TreasuryAddress(project), unitsToCoin(amount, conf.Ticker)); err != nil {
		return 0, errors.Wrap(err, "fund treasury")
	}
	if treasury.Balance, err = safeAdd(treasury.Balance, amount); err != nil {
		return 0, err
	}
	switch {
	case cycle.ID == 0:
		// Pre-claimed as unreserved so that later reserved printing
		// does not double count it.
		if treasury.Tracker, err = safeAdd(treasury.Tracker, unreserved); err != nil {
			return 0, err
		}
		if treasury.PreconfigureCount, err = safeAdd(treasury.PreconfigureCount, unreserved); err != nil {
			return 0, err
		}
	case unreserved == 0 && weighted > 0:
		// The whole print is owed to reserved ticket printing.
		if treasury.Tracker, err = safeSub(treasury.Tracker, weighted); err != nil {
			return 0, err
		}
	}
	if err := c.treasuries.Save(db, project, treasury); err != nil {
		return 0, err
	}

	if unreserved > 0 {
		if err := c.tickets.Mint(db, beneficiary, project, unreserved, preferUnstaked); err != nil {
			return 0, errors.Wrap(err, "mint tickets")
		}
	}
	return unreserved, nil
}

// Pay implements payout.Terminal so that split distribution can forward a
// share as a contribution to another project.
func (c *Controller) Pay(db weave.KVStore, from weave.Address, project []byte, amount int64, beneficiary weave.Address, memo string, preferUnstaked bool) error {
	if len(beneficiary) == 0 {
		owner, err := c.projects.OwnerOf(db, project)
		if err != nil {
			return errors.Wrap(err, "project owner")
		}
		beneficiary = owner
	}
	_, err := c.Contribute(db, from, project, amount, beneficiary, 0, preferUnstaked, memo)
	return err
}

// Withdraw releases amount of the given currency from the project treasury,
// within the cycle spending target. The converted settlement value, minus
// the protocol fee, is routed through the payout splits and the leftover is
// sent to the project owner. Returns the converted settlement value.
func (c *Controller) Withdraw(db weave.KVStore, project []byte, amount int64, currency string, minValue int64) (int64, error) {
	release, err := c.enter(opWithdraw)
	if err != nil {
		return 0, err
	}
	defer release()

	if err := validateAmount(amount); err != nil {
		return 0, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return 0, err
	}
	cycle, err := c.scheduler.RecordWithdrawal(db, project, amount, currency)
	if err != nil {
		return 0, errors.Wrap(err, "record withdrawal")
	}
	if err := validateRate(cycle.Fee); err != nil {
		return 0, err
	}
	converted, err := c.convert(db, amount, currency)
	if err != nil {
		return 0, err
	}
	if converted < minValue {
		return 0, errors.Wrapf(ErrInadequate, "converted %d below minimum %d", converted, minValue)
	}

	treasury, err := c.treasuries.GetOrCreate(db, project)
	if err != nil {
		return 0, err
	}
	if converted > treasury.Balance {
		return 0, errors.Wrapf(ticket.ErrInsufficientFunds, "withdraw %d", converted)
	}
	treasury.Balance -= converted
	if err := c.treasuries.Save(db, project, treasury); err != nil {
		return 0, err
	}

	owner, err := c.projects.OwnerOf(db, project)
	if err != nil {
		return 0, errors.Wrap(err, "project owner")
	}
	fee := payout.Fee(converted, cycle.Fee)
	net := converted - fee

	splits, err := c.splits.Load(db, project, payout.GroupPayout)
	if err != nil {
		return 0, err
	}
	source := TreasuryAddress(project)
	leftover, err := c.distributor.Distribute(db, source, net, splits, c.fundsPayer(conf.Ticker, source))
	if err != nil {
		return 0, errors.Wrap(err, "distribute")
	}
	if leftover > 0 {
		if err := c.cash.MoveCoins(db, source, owner, unitsToCoin(leftover, conf.Ticker)); err != nil {
			return 0, errors.Wrap(err, "pay owner")
		}
	}
	if fee > 0 {
		if err := c.takeFee(db, conf, project, fee, owner); err != nil {
			return 0, err
		}
	}
	return converted, nil
}

// UseAllowance draws from the per configuration overflow allowance and
// sends the converted value, minus the protocol fee, directly to the
// beneficiary. Returns the converted settlement value.
func (c *Controller) UseAllowance(db weave.KVStore, project []byte, amount int64, currency string, beneficiary weave.Address, minValue int64) (int64, error) {
	release, err := c.enter(opAllowance)
	if err != nil {
		return 0, err
	}
	defer release()

	if err := validateAmount(amount); err != nil {
		return 0, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return 0, err
	}
	cycle, err := c.scheduler.RecordAllowanceUse(db, project, amount, currency)
	if err != nil {
		return 0, errors.Wrap(err, "record allowance use")
	}
	if err := validateRate(cycle.Fee); err != nil {
		return 0, err
	}
	converted, err := c.convert(db, amount, currency)
	if err != nil {
		return 0, err
	}
	if converted < minValue {
		return 0, errors.Wrapf(ErrInadequate, "converted %d below minimum %d", converted, minValue)
	}

	treasury, err := c.treasuries.GetOrCreate(db, project)
	if err != nil {
		return 0, err
	}
	if converted > treasury.Balance {
		return 0, errors.Wrapf(ticket.ErrInsufficientFunds, "allowance %d", converted)
	}
	treasury.Balance -= converted
	if err := c.treasuries.Save(db, project, treasury); err != nil {
		return 0, err
	}

	fee := payout.Fee(converted, cycle.Fee)
	net := converted - fee
	source := TreasuryAddress(project)
	if net > 0 {
		if err := c.cash.MoveCoins(db, source, beneficiary, unitsToCoin(net, conf.Ticker)); err != nil {
			return 0, errors.Wrap(err, "pay beneficiary")
		}
	}
	if fee > 0 {
		owner, err := c.projects.OwnerOf(db, project)
		if err != nil {
			return 0, errors.Wrap(err, "project owner")
		}
		if err := c.takeFee(db, conf, project, fee, owner); err != nil {
			return 0, err
		}
	}
	return converted, nil
}

// ClaimableOverflow returns the settlement value redeeming count tickets of
// the account would yield right now. Pure computation, no state change.
func (c *Controller) ClaimableOverflow(db weave.KVStore, account weave.Address, project []byte, count int64) (int64, error) {
	balance, err := c.tickets.BalanceOf(db, account, project)
	if err != nil {
		return 0, err
	}
	if balance < count {
		return 0, errors.Wrapf(ticket.ErrInsufficientFunds, "balance %d below count %d", balance, count)
	}
	cycle, err := c.scheduler.CurrentCycle(db, project)
	if err != nil {
		return 0, errors.Wrap(err, "current cycle")
	}
	if cycle.ID == 0 {
		return 0, nil
	}
	treasury, err := c.treasuries.GetOrCreate(db, project)
	if err != nil {
		return 0, err
	}
	overflow, err := c.overflowOf(db, treasury, cycle)
	if err != nil {
		return 0, err
	}
	if overflow == 0 {
		return 0, nil
	}

	supply, err := c.tickets.TotalSupply(db, project)
	if err != nil {
		return 0, err
	}
	reserved, err := reservedAmount(treasury.Tracker, cycle.Metadata.ReservedRate, supply)
	if err != nil {
		return 0, err
	}
	adjusted, err := safeAdd(supply, reserved)
	if err != nil {
		return 0, err
	}

	rate := cycle.Metadata.BondingCurveRate
	ballot, err := c.scheduler.BallotState(db, project)
	if err != nil {
		return 0, errors.Wrap(err, "ballot state")
	}
	if ballot == BallotActive {
		rate = cycle.Metadata.ReconfigurationBondingCurveRate
	}
	return claimable(overflow, count, adjusted, rate)
}

// Redeem burns count tickets of the account and pays the claimable overflow
// share to the beneficiary. Returns the paid settlement value.
func (c *Controller) Redeem(db weave.KVStore, account weave.Address, project []byte, count int64, minValue int64, beneficiary weave.Address, preferUnstaked bool) (int64, error) {
	release, err := c.enter(opRedeem)
	if err != nil {
		return 0, err
	}
	defer release()

	if err := validateAmount(count); err != nil {
		return 0, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return 0, err
	}
	amount, err := c.ClaimableOverflow(db, account, project, count)
	if err != nil {
		return 0, err
	}
	if amount < minValue {
		return 0, errors.Wrapf(ErrInadequate, "claimable %d below minimum %d", amount, minValue)
	}

	treasury, err := c.treasuries.GetOrCreate(db, project)
	if err != nil {
		return 0, err
	}
	treasury.Balance -= amount
	if treasury.Tracker, err = subTracker(treasury.Tracker, count); err != nil {
		return 0, err
	}
	if err := c.treasuries.Save(db, project, treasury); err != nil {
		return 0, err
	}
	if err := c.tickets.Burn(db, account, project, count, preferUnstaked); err != nil {
		return 0, errors.Wrap(err, "burn tickets")
	}

	if amount > 0 {
		if err := c.cash.MoveCoins(db, TreasuryAddress(project), beneficiary, unitsToCoin(amount, conf.Ticker)); err != nil {
			return 0, errors.Wrap(err, "pay beneficiary")
		}
	}
	return amount, nil
}

// PrintReservedTickets mints all reserved tickets owed since the tracker
// was last synced and distributes them over the reserved splits, minting
// the remainder to the project owner. Returns the minted amount. Calling it
// again without an intervening supply change mints zero.
func (c *Controller) PrintReservedTickets(db weave.KVStore, project []byte) (int64, error) {
	release, err := c.enter(opPrint)
	if err != nil {
		return 0, err
	}
	defer release()
	return c.printReserved(db, project)
}

func (c *Controller) printReserved(db weave.KVStore, project []byte) (int64, error) {
	cycle, err := c.scheduler.CurrentCycle(db, project)
	if err != nil {
		return 0, errors.Wrap(err, "current cycle")
	}
	if cycle.ID == 0 {
		return 0, errors.Wrap(errors.ErrNotFound, "no funding cycle")
	}
	treasury, err := c.treasuries.GetOrCreate(db, project)
	if err != nil {
		return 0, err
	}
	supply, err := c.tickets.TotalSupply(db, project)
	if err != nil {
		return 0, err
	}
	owed, err := reservedAmount(treasury.Tracker, cycle.Metadata.ReservedRate, supply)
	if err != nil {
		return 0, err
	}
	// Sync the tracker to the supply including the new prints, so that a
	// repeated call owes nothing.
	if treasury.Tracker, err = safeAdd(supply, owed); err != nil {
		return 0, err
	}
	if err := c.treasuries.Save(db, project, treasury); err != nil {
		return 0, err
	}
	if owed == 0 {
		return 0, nil
	}

	owner, err := c.projects.OwnerOf(db, project)
	if err != nil {
		return 0, errors.Wrap(err, "project owner")
	}
	splits, err := c.splits.Load(db, project, payout.GroupReserved)
	if err != nil {
		return 0, err
	}
	leftover, err := c.distributor.Distribute(db, nil, owed, splits, c.ticketPayer(project))
	if err != nil {
		return 0, errors.Wrap(err, "distribute tickets")
	}
	if leftover > 0 {
		if err := c.tickets.Mint(db, owner, project, leftover, false); err != nil {
			return 0, errors.Wrap(err, "mint owner tickets")
		}
	}
	return owed, nil
}

// Migrate moves the full pooled balance of a project to an allow listed
// destination terminal and updates the terminal of record. Reserved tickets
// are force synced first.
func (c *Controller) Migrate(db weave.KVStore, project []byte, destination weave.Address) error {
	release, err := c.enter(opMigrate)
	if err != nil {
		return err
	}
	defer release()

	conf, err := loadConf(db)
	if err != nil {
		return err
	}
	allowed := false
	for _, t := range conf.AllowedTerminals {
		if bytes.Equal(t, destination) {
			allowed = true
			break
		}
	}
	if !allowed {
		return errors.Wrap(ErrNotAllowed, "destination terminal not allow listed")
	}

	switch _, err := c.printReserved(db, project); {
	case err == nil:
	case errors.ErrNotFound.Is(err):
		// No funding cycle means no reserved tickets to sync.
	default:
		return errors.Wrap(err, "sync reserved tickets")
	}

	treasury, err := c.treasuries.GetOrCreate(db, project)
	if err != nil {
		return err
	}
	amount := treasury.Balance
	treasury.Balance = 0
	if err := c.treasuries.Save(db, project, treasury); err != nil {
		return err
	}
	if amount > 0 {
		if err := c.cash.MoveCoins(db, TreasuryAddress(project), destination, unitsToCoin(amount, conf.Ticker)); err != nil {
			return errors.Wrap(err, "forward balance")
		}
	}
	if err := c.directory.SetTerminal(db, project, destination); err != nil {
		return errors.Wrap(err, "set terminal")
	}
	return nil
}

// AddToBalance adds amount settlement units to a project treasury without
// minting tickets. The very first deposit of a project unknown to this
// terminal syncs the tracker to the current supply, so that pre-existing
// tickets are not treated as owed to reserved printing. A project with a
// treasury record keeps its tracker, even when the balance was fully drawn
// down, because reserved prints may still be owed against it.
func (c *Controller) AddToBalance(db weave.KVStore, from weave.Address, project []byte, amount int64, memo string) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	conf, err := loadConf(db)
	if err != nil {
		return err
	}
	var treasury Treasury
	switch err := c.treasuries.One(db, project, &treasury); {
	case err == nil:
	case errors.ErrNotFound.Is(err):
		treasury = Treasury{Metadata: &weave.Metadata{Schema: 1}}
		supply, err := c.tickets.TotalSupply(db, project)
		if err != nil {
			return err
		}
		treasury.Tracker = supply
	default:
		return errors.Wrap(err, "treasury")
	}
	if err := c.cash.MoveCoins(db, from, TreasuryAddress(project), unitsToCoin(amount, conf.Ticker)); err != nil {
		return errors.Wrap(err, "fund treasury")
	}
	if treasury.Balance, err = safeAdd(treasury.Balance, amount); err != nil {
		return err
	}
	return c.treasuries.Save(db, project, &treasury)
}

// SetWeight sets the per project mint weight override. Zero removes it.
func (c *Controller) SetWeight(db weave.KVStore, project []byte, weight int64) error {
	if weight < 0 {
		return errors.Wrap(errors.ErrAmount, "negative weight")
	}
	treasury, err := c.treasuries.GetOrCreate(db, project)
	if err != nil {
		return err
	}
	treasury.WeightOverride = weight
	return c.treasuries.Save(db, project, treasury)
}

// takeFee routes the protocol fee as a contribution to the platform
// project, minting platform tickets for the beneficiary. This terminal
// serves all projects, so the platform payment is always a local call.
func (c *Controller) takeFee(db weave.KVStore, conf Configuration, project []byte, fee int64, beneficiary weave.Address) error {
	if fee == 0 {
		return nil
	}
	if _, err := c.Contribute(db, TreasuryAddress(project), conf.PlatformProject, fee, beneficiary, 0, false, "fee"); err != nil {
		return errors.Wrap(err, "pay fee")
	}
	return nil
}

// overflowOf returns the part of the pooled balance exceeding the remaining
// spending target of the cycle, in settlement units.
func (c *Controller) overflowOf(db weave.KVStore, treasury *Treasury, cycle FundingCycle) (int64, error) {
	remaining := cycle.Target - cycle.Tapped
	if remaining < 0 {
		remaining = 0
	}
	converted, err := c.convert(db, remaining, cycle.Currency)
	if err != nil {
		return 0, err
	}
	if treasury.Balance <= converted {
		return 0, nil
	}
	return treasury.Balance - converted, nil
}

// convert turns an amount of the given currency into settlement units using
// the price feed.
func (c *Controller) convert(db weave.KVStore, amount int64, currency string) (int64, error) {
	rate, err := c.prices.PriceOf(db, currency)
	if err != nil {
		return 0, errors.Wrapf(err, "price of %q", currency)
	}
	return mulDiv(amount, rate, priceUnit)
}

// fundsPayer pays a split share in settlement coins out of the source
// wallet.
func (c *Controller) fundsPayer(ticker string, source weave.Address) payout.PayFunc {
	return func(db weave.KVStore, s payout.Split, share int64) error {
		return c.cash.MoveCoins(db, source, s.Beneficiary, unitsToCoin(share, ticker))
	}
}

// ticketPayer pays a split share by minting project tickets.
func (c *Controller) ticketPayer(project []byte) payout.PayFunc {
	return func(db weave.KVStore, s payout.Split, share int64) error {
		return c.tickets.Mint(db, s.Beneficiary, project, share, s.PreferUnstaked)
	}
}

func unitsToCoin(units int64, ticker string) coin.Coin {
	return coin.Coin{
		Whole:      units / priceUnit,
		Fractional: units % priceUnit,
		Ticker:     ticker,
	}
}
