package terminal

import (
	"github.com/iov-one/weave"
)

// FundingCycle is the read only view of the cycle the external scheduler
// reports for a project. A zero ID means no cycle was configured yet, which
// is a valid state: contributions are then tracked as pre-configuration.
type FundingCycle struct {
	ID      int64
	Number  int64
	Project []byte
	// Target is the spending target in the cycle currency.
	Target int64
	// Tapped is the part of the target already withdrawn.
	Tapped   int64
	Currency string
	// Weight is the ticket mint weight in fixed point, weightUnit scale.
	Weight       int64
	DiscountRate int64
	// Fee is the protocol fee rate, 0..200.
	Fee        int64
	Configured weave.UnixTime
	Metadata   CycleMetadata
}

// CycleMetadata carries the packed per configuration parameters. All rates
// use the 0..200 scale, 200 meaning the whole.
type CycleMetadata struct {
	ReservedRate     int64
	BondingCurveRate int64
	// ReconfigurationBondingCurveRate replaces BondingCurveRate while a
	// reconfiguration ballot is active.
	ReconfigurationBondingCurveRate int64
	// MaxSupply caps the project ticket supply. Zero means no cap.
	MaxSupply int64
}

// BallotState is the approval state of a pending reconfiguration.
type BallotState byte

const (
	BallotNone BallotState = iota
	BallotActive
	BallotApproved
	BallotFailed
)

// CycleScheduler is the external funding cycle collaborator. It owns cycle
// creation, weight decay and reconfiguration approval. The terminal only
// reads cycles and records spending against them.
type CycleScheduler interface {
	// CurrentCycle returns the active cycle of a project. A cycle with a
	// zero ID and no error means no cycle exists.
	CurrentCycle(db weave.KVStore, project []byte) (FundingCycle, error)
	// RecordWithdrawal validates amount against the cycle spending target
	// in the given currency and records it as tapped.
	RecordWithdrawal(db weave.KVStore, project []byte, amount int64, currency string) (FundingCycle, error)
	// RecordAllowanceUse validates amount against the per configuration
	// overflow allowance and records its use.
	RecordAllowanceUse(db weave.KVStore, project []byte, amount int64, currency string) (FundingCycle, error)
	// BallotState reports the reconfiguration ballot state of a project.
	BallotState(db weave.KVStore, project []byte) (BallotState, error)
}

// PriceFeed converts between a currency and settlement units. The returned
// rate is fixed point in priceUnit scale: converting an amount is
// amount * rate / priceUnit.
type PriceFeed interface {
	PriceOf(db weave.KVStore, currency string) (int64, error)
}

// Directory is the terminal of record mapping. Migration moves a project to
// another terminal through it.
type Directory interface {
	SetTerminal(db weave.KVStore, project []byte, terminal weave.Address) error
}

// ProjectRegistry resolves the owner of a registered project.
type ProjectRegistry interface {
	OwnerOf(db weave.KVStore, project []byte) (weave.Address, error)
}
