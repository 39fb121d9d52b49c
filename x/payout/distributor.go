package payout

import (
	"math/big"

	"github.com/iov-one/weave"
	"github.com/iov-one/weave/errors"
)

// Terminal accepts a distribution share as a contribution to a project. The
// treasury terminal implements this interface.
type Terminal interface {
	Pay(db weave.KVStore, from weave.Address, project []byte, amount int64, beneficiary weave.Address, memo string, preferUnstaked bool) error
}

// TerminalDirectory resolves the terminal a project accepts payments
// through.
type TerminalDirectory interface {
	TerminalOf(db weave.KVStore, project []byte) (Terminal, error)
}

// Allocator is application provided routing code, addressed by name in a
// split configuration.
type Allocator interface {
	Allocate(db weave.KVStore, from weave.Address, split Split, share int64) error
}

// PayFunc delivers a share to the split beneficiary. The caller decides what
// is being delivered, funds or tickets.
type PayFunc func(db weave.KVStore, split Split, share int64) error

// Distributor routes distribution shares between split targets.
type Distributor struct {
	directory  TerminalDirectory
	allocators map[string]Allocator
}

func NewDistributor(directory TerminalDirectory, allocators map[string]Allocator) *Distributor {
	return &Distributor{
		directory:  directory,
		allocators: allocators,
	}
}

// Distribute routes amount between the splits and returns the undistributed
// leftover. Each share is computed from the full amount, not from the
// remainder. The first failing split aborts the distribution. Splits with a
// zero share are skipped.
func (d *Distributor) Distribute(db weave.KVStore, from weave.Address, amount int64, splits []Split, direct PayFunc) (int64, error) {
	if amount < 0 {
		return 0, errors.Wrap(errors.ErrAmount, "negative amount")
	}
	leftover := amount
	for i, s := range splits {
		share := Share(amount, s.Percent)
		if share == 0 {
			continue
		}
		switch {
		case s.Allocator != "":
			a, ok := d.allocators[s.Allocator]
			if !ok {
				return 0, errors.Wrapf(errors.ErrNotFound, "split #%d: allocator %q", i, s.Allocator)
			}
			if err := a.Allocate(db, from, s, share); err != nil {
				return 0, errors.Wrapf(err, "split #%d: allocate", i)
			}
		case len(s.Project) != 0:
			term, err := d.directory.TerminalOf(db, s.Project)
			if err != nil {
				return 0, errors.Wrapf(err, "split #%d: terminal", i)
			}
			if err := term.Pay(db, from, s.Project, share, s.Beneficiary, "", s.PreferUnstaked); err != nil {
				return 0, errors.Wrapf(err, "split #%d: pay project", i)
			}
		default:
			if err := direct(db, s, share); err != nil {
				return 0, errors.Wrapf(err, "split #%d: pay beneficiary", i)
			}
		}
		leftover -= share
	}
	return leftover, nil
}

// Share returns the fraction of amount a split claims, rounded down.
func Share(amount int64, percent uint32) int64 {
	share := new(big.Int).Mul(big.NewInt(amount), big.NewInt(int64(percent)))
	share.Quo(share, big.NewInt(percentDenominator))
	return share.Int64()
}

// Fee returns the protocol fee contained in amount for the given fee rate.
// The rate is expressed in 1/200 units. The fee is computed so that paying
// amount minus fee into a treasury at that rate grows it back by exactly
// amount minus fee.
func Fee(amount, feeRate int64) int64 {
	if feeRate <= 0 || amount <= 0 {
		return 0
	}
	kept := new(big.Int).Mul(big.NewInt(amount), big.NewInt(200))
	kept.Quo(kept, big.NewInt(feeRate+200))
	return amount - kept.Int64()
}
