package terminal

import (
	"math/big"

	"github.com/iov-one/weave/errors"
)

const (
	// rateScale is the denominator of all rates. A rate of rateScale
	// means the whole.
	rateScale = 200
	// weightUnit is the fixed point scale of mint weights. A weight of
	// weightUnit mints one ticket per settlement unit.
	weightUnit = 1_000_000_000
	// priceUnit is the fixed point scale of price feed rates and the
	// number of settlement units in one whole coin.
	priceUnit = 1_000_000_000
)

func validateRate(rate int64) error {
	if rate < 0 || rate > rateScale {
		return errors.Wrapf(errors.ErrInput, "rate %d out of 0..%d", rate, rateScale)
	}
	return nil
}

// mulDiv returns a*b/div rounded down, computing the product with arbitrary
// precision. All arguments must be non negative and div positive.
func mulDiv(a, b, div int64) (int64, error) {
	if a < 0 || b < 0 {
		return 0, errors.Wrap(errors.ErrAmount, "negative factor")
	}
	if div <= 0 {
		return 0, errors.Wrap(errors.ErrInput, "non positive divisor")
	}
	res := new(big.Int).Mul(big.NewInt(a), big.NewInt(b))
	res.Quo(res, big.NewInt(div))
	if !res.IsInt64() {
		return 0, errors.Wrap(errors.ErrOverflow, "int64 product")
	}
	return res.Int64(), nil
}

func safeAdd(a, b int64) (int64, error) {
	sum := a + b
	if b > 0 && sum < a || b < 0 && sum > a {
		return 0, errors.Wrap(errors.ErrOverflow, "int64 addition")
	}
	return sum, nil
}

func safeSub(a, b int64) (int64, error) {
	res := a - b
	if b > 0 && res > a || b < 0 && res < a {
		return 0, errors.Wrap(errors.ErrOverflow, "int64 subtraction")
	}
	return res, nil
}

// reservedAmount returns the amount of reserved tickets owed for a project
// given the processed ticket tracker, the reserved rate and the total
// ticket supply. The unprocessed pool is the supply part the tracker does
// not cover. The reserved complement is derived so that the unprocessed
// pool is exactly the unreserved fraction of pool plus complement.
func reservedAmount(tracker, rate, supply int64) (int64, error) {
	if err := validateRate(rate); err != nil {
		return 0, err
	}
	unprocessed, err := safeSub(supply, tracker)
	if err != nil {
		return 0, err
	}
	if unprocessed <= 0 {
		return 0, nil
	}
	if rate == rateScale {
		return unprocessed, nil
	}
	full, err := mulDiv(unprocessed, rateScale, rateScale-rate)
	if err != nil {
		return 0, err
	}
	return full - unprocessed, nil
}

// claimable returns the overflow share a redemption of count tickets yields
// on the bonding curve. The supply must already include unprinted reserved
// tickets. Redeeming the whole supply returns the whole overflow for any
// rate.
func claimable(overflow, count, supply, rate int64) (int64, error) {
	if err := validateRate(rate); err != nil {
		return 0, err
	}
	if count < 0 || count > supply {
		return 0, errors.Wrapf(errors.ErrAmount, "count %d out of supply %d", count, supply)
	}
	if overflow == 0 || supply == 0 || count == 0 {
		return 0, nil
	}
	if count == supply {
		return overflow, nil
	}
	base, err := mulDiv(overflow, count, supply)
	if err != nil {
		return 0, err
	}
	switch rate {
	case rateScale:
		return base, nil
	case 0:
		return 0, nil
	}
	boost, err := mulDiv(count, rateScale-rate, supply)
	if err != nil {
		return 0, err
	}
	return mulDiv(base, rate+boost, rateScale)
}

// subTracker subtracts a redeemed ticket count from the processed ticket
// tracker. The sign is allowed to flip negative when more tickets were
// pre-claimed as unreserved than currently exist.
func subTracker(tracker, count int64) (int64, error) {
	if count < 0 {
		return 0, errors.Wrap(errors.ErrAmount, "negative count")
	}
	switch {
	case tracker < 0:
		return safeSub(tracker, count)
	case tracker < count:
		return -(count - tracker), nil
	default:
		return tracker - count, nil
	}
}
