package terminal

import (
	"math"
	"testing"

	"github.com/iov-one/weave/errors"
	"github.com/stretchr/testify/assert"
)

func TestReservedAmount(t *testing.T) {
	const supply = 100

	cases := map[string]struct {
		tracker int64
		rate    int64
		want    int64
	}{
		// Positive tracker, 90 unprocessed tickets.
		"positive tracker rate 0":   {tracker: 10, rate: 0, want: 0},
		"positive tracker rate 1":   {tracker: 10, rate: 1, want: 0},
		"positive tracker rate 199": {tracker: 10, rate: 199, want: 17910},
		"positive tracker rate 200": {tracker: 10, rate: 200, want: 90},
		// Zero tracker, the whole supply unprocessed.
		"zero tracker rate 0":   {tracker: 0, rate: 0, want: 0},
		"zero tracker rate 1":   {tracker: 0, rate: 1, want: 0},
		"zero tracker rate 199": {tracker: 0, rate: 199, want: 19900},
		"zero tracker rate 200": {tracker: 0, rate: 200, want: 100},
		// Negative tracker, more unprocessed than the supply.
		"negative tracker rate 0":   {tracker: -10, rate: 0, want: 0},
		"negative tracker rate 1":   {tracker: -10, rate: 1, want: 0},
		"negative tracker rate 199": {tracker: -10, rate: 199, want: 21890},
		"negative tracker rate 200": {tracker: -10, rate: 200, want: 110},
		// A fully synced tracker owes nothing.
		"synced tracker rate 200": {tracker: supply, rate: 200, want: 0},
		// A tracker above the supply owes nothing either.
		"tracker above supply": {tracker: supply + 50, rate: 200, want: 0},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := reservedAmount(tc.tracker, tc.rate, supply)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := reservedAmount(0, 201, supply)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestClaimable(t *testing.T) {
	const (
		overflow = 50_000
		supply   = 1000
	)

	cases := map[string]struct {
		count int64
		rate  int64
		want  int64
	}{
		"linear half":      {count: 500, rate: 200, want: 25_000},
		"disabled curve":   {count: 500, rate: 0, want: 0},
		"half curve":       {count: 500, rate: 100, want: 18_750},
		"steep curve":      {count: 500, rate: 1, want: 12_500},
		"almost linear":    {count: 500, rate: 199, want: 24_875},
		"zero count":       {count: 0, rate: 100, want: 0},
		"single ticket":    {count: 1, rate: 100, want: 25},
		"full supply r200": {count: supply, rate: 200, want: overflow},
		"full supply r0":   {count: supply, rate: 0, want: overflow},
		"full supply r1":   {count: supply, rate: 1, want: overflow},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := claimable(overflow, tc.count, supply, tc.rate)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := claimable(overflow, supply+1, supply, 100)
	assert.True(t, errors.ErrAmount.Is(err))
}

func TestClaimableMonotonic(t *testing.T) {
	const (
		overflow = 123_457
		supply   = 1000
	)
	for _, rate := range []int64{1, 50, 99, 199, 200} {
		var prev int64
		for count := int64(0); count <= supply; count += 25 {
			got, err := claimable(overflow, count, supply, rate)
			assert.NoError(t, err)
			assert.True(t, got >= prev, "rate %d count %d: %d < %d", rate, count, got, prev)
			prev = got
		}
		// Full redemption returns the exact overflow.
		assert.Equal(t, int64(overflow), prev, "rate %d", rate)
	}
}

func TestSubTracker(t *testing.T) {
	cases := map[string]struct {
		tracker int64
		count   int64
		want    int64
	}{
		"stays positive": {tracker: 5, count: 3, want: 2},
		"flips negative": {tracker: 5, count: 8, want: -3},
		"from zero":      {tracker: 0, count: 4, want: -4},
		"stays negative": {tracker: -5, count: 3, want: -8},
		"exact zero":     {tracker: 7, count: 7, want: 0},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := subTracker(tc.tracker, tc.count)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := subTracker(math.MinInt64+1, 2)
	assert.True(t, errors.ErrOverflow.Is(err))
}

func TestMulDiv(t *testing.T) {
	got, err := mulDiv(math.MaxInt64, 100, 200)
	assert.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64/2), got)

	got, err = mulDiv(7, 3, 2)
	assert.NoError(t, err)
	assert.Equal(t, int64(10), got)

	_, err = mulDiv(math.MaxInt64, 3, 2)
	assert.True(t, errors.ErrOverflow.Is(err))

	_, err = mulDiv(1, 1, 0)
	assert.True(t, errors.ErrInput.Is(err))
}
