// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import (
	"math/rand"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hyperamm/safemath"
)

func u(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

func TestComputeSwap(t *testing.T) {
	tests := []struct {
		name         string
		offerReserve uint64
		askReserve   uint64
		offerAmount  uint64
		fee          Fee
		ret          uint64
		spread       uint64
		commission   uint64
	}{
		{
			name:         "small pool",
			offerReserve: 1000,
			askReserve:   1000,
			offerAmount:  100,
			fee:          DefaultFee(),
			ret:          91,
			spread:       9,
			commission:   0,
		},
		{
			name:         "fee charged",
			offerReserve: 1_000_000,
			askReserve:   1_000_000,
			offerAmount:  10_000,
			fee:          DefaultFee(),
			// gross = 1_000_000 - 1_000_000_000_000 / 1_010_000 = 9901
			ret:        9872,
			spread:     99,
			commission: 29,
		},
		{
			name:         "no fee",
			offerReserve: 500,
			askReserve:   2000,
			offerAmount:  500,
			fee:          Fee{Numerator: 0, Denominator: 1},
			ret:          1000,
			spread:       1000,
			commission:   0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			res, err := ComputeSwap(u(tt.offerReserve), u(tt.askReserve), u(tt.offerAmount), tt.fee)
			require.NoError(err)
			require.Equal(u(tt.ret), res.Return)
			require.Equal(u(tt.spread), res.Spread)
			require.Equal(u(tt.commission), res.Commission)
		})
	}
}

func TestComputeSwapErrors(t *testing.T) {
	require := require.New(t)

	_, err := ComputeSwap(u(0), u(1000), u(10), DefaultFee())
	require.ErrorIs(err, safemath.ErrDivisionByZero)

	maxInt := new(uint256.Int).SetAllOne()
	_, err = ComputeSwap(maxInt, u(2), u(1), DefaultFee())
	require.ErrorIs(err, safemath.ErrOverflow)

	_, err = ComputeSwap(u(10), u(10), u(1), Fee{Numerator: 1, Denominator: 0})
	require.ErrorIs(err, ErrInvalidFee)

	_, err = ComputeSwap(u(10), u(10), u(1), Fee{Numerator: 2, Denominator: 1})
	require.ErrorIs(err, ErrInvalidFee)
}

func TestSwapKeepsProduct(t *testing.T) {
	require := require.New(t)

	// Without fees the floor in ComputeSwap over-pays by one unit here.
	cp := NewConstantProduct(u(1000), u(1000), Fee{Numerator: 0, Denominator: 1})
	res, err := cp.Swap(u(100))
	require.NoError(err)
	require.Equal(u(90), res.Return)
	require.Equal(u(1), res.Commission)

	offer, ask := cp.GetState()
	require.Equal(u(1100), offer)
	require.Equal(u(910), ask)
	require.True(new(uint256.Int).Mul(offer, ask).Cmp(u(1_000_000)) >= 0)
}

func TestSwapProductNeverDecreases(t *testing.T) {
	require := require.New(t)
	r := rand.New(rand.NewSource(1)) //nolint:gosec

	fees := []Fee{DefaultFee(), {Numerator: 0, Denominator: 1}, {Numerator: 1, Denominator: 10_000}}
	for i := 0; i < 2_000; i++ {
		offerReserve := u(r.Uint64()%1_000_000_000 + 1)
		askReserve := u(r.Uint64()%1_000_000_000 + 1)
		offerAmount := u(r.Uint64()%1_000_000_000 + 1)
		fee := fees[i%len(fees)]

		before := new(uint256.Int).Mul(offerReserve, askReserve)
		cp := NewConstantProduct(offerReserve, askReserve, fee)
		res, err := cp.Swap(offerAmount)
		require.NoError(err)

		offer, ask := cp.GetState()
		after := new(uint256.Int).Mul(offer, ask)
		require.False(after.Lt(before), "product decreased: %s -> %s", before, after)

		gross, err := ComputeSwap(offerReserve, askReserve, offerAmount, fee)
		require.NoError(err)
		require.Equal(
			new(uint256.Int).Add(gross.Return, gross.Commission),
			new(uint256.Int).Add(res.Return, res.Commission),
		)
		require.Equal(gross.Spread, res.Spread)
	}
}

func TestSwapErrors(t *testing.T) {
	require := require.New(t)

	_, err := NewConstantProduct(u(0), u(10), DefaultFee()).Swap(u(1))
	require.ErrorIs(err, ErrReservesZero)
	require.ErrorIs(err, ErrInsufficientReserve)

	_, err = NewConstantProduct(u(10), u(0), DefaultFee()).Swap(u(1))
	require.ErrorIs(err, ErrReservesZero)

	_, err = NewConstantProduct(u(10), u(10), DefaultFee()).Swap(u(0))
	require.ErrorIs(err, ErrZeroInput)
}

func TestParseFee(t *testing.T) {
	require := require.New(t)

	f, err := ParseFee("3/1000")
	require.NoError(err)
	require.Equal(DefaultFee(), f)
	require.Equal("3/1000", f.String())

	for _, s := range []string{"3", "a/1000", "3/b", "3/0", "2/1"} {
		_, err := ParseFee(s)
		require.ErrorIs(err, ErrInvalidFee, s)
	}
}
