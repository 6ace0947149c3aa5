// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	"github.com/ava-labs/hyperamm/safemath"
)

// MintAmount returns the share tokens owed for [deposits] given the pool's
// [reserves] before the deposit and the current share [supply].
//
// The first deposit mints sqrt(d0 * d1). Later deposits mint in proportion
// to whichever side is scarcer relative to the pool.
func MintAmount(deposits, reserves [2]*uint256.Int, supply *uint256.Int) (*uint256.Int, error) {
	var liquidity *uint256.Int
	if supply.IsZero() {
		k, err := safemath.Mul(deposits[0], deposits[1])
		if err != nil {
			return nil, err
		}
		liquidity = safemath.Sqrt(k)
	} else {
		l0, err := safemath.MulDiv(deposits[0], supply, reserves[0])
		if err != nil {
			return nil, err
		}
		l1, err := safemath.MulDiv(deposits[1], supply, reserves[1])
		if err != nil {
			return nil, err
		}
		liquidity = safemath.Min(l0, l1)
	}
	if liquidity.IsZero() {
		return nil, fmt.Errorf("%w: deposits=(%s, %s) supply=%s",
			ErrInsufficientLiquidityMinted, deposits[0].Dec(), deposits[1].Dec(), supply.Dec())
	}
	return liquidity, nil
}

// WithdrawAmounts returns each reserve's share of [burn] out of [supply],
// rounded down.
func WithdrawAmounts(reserves [2]*uint256.Int, supply, burn *uint256.Int) ([2]*uint256.Int, error) {
	var out [2]*uint256.Int
	if burn.Gt(supply) {
		return out, fmt.Errorf("%w: burning %s of %s shares", ErrInsufficientReserve, burn.Dec(), supply.Dec())
	}
	for i, r := range reserves {
		w, err := safemath.MulDiv(r, burn, supply)
		if err != nil {
			return out, err
		}
		out[i] = w
	}
	return out, nil
}

// CheckSlippage rejects a deposit whose asset ratio differs from the pool's
// by more than [tolerance] in either direction. Ratios are compared as
// 18-digit fixed-point numbers. An empty pool has no price to protect.
func CheckSlippage(deposits, reserves [2]*uint256.Int, tolerance decimal.Decimal) error {
	one := decimal.NewFromInt(1)
	if tolerance.IsNegative() || tolerance.GreaterThan(one) {
		return fmt.Errorf("%w: %s", ErrInvalidTolerance, tolerance)
	}
	if reserves[0].IsZero() || reserves[1].IsZero() {
		return nil
	}
	if deposits[0].IsZero() || deposits[1].IsZero() {
		return fmt.Errorf("%w: one-sided deposit (%s, %s)", ErrSlippageExceeded, deposits[0].Dec(), deposits[1].Dec())
	}
	keep := one.Sub(tolerance)
	for _, d := range [][2]int{{0, 1}, {1, 0}} {
		i, j := d[0], d[1]
		depositRatio, err := safemath.Ratio(deposits[i], deposits[j])
		if err != nil {
			return err
		}
		poolRatio, err := safemath.Ratio(reserves[i], reserves[j])
		if err != nil {
			return err
		}
		if safemath.MulTruncate(depositRatio, keep).GreaterThan(poolRatio) {
			return fmt.Errorf("%w: deposit ratio %s against pool ratio %s with tolerance %s",
				ErrSlippageExceeded, depositRatio, poolRatio, tolerance)
		}
	}
	return nil
}
