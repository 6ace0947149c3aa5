// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package safemath

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// DecimalPlaces is the fractional precision ratios are truncated to.
const DecimalPlaces = 18

// ToDecimal converts an integer amount.
func ToDecimal(v *uint256.Int) decimal.Decimal {
	return decimal.NewFromBigInt(v.ToBig(), 0)
}

// ParseDecimal accepts non-negative values with at most [DecimalPlaces]
// fractional digits.
func ParseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q: %w", ErrInvalidDecimal, s, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q is negative", ErrInvalidDecimal, s)
	}
	if d.Exponent() < -DecimalPlaces {
		return decimal.Zero, fmt.Errorf("%w: %q has more than %d fractional digits", ErrInvalidDecimal, s, DecimalPlaces)
	}
	return d, nil
}

// Ratio returns num/den truncated to [DecimalPlaces] fractional digits.
func Ratio(num, den *uint256.Int) (decimal.Decimal, error) {
	if den.IsZero() {
		return decimal.Zero, newError("ratio", ErrDivisionByZero, num, den)
	}
	q, _ := ToDecimal(num).QuoRem(ToDecimal(den), DecimalPlaces)
	return q, nil
}

// MulTruncate returns a*b truncated to [DecimalPlaces] fractional digits.
func MulTruncate(a, b decimal.Decimal) decimal.Decimal {
	return a.Mul(b).Truncate(DecimalPlaces)
}
