// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package safemath implements checked arithmetic over 256-bit unsigned
// integers. Amounts are 128 bits wide so the product of any two of them fits
// without wrapping.
package safemath

import (
	"fmt"

	"github.com/holiman/uint256"
)

const MaxAmountBits = 128

// Zero returns a new zero value.
func Zero() *uint256.Int {
	return new(uint256.Int)
}

// CheckAmount returns an error if [a] is nil or wider than 128 bits.
func CheckAmount(a *uint256.Int) error {
	if a == nil {
		return ErrMissingAmount
	}
	if a.BitLen() > MaxAmountBits {
		return fmt.Errorf("%w: %s", ErrAmountTooLarge, a.Dec())
	}
	return nil
}

func CheckedAdd(a, b *uint256.Int) (*uint256.Int, bool) {
	z, overflow := new(uint256.Int).AddOverflow(a, b)
	return z, !overflow
}

func CheckedSub(a, b *uint256.Int) (*uint256.Int, bool) {
	if a.Lt(b) {
		return nil, false
	}
	return new(uint256.Int).Sub(a, b), true
}

func CheckedMul(a, b *uint256.Int) (*uint256.Int, bool) {
	z, overflow := new(uint256.Int).MulOverflow(a, b)
	return z, !overflow
}

// CheckedDiv floors. It fails only when [b] is zero.
func CheckedDiv(a, b *uint256.Int) (*uint256.Int, bool) {
	if b.IsZero() {
		return nil, false
	}
	return new(uint256.Int).Div(a, b), true
}

func Add(a, b *uint256.Int) (*uint256.Int, error) {
	z, ok := CheckedAdd(a, b)
	if !ok {
		return nil, newError("add", ErrOverflow, a, b)
	}
	return z, nil
}

func Sub(a, b *uint256.Int) (*uint256.Int, error) {
	z, ok := CheckedSub(a, b)
	if !ok {
		return nil, newError("sub", ErrUnderflow, a, b)
	}
	return z, nil
}

func Mul(a, b *uint256.Int) (*uint256.Int, error) {
	z, ok := CheckedMul(a, b)
	if !ok {
		return nil, newError("mul", ErrOverflow, a, b)
	}
	return z, nil
}

func Div(a, b *uint256.Int) (*uint256.Int, error) {
	z, ok := CheckedDiv(a, b)
	if !ok {
		return nil, newError("div", ErrDivisionByZero, a, b)
	}
	return z, nil
}

// DivCeil rounds the quotient up.
func DivCeil(a, b *uint256.Int) (*uint256.Int, error) {
	if b.IsZero() {
		return nil, newError("div_ceil", ErrDivisionByZero, a, b)
	}
	q, r := new(uint256.Int).DivMod(a, b, new(uint256.Int))
	if !r.IsZero() {
		// q < a/b + 1 <= 2^256 - 1, cannot overflow
		q.AddUint64(q, 1)
	}
	return q, nil
}

// Sqrt returns floor(sqrt(a)). It is defined for every input.
func Sqrt(a *uint256.Int) *uint256.Int {
	return new(uint256.Int).Sqrt(a)
}

// MulDiv returns floor(a * b / d).
func MulDiv(a, b, d *uint256.Int) (*uint256.Int, error) {
	p, err := Mul(a, b)
	if err != nil {
		return nil, err
	}
	return Div(p, d)
}

func Min(a, b *uint256.Int) *uint256.Int {
	if a.Lt(b) {
		return a.Clone()
	}
	return b.Clone()
}
