// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/holiman/uint256"

	"github.com/ava-labs/hyperamm/safemath"
)

// Fee is the share of every swap's gross return retained by the pool.
type Fee struct {
	Numerator   uint64 `json:"numerator" yaml:"numerator"`
	Denominator uint64 `json:"denominator" yaml:"denominator"`
}

func DefaultFee() Fee {
	return Fee{Numerator: 3, Denominator: 1000}
}

func (f Fee) Validate() error {
	if f.Denominator == 0 || f.Numerator > f.Denominator {
		return fmt.Errorf("%w: %d/%d", ErrInvalidFee, f.Numerator, f.Denominator)
	}
	return nil
}

// ParseFee parses the "numerator/denominator" form returned by [Fee.String].
func ParseFee(s string) (Fee, error) {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return Fee{}, fmt.Errorf("%w: %q", ErrInvalidFee, s)
	}
	var (
		f   Fee
		err error
	)
	if f.Numerator, err = strconv.ParseUint(num, 10, 64); err != nil {
		return Fee{}, fmt.Errorf("%w: %q: %w", ErrInvalidFee, s, err)
	}
	if f.Denominator, err = strconv.ParseUint(den, 10, 64); err != nil {
		return Fee{}, fmt.Errorf("%w: %q: %w", ErrInvalidFee, s, err)
	}
	return f, f.Validate()
}

func (f Fee) String() string {
	return fmt.Sprintf("%d/%d", f.Numerator, f.Denominator)
}

type SwapResult struct {
	// Return is paid out to the trader
	Return *uint256.Int `json:"return"`
	// Spread is the price impact against the pre-trade price
	Spread *uint256.Int `json:"spread"`
	// Commission stays in the pool
	Commission *uint256.Int `json:"commission"`
}

// ComputeSwap prices a trade of [offerAmount] against the given reserves:
//
//	cp         = offerReserve * askReserve
//	gross      = askReserve - cp / (offerReserve + offerAmount)
//	ideal      = offerAmount * askReserve / offerReserve
//	spread     = max(ideal - gross, 0)
//	commission = gross * fee
//	return     = gross - commission
//
// Every division floors.
func ComputeSwap(offerReserve, askReserve, offerAmount *uint256.Int, fee Fee) (*SwapResult, error) {
	if err := fee.Validate(); err != nil {
		return nil, err
	}
	cp, err := safemath.Mul(offerReserve, askReserve)
	if err != nil {
		return nil, err
	}
	newOfferReserve, err := safemath.Add(offerReserve, offerAmount)
	if err != nil {
		return nil, err
	}
	newAskReserve, err := safemath.Div(cp, newOfferReserve)
	if err != nil {
		return nil, err
	}
	gross, err := safemath.Sub(askReserve, newAskReserve)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInsufficientReserve, err)
	}
	ideal, err := safemath.MulDiv(offerAmount, askReserve, offerReserve)
	if err != nil {
		return nil, err
	}
	spread := safemath.Zero()
	if ideal.Gt(gross) {
		spread.Sub(ideal, gross)
	}
	commission, err := safemath.MulDiv(gross, uint256.NewInt(fee.Numerator), uint256.NewInt(fee.Denominator))
	if err != nil {
		return nil, err
	}
	// commission <= gross because the fee is at most one
	ret := new(uint256.Int).Sub(gross, commission)
	return &SwapResult{
		Return:     ret,
		Spread:     spread,
		Commission: commission,
	}, nil
}

// ConstantProduct executes swaps against a pair of reserves and tracks the
// reserves afterwards.
type ConstantProduct struct {
	offerReserve *uint256.Int
	askReserve   *uint256.Int
	fee          Fee
}

func NewConstantProduct(offerReserve, askReserve *uint256.Int, fee Fee) *ConstantProduct {
	return &ConstantProduct{
		offerReserve: offerReserve.Clone(),
		askReserve:   askReserve.Clone(),
		fee:          fee,
	}
}

// Swap prices the trade with [ComputeSwap] and then caps the return so the
// product of the reserves after the trade is never smaller than before. Any
// amount removed by the cap is added to the commission, so
// Return + Commission is the gross return either way.
func (c *ConstantProduct) Swap(offerAmount *uint256.Int) (*SwapResult, error) {
	if c.offerReserve.IsZero() || c.askReserve.IsZero() {
		return nil, fmt.Errorf("%w: offer=%s ask=%s", ErrReservesZero, c.offerReserve.Dec(), c.askReserve.Dec())
	}
	if offerAmount.IsZero() {
		return nil, ErrZeroInput
	}
	res, err := ComputeSwap(c.offerReserve, c.askReserve, offerAmount, c.fee)
	if err != nil {
		return nil, err
	}

	cp, err := safemath.Mul(c.offerReserve, c.askReserve)
	if err != nil {
		return nil, err
	}
	newOfferReserve, err := safemath.Add(c.offerReserve, offerAmount)
	if err != nil {
		return nil, err
	}
	minAskReserve, err := safemath.DivCeil(cp, newOfferReserve)
	if err != nil {
		return nil, err
	}
	maxReturn, err := safemath.Sub(c.askReserve, minAskReserve)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInsufficientReserve, err)
	}
	if res.Return.Gt(maxReturn) {
		excess := new(uint256.Int).Sub(res.Return, maxReturn)
		res.Return = maxReturn
		res.Commission, err = safemath.Add(res.Commission, excess)
		if err != nil {
			return nil, err
		}
	}

	c.offerReserve = newOfferReserve
	// Return <= maxReturn <= askReserve
	c.askReserve = new(uint256.Int).Sub(c.askReserve, res.Return)
	return res, nil
}

// GetState returns copies of the current reserves.
func (c *ConstantProduct) GetState() (*uint256.Int, *uint256.Int) {
	return c.offerReserve.Clone(), c.askReserve.Clone()
}
