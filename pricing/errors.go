// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientReserve = errors.New("insufficient reserve")
	ErrOfferExceedsBalance = fmt.Errorf("%w: offer exceeds pool balance", ErrInsufficientReserve)
	ErrReservesZero        = fmt.Errorf("%w: reserves are zero", ErrInsufficientReserve)

	ErrSlippageExceeded            = errors.New("slippage tolerance exceeded")
	ErrInvalidTolerance            = errors.New("slippage tolerance must be between 0 and 1")
	ErrZeroInput                   = errors.New("zero input")
	ErrZeroReturn                  = errors.New("swap returns nothing")
	ErrInsufficientLiquidityMinted = errors.New("insufficient liquidity minted")
	ErrInvalidFee                  = errors.New("invalid fee")
)
