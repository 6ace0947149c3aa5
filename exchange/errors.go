// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"errors"
	"fmt"
)

var (
	ErrPairMismatch        = errors.New("asset pair mismatch")
	ErrAssetNotInPair      = fmt.Errorf("%w: asset not in pair", ErrPairMismatch)
	ErrFundsMismatch       = errors.New("attached funds do not match declared amounts")
	ErrZeroAmount          = errors.New("amount must be positive")
	ErrAlreadyInstantiated = errors.New("exchange already instantiated")
	ErrUnknownMessage      = errors.New("unknown message")
)
