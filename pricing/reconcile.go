// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/ava-labs/hyperamm/asset"
	"github.com/ava-labs/hyperamm/safemath"
)

// ReserveBefore returns the pool's reserve of [a] as it stood before the
// current request, given the balance observed during the request and the
// amount the request offers.
//
// Native funds are credited to the pool before the handler runs, so
// [observed] already includes [offered]. Custodied tokens are pulled by an
// instruction that executes after the handler returns, so [observed] does
// not include them yet.
func ReserveBefore(a asset.Asset, observed, offered *uint256.Int) (*uint256.Int, error) {
	switch a.(type) {
	case asset.Native:
		r, err := safemath.Sub(observed, offered)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrOfferExceedsBalance, a, err)
		}
		return r, nil
	case asset.Custodied:
		return observed.Clone(), nil
	default:
		return nil, fmt.Errorf("%w: %T", asset.ErrUnknownAsset, a)
	}
}
