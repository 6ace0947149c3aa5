// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"fmt"
	"slices"

	"github.com/holiman/uint256"
	"golang.org/x/exp/maps"

	"github.com/ava-labs/hyperamm/asset"
	"github.com/ava-labs/hyperamm/safemath"
)

// checkFunds requires the native coins attached to the request to equal the
// declared amount of every native side of [pair], and nothing else.
func checkFunds(funds []asset.Coin, pair asset.Pair, declared [2]*uint256.Int) error {
	attached := make(map[string]*uint256.Int, len(funds))
	for _, c := range funds {
		if c.Amount == nil || c.Amount.IsZero() {
			continue
		}
		total, ok := attached[c.Denom]
		if !ok {
			total = safemath.Zero()
		}
		sum, err := safemath.Add(total, c.Amount)
		if err != nil {
			return err
		}
		attached[c.Denom] = sum
	}
	for i, a := range pair.Assets {
		n, ok := a.(asset.Native)
		if !ok {
			continue
		}
		got, ok := attached[n.Denom]
		if !ok {
			got = safemath.Zero()
		}
		if !got.Eq(declared[i]) {
			return fmt.Errorf("%w: declared %s%s, attached %s%s",
				ErrFundsMismatch, declared[i].Dec(), n.Denom, got.Dec(), n.Denom)
		}
		delete(attached, n.Denom)
	}
	if len(attached) > 0 {
		denoms := maps.Keys(attached)
		slices.Sort(denoms)
		return fmt.Errorf("%w: unexpected %s%s", ErrFundsMismatch, attached[denoms[0]].Dec(), denoms[0])
	}
	return nil
}
