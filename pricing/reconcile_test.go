// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hyperamm/asset"
	"github.com/ava-labs/hyperamm/codec"
	"github.com/ava-labs/hyperamm/consts"
	"github.com/ava-labs/hyperamm/safemath"
)

func newToken() asset.Custodied {
	return asset.Custodied{Contract: asset.ContractRef{
		Address:  codec.CreateAddress(consts.TokenID, ids.GenerateTestID()),
		CodeHash: "token",
	}}
}

// The native side of a deposit is already in the observed balance, the
// custodied side is not. Check each combination of kinds so a swapped
// subtraction shows up regardless of pair order.
func TestReserveBeforeByPairKind(t *testing.T) {
	nativeA := asset.Native{Denom: "ua"}
	nativeB := asset.Native{Denom: "ub"}
	tokenA := newToken()
	tokenB := newToken()

	tests := []struct {
		name     string
		pair     asset.Pair
		observed [2]uint64
		offered  [2]uint64
		reserves [2]uint64
	}{
		{
			name:     "native then custodied",
			pair:     asset.NewPair(nativeA, tokenA),
			observed: [2]uint64{1100, 1000},
			offered:  [2]uint64{100, 100},
			reserves: [2]uint64{1000, 1000},
		},
		{
			name:     "custodied then native",
			pair:     asset.NewPair(tokenA, nativeA),
			observed: [2]uint64{1000, 1100},
			offered:  [2]uint64{100, 100},
			reserves: [2]uint64{1000, 1000},
		},
		{
			name:     "native and native",
			pair:     asset.NewPair(nativeA, nativeB),
			observed: [2]uint64{1100, 1300},
			offered:  [2]uint64{100, 300},
			reserves: [2]uint64{1000, 1000},
		},
		{
			name:     "custodied and custodied",
			pair:     asset.NewPair(tokenA, tokenB),
			observed: [2]uint64{1000, 1000},
			offered:  [2]uint64{100, 300},
			reserves: [2]uint64{1000, 1000},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			for i, a := range tt.pair.Assets {
				r, err := ReserveBefore(a, u(tt.observed[i]), u(tt.offered[i]))
				require.NoError(err)
				require.Equal(u(tt.reserves[i]), r, "side %d (%s)", i, a.Kind())
			}
		})
	}
}

func TestReserveBeforeOfferExceedsBalance(t *testing.T) {
	require := require.New(t)

	_, err := ReserveBefore(asset.Native{Denom: "ua"}, u(50), u(100))
	require.ErrorIs(err, ErrOfferExceedsBalance)
	require.ErrorIs(err, ErrInsufficientReserve)
	require.ErrorIs(err, safemath.ErrUnderflow)
	require.Contains(err.Error(), "sub(50, 100)")

	// custodied offers are not in the balance yet
	r, err := ReserveBefore(newToken(), u(50), u(100))
	require.NoError(err)
	require.Equal(u(50), r)

	_, err = ReserveBefore(nil, u(50), u(1))
	require.ErrorIs(err, asset.ErrUnknownAsset)
}
