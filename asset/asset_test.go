// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package asset_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ava-labs/hyperamm/asset"
	"github.com/ava-labs/hyperamm/asset/assetmock"
	"github.com/ava-labs/hyperamm/codec"
	"github.com/ava-labs/hyperamm/consts"
)

var (
	native = asset.Native{Denom: "uamm"}
	token  = asset.Custodied{Contract: asset.ContractRef{
		Address:  codec.CreateAddress(consts.TokenID, ids.GenerateTestID()),
		CodeHash: "token-code",
	}}
)

func TestPairValidate(t *testing.T) {
	tests := []struct {
		name string
		pair asset.Pair
		err  error
	}{
		{
			name: "native and custodied",
			pair: asset.NewPair(native, token),
		},
		{
			name: "two natives",
			pair: asset.NewPair(native, asset.Native{Denom: "uother"}),
		},
		{
			name: "identical",
			pair: asset.NewPair(token, token),
			err:  asset.ErrIdenticalAssets,
		},
		{
			name: "same contract under two code hashes",
			pair: asset.NewPair(token, asset.Custodied{Contract: asset.ContractRef{
				Address:  token.Contract.Address,
				CodeHash: "other",
			}}),
			err: asset.ErrIdenticalAssets,
		},
		{
			name: "empty denom",
			pair: asset.NewPair(asset.Native{}, token),
			err:  asset.ErrEmptyDenom,
		},
		{
			name: "empty contract",
			pair: asset.NewPair(native, asset.Custodied{}),
			err:  asset.ErrEmptyContract,
		},
		{
			name: "missing asset",
			pair: asset.Pair{Assets: [2]asset.Asset{native, nil}},
			err:  asset.ErrUnknownAsset,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.pair.Validate(), tt.err)
		})
	}
}

func TestPairOrderIndependence(t *testing.T) {
	require := require.New(t)

	p := asset.NewPair(native, token)
	r := asset.NewPair(token, native)

	require.True(p.Equal(r))
	require.True(p.Reversed(r))
	require.False(p.Reversed(p))

	pk, err := p.Key()
	require.NoError(err)
	rk, err := r.Key()
	require.NoError(err)
	require.Equal(pk, rk)

	i, ok := p.Index(token)
	require.True(ok)
	require.Equal(1, i)
	require.False(p.Contains(asset.Native{Denom: "uother"}))

	other := asset.NewPair(native, asset.Native{Denom: "uother"})
	require.False(p.Equal(other))

	rehashed := token
	rehashed.Contract.CodeHash = "other"
	require.False(p.Contains(rehashed))
	require.False(p.Equal(asset.NewPair(rehashed, native)))
}

func TestAssetEquality(t *testing.T) {
	require := require.New(t)

	same := token
	require.True(asset.Equal(token, same))

	rehashed := token
	rehashed.Contract.CodeHash = "other"
	require.False(asset.Equal(token, rehashed))

	moved := token
	moved.Contract.Address = codec.CreateAddress(consts.TokenID, ids.GenerateTestID())
	require.False(asset.Equal(token, moved))

	require.False(asset.Equal(native, token))
	require.False(asset.Equal(token, native))
	require.False(asset.Equal(nil, native))
}

func TestPairJSON(t *testing.T) {
	require := require.New(t)

	p := asset.NewPair(native, token)
	b, err := json.Marshal(p)
	require.NoError(err)

	var decoded asset.Pair
	require.NoError(json.Unmarshal(b, &decoded))
	require.Equal(p, decoded)

	err = json.Unmarshal([]byte(`[{"native":{"denom":"a"}},{}]`), &decoded)
	require.ErrorIs(err, asset.ErrInvalidJSON)
}

func TestPackRoundTrip(t *testing.T) {
	require := require.New(t)

	p := &wrappers.Packer{MaxSize: 1024}
	pair := asset.NewPair(native, token)
	asset.PackPair(p, pair)
	require.NoError(p.Err)

	r := &wrappers.Packer{Bytes: p.Bytes}
	require.Equal(pair, asset.UnpackPair(r))
	require.NoError(r.Err)

	bad := &wrappers.Packer{Bytes: []byte{9}}
	require.Nil(asset.Unpack(bad))
	require.ErrorIs(bad.Err, asset.ErrUnknownAsset)
}

func TestBalanceOf(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	owner := codec.CreateAddress(consts.ExchangeID, ids.GenerateTestID())
	q := assetmock.NewBalanceQuerier(ctrl)
	q.EXPECT().NativeBalance(ctx, owner, "uamm").Return(uint256.NewInt(10), nil)
	q.EXPECT().TokenBalance(ctx, token.Contract, owner, "vk").Return(uint256.NewInt(20), nil)

	bal, err := asset.BalanceOf(ctx, q, native, owner, "vk")
	require.NoError(err)
	require.Equal(uint256.NewInt(10), bal)

	bal, err = asset.BalanceOf(ctx, q, token, owner, "vk")
	require.NoError(err)
	require.Equal(uint256.NewInt(20), bal)

	_, err = asset.BalanceOf(ctx, q, nil, owner, "vk")
	require.ErrorIs(err, asset.ErrUnknownAsset)
}
