// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package asset

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/ava-labs/hyperamm/codec"
)

// Coin is an amount of a native denomination attached to a request.
type Coin struct {
	Denom  string       `json:"denom"`
	Amount *uint256.Int `json:"amount"`
}

// BalanceQuerier reads balances from the host ledger and from token
// contracts. Token balances are private and require the owner's viewing key.
type BalanceQuerier interface {
	NativeBalance(ctx context.Context, owner codec.Address, denom string) (*uint256.Int, error)
	TokenBalance(ctx context.Context, token ContractRef, owner codec.Address, viewingKey string) (*uint256.Int, error)
}

// BalanceOf returns the balance of [owner] in [a]. [viewingKey] is only used
// for custodied assets.
func BalanceOf(ctx context.Context, q BalanceQuerier, a Asset, owner codec.Address, viewingKey string) (*uint256.Int, error) {
	switch v := a.(type) {
	case Native:
		return q.NativeBalance(ctx, owner, v.Denom)
	case Custodied:
		return q.TokenBalance(ctx, v.Contract, owner, viewingKey)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownAsset, a)
	}
}
