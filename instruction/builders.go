// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package instruction

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/ava-labs/hyperamm/asset"
	"github.com/ava-labs/hyperamm/codec"
)

// ErrNativePull is returned when asked to pull a native asset. Native funds
// must be attached to the request instead.
var ErrNativePull = errors.New("native assets cannot be pulled")

// Transfer pays [amount] of [a] from the emitter to [to].
func Transfer(a asset.Asset, to codec.Address, amount *uint256.Int) (Instruction, error) {
	switch v := a.(type) {
	case asset.Native:
		return &BankSend{
			To:     to,
			Denom:  v.Denom,
			Amount: amount.Clone(),
		}, nil
	case asset.Custodied:
		return &TokenTransfer{
			Token:     v.Contract,
			Recipient: to,
			Amount:    amount.Clone(),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %T", asset.ErrUnknownAsset, a)
	}
}

// Pull moves [amount] of [a] from [owner] to [recipient] using the allowance
// [owner] granted to the emitter.
func Pull(a asset.Asset, owner, recipient codec.Address, amount *uint256.Int) (Instruction, error) {
	switch v := a.(type) {
	case asset.Native:
		return nil, fmt.Errorf("%w: %s", ErrNativePull, v.Denom)
	case asset.Custodied:
		return &TokenTransferFrom{
			Token:     v.Contract,
			Owner:     owner,
			Recipient: recipient,
			Amount:    amount.Clone(),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %T", asset.ErrUnknownAsset, a)
	}
}
