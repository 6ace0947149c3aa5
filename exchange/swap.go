// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/ava-labs/hyperamm/asset"
	"github.com/ava-labs/hyperamm/instruction"
	"github.com/ava-labs/hyperamm/ledger"
	"github.com/ava-labs/hyperamm/pricing"
	"github.com/ava-labs/hyperamm/safemath"
	"github.com/ava-labs/hyperamm/state"
)

// swap pays out the capped return of [pricing.ConstantProduct.Swap], which
// may be one unit below [pricing.ComputeSwap].
func (e *Exchange) swap(ctx context.Context, mu state.Mutable, env Env, msg *Swap) (*Response, error) {
	l, err := ledger.Load(ctx, mu)
	if err != nil {
		return nil, err
	}
	if _, err := l.RequireActive(); err != nil {
		return nil, err
	}
	offerIdx, ok := l.Pair.Index(msg.OfferAsset)
	if !ok {
		return nil, fmt.Errorf("%w: %v not in %s", ErrAssetNotInPair, msg.OfferAsset, l.Pair)
	}
	askIdx := 1 - offerIdx
	if err := safemath.CheckAmount(msg.OfferAmount); err != nil {
		return nil, err
	}
	if msg.OfferAmount.IsZero() {
		return nil, ErrZeroAmount
	}
	declared := [2]*uint256.Int{safemath.Zero(), safemath.Zero()}
	declared[offerIdx] = msg.OfferAmount
	if err := checkFunds(env.Funds, l.Pair, declared); err != nil {
		return nil, err
	}

	offerAsset, askAsset := l.Pair.Assets[offerIdx], l.Pair.Assets[askIdx]
	observedOffer, err := asset.BalanceOf(ctx, e.querier, offerAsset, l.Self, l.ViewingKey)
	if err != nil {
		return nil, err
	}
	offerReserve, err := pricing.ReserveBefore(offerAsset, observedOffer, msg.OfferAmount)
	if err != nil {
		return nil, err
	}
	// this request does not touch the ask side
	askReserve, err := asset.BalanceOf(ctx, e.querier, askAsset, l.Self, l.ViewingKey)
	if err != nil {
		return nil, err
	}

	res, err := pricing.NewConstantProduct(offerReserve, askReserve, l.Fee).Swap(msg.OfferAmount)
	if err != nil {
		return nil, err
	}
	if res.Return.IsZero() {
		return nil, fmt.Errorf("%w: offering %s against reserves (%s, %s)",
			pricing.ErrZeroReturn, msg.OfferAmount.Dec(), offerReserve.Dec(), askReserve.Dec())
	}
	if msg.ExpectedReturn != nil && res.Return.Lt(msg.ExpectedReturn) {
		return nil, fmt.Errorf("%w: return %s below expected %s",
			pricing.ErrSlippageExceeded, res.Return.Dec(), msg.ExpectedReturn.Dec())
	}

	if err := l.AddDeposit(offerIdx, msg.OfferAmount); err != nil {
		return nil, err
	}
	if err := ledger.Store(ctx, mu, l); err != nil {
		return nil, err
	}

	recipient := env.Sender
	if msg.Recipient != nil {
		recipient = *msg.Recipient
	}
	resp := &Response{}
	if offerAsset.Kind() == asset.KindCustodied {
		pull, err := instruction.Pull(offerAsset, env.Sender, l.Self, msg.OfferAmount)
		if err != nil {
			return nil, err
		}
		resp.addInstruction(pull)
	}
	transfer, err := instruction.Transfer(askAsset, recipient, res.Return)
	if err != nil {
		return nil, err
	}
	resp.addInstruction(transfer)

	resp.addAttribute("action", msg.Action())
	resp.addAttribute("sender", env.Sender.String())
	resp.addAttribute("recipient", recipient.String())
	resp.addAttribute("offer_asset", offerAsset.String())
	resp.addAttribute("ask_asset", askAsset.String())
	resp.addAttribute("offer_amount", msg.OfferAmount.Dec())
	resp.addAttribute("return_amount", res.Return.Dec())
	resp.addAttribute("spread_amount", res.Spread.Dec())
	resp.addAttribute("commission_amount", res.Commission.Dec())
	return resp, nil
}
