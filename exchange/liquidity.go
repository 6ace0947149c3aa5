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

func (e *Exchange) addLiquidity(ctx context.Context, mu state.Mutable, env Env, msg *AddLiquidity) (*Response, error) {
	l, err := ledger.Load(ctx, mu)
	if err != nil {
		return nil, err
	}
	shareToken, err := l.RequireActive()
	if err != nil {
		return nil, err
	}
	if !l.Pair.Equal(msg.Deposit.Pair) {
		return nil, fmt.Errorf("%w: exchange holds %s, deposit is for %s", ErrPairMismatch, l.Pair, msg.Deposit.Pair)
	}
	deposits := msg.Deposit.Amounts
	if l.Pair.Reversed(msg.Deposit.Pair) {
		deposits[0], deposits[1] = deposits[1], deposits[0]
	}
	for _, d := range deposits {
		if err := safemath.CheckAmount(d); err != nil {
			return nil, err
		}
	}
	if err := checkFunds(env.Funds, l.Pair, deposits); err != nil {
		return nil, err
	}

	observed, err := e.observe(ctx, l)
	if err != nil {
		return nil, err
	}
	var reserves [2]*uint256.Int
	for i, a := range l.Pair.Assets {
		reserves[i], err = pricing.ReserveBefore(a, observed[i], deposits[i])
		if err != nil {
			return nil, err
		}
	}
	if msg.SlippageTolerance != nil {
		if err := pricing.CheckSlippage(deposits, reserves, *msg.SlippageTolerance); err != nil {
			return nil, err
		}
	}

	supply, err := e.querier.TokenSupply(ctx, shareToken)
	if err != nil {
		return nil, err
	}
	minted, err := pricing.MintAmount(deposits, reserves, supply)
	if err != nil {
		return nil, err
	}

	resp := &Response{}
	for i, a := range l.Pair.Assets {
		if a.Kind() != asset.KindCustodied || deposits[i].IsZero() {
			continue
		}
		pull, err := instruction.Pull(a, env.Sender, l.Self, deposits[i])
		if err != nil {
			return nil, err
		}
		resp.addInstruction(pull)
	}
	resp.addInstruction(&instruction.Mint{
		Token:     shareToken,
		Recipient: env.Sender,
		Amount:    minted,
	})

	for i, d := range deposits {
		if err := l.AddDeposit(i, d); err != nil {
			return nil, err
		}
	}
	if err := ledger.Store(ctx, mu, l); err != nil {
		return nil, err
	}

	resp.addAttribute("action", msg.Action())
	resp.addAttribute("sender", env.Sender.String())
	resp.addAttribute("deposit_0", deposits[0].Dec())
	resp.addAttribute("deposit_1", deposits[1].Dec())
	resp.addAttribute("share_amount", minted.Dec())
	return resp, nil
}

func (e *Exchange) removeLiquidity(ctx context.Context, mu state.Mutable, env Env, msg *RemoveLiquidity) (*Response, error) {
	l, err := ledger.Load(ctx, mu)
	if err != nil {
		return nil, err
	}
	shareToken, err := l.RequireActive()
	if err != nil {
		return nil, err
	}
	if err := safemath.CheckAmount(msg.Amount); err != nil {
		return nil, err
	}
	if msg.Amount.IsZero() {
		return nil, ErrZeroAmount
	}
	if err := checkFunds(env.Funds, l.Pair, [2]*uint256.Int{safemath.Zero(), safemath.Zero()}); err != nil {
		return nil, err
	}

	reserves, err := e.observe(ctx, l)
	if err != nil {
		return nil, err
	}
	supply, err := e.querier.TokenSupply(ctx, shareToken)
	if err != nil {
		return nil, err
	}
	withdrawn, err := pricing.WithdrawAmounts(reserves, supply, msg.Amount)
	if err != nil {
		return nil, err
	}

	recipient := env.Sender
	if msg.Recipient != nil {
		recipient = *msg.Recipient
	}
	resp := &Response{}
	for i, a := range l.Pair.Assets {
		if withdrawn[i].IsZero() {
			continue
		}
		transfer, err := instruction.Transfer(a, recipient, withdrawn[i])
		if err != nil {
			return nil, err
		}
		resp.addInstruction(transfer)
	}
	resp.addInstruction(&instruction.Burn{
		Token:  shareToken,
		Owner:  env.Sender,
		Amount: msg.Amount.Clone(),
	})

	resp.addAttribute("action", msg.Action())
	resp.addAttribute("sender", env.Sender.String())
	resp.addAttribute("recipient", recipient.String())
	resp.addAttribute("withdrawn_0", withdrawn[0].Dec())
	resp.addAttribute("withdrawn_1", withdrawn[1].Dec())
	resp.addAttribute("share_amount", msg.Amount.Dec())
	return resp, nil
}
