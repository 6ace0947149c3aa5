// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ava-labs/hyperamm/asset"
	"github.com/ava-labs/hyperamm/ledger"
	"github.com/ava-labs/hyperamm/pricing"
	"github.com/ava-labs/hyperamm/safemath"
	"github.com/ava-labs/hyperamm/state"
)

// Query answers a read-only request. It never writes to [im].
func (e *Exchange) Query(ctx context.Context, im state.Immutable, msg QueryMsg) (any, error) {
	name := "unknown"
	if msg != nil {
		name = msg.Query()
	}
	ctx, span := e.tracer.Start(ctx, "Exchange.Query", oteltrace.WithAttributes(
		attribute.String("query", name),
	))
	defer span.End()

	res, err := e.query(ctx, im, msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return res, nil
}

func (e *Exchange) query(ctx context.Context, im state.Immutable, msg QueryMsg) (any, error) {
	l, err := ledger.Load(ctx, im)
	if err != nil {
		return nil, err
	}
	switch m := msg.(type) {
	case *PairInfo:
		return e.pairInfo(ctx, l)
	case *RegistryInfo:
		return l.Registry, nil
	case *PoolReserves:
		return e.poolReserves(ctx, l)
	case *SwapSimulation:
		return e.simulateSwap(ctx, l, m)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownMessage, msg)
	}
}

// supply is zero until the share token has registered.
func (e *Exchange) supply(ctx context.Context, l *ledger.Ledger) (*uint256.Int, error) {
	ref, ok := l.ShareToken()
	if !ok {
		return safemath.Zero(), nil
	}
	return e.querier.TokenSupply(ctx, ref)
}

func (e *Exchange) pairInfo(ctx context.Context, l *ledger.Ledger) (*PairInfoResponse, error) {
	reserves, err := e.observe(ctx, l)
	if err != nil {
		return nil, err
	}
	supply, err := e.supply(ctx, l)
	if err != nil {
		return nil, err
	}
	resp := &PairInfoResponse{
		Pair:        l.Pair,
		Status:      l.Status().String(),
		Registry:    l.Registry,
		Fee:         l.Fee,
		Reserves:    reserves,
		TotalShares: supply,
	}
	if ref, ok := l.ShareToken(); ok {
		resp.ShareToken = &ref
	}
	return resp, nil
}

func (e *Exchange) poolReserves(ctx context.Context, l *ledger.Ledger) (*PoolReservesResponse, error) {
	reserves, err := e.observe(ctx, l)
	if err != nil {
		return nil, err
	}
	supply, err := e.supply(ctx, l)
	if err != nil {
		return nil, err
	}
	resp := &PoolReservesResponse{TotalShares: supply}
	for i, a := range l.Pair.Assets {
		spec, err := asset.ToSpec(a)
		if err != nil {
			return nil, err
		}
		resp.Assets[i] = ReserveAmount{Asset: spec, Amount: reserves[i]}
	}
	return resp, nil
}

// simulateSwap prices the trade exactly as [Swap] would if the offer were
// made now, without the offer in any balance.
func (e *Exchange) simulateSwap(ctx context.Context, l *ledger.Ledger, msg *SwapSimulation) (*SwapSimulationResponse, error) {
	offerIdx, ok := l.Pair.Index(msg.OfferAsset)
	if !ok {
		return nil, fmt.Errorf("%w: %v not in %s", ErrAssetNotInPair, msg.OfferAsset, l.Pair)
	}
	if err := safemath.CheckAmount(msg.OfferAmount); err != nil {
		return nil, err
	}
	reserves, err := e.observe(ctx, l)
	if err != nil {
		return nil, err
	}
	return pricing.NewConstantProduct(reserves[offerIdx], reserves[1-offerIdx], l.Fee).Swap(msg.OfferAmount)
}
