// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package api serves the read-only exchange queries over JSON-RPC.
package api

import (
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ava-labs/hyperamm/asset"
	"github.com/ava-labs/hyperamm/codec"
	"github.com/ava-labs/hyperamm/consts"
	"github.com/ava-labs/hyperamm/exchange"
	"github.com/ava-labs/hyperamm/pricing"
	"github.com/ava-labs/hyperamm/server"
	"github.com/ava-labs/hyperamm/utils"
)

const (
	Name     = "amm"
	Endpoint = "amm"
)

// Register serves [backend] on [s].
func Register(s server.Server, backend Backend) error {
	return s.AddService(NewJSONRPCServer(backend), Name, Endpoint)
}

type JSONRPCServer struct {
	backend Backend
}

func NewJSONRPCServer(backend Backend) *JSONRPCServer {
	return &JSONRPCServer{backend: backend}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) error {
	j.backend.Logger().Info("ping")
	reply.Success = true
	return nil
}

type ExchangesReply struct {
	Height    uint64   `json:"height"`
	Exchanges []string `json:"exchanges"`
}

func (j *JSONRPCServer) Exchanges(req *http.Request, _ *struct{}, reply *ExchangesReply) error {
	ctx, span := j.backend.Tracer().Start(req.Context(), "JSONRPCServer.Exchanges")
	defer span.End()

	addrs, err := j.backend.Exchanges(ctx)
	if err != nil {
		return err
	}
	reply.Height = j.backend.Height()
	reply.Exchanges = make([]string, len(addrs))
	for i, addr := range addrs {
		reply.Exchanges[i] = codec.MustAddressBech32(consts.HRP, addr)
	}
	return nil
}

// ExchangeArgs accepts the exchange address in bech32 or hex.
type ExchangeArgs struct {
	Exchange string `json:"exchange"`
}

func (j *JSONRPCServer) query(req *http.Request, exchangeAddr string, msg exchange.QueryMsg) (any, error) {
	ctx, span := j.backend.Tracer().Start(req.Context(), "JSONRPCServer.Query", oteltrace.WithAttributes(
		attribute.String("query", msg.Query()),
	))
	defer span.End()

	addr, err := codec.ParseAddress(consts.HRP, exchangeAddr)
	if err != nil {
		return nil, err
	}
	res, err := j.backend.Query(ctx, addr, msg)
	if err != nil {
		j.backend.Logger().Debug("query failed",
			zap.String("query", msg.Query()),
			zap.Stringer("exchange", addr),
			zap.Error(err),
		)
		return nil, err
	}
	return res, nil
}

type PairInfoReply struct {
	Pair        asset.Pair         `json:"pair"`
	Status      string             `json:"status"`
	ShareToken  *asset.ContractRef `json:"shareToken,omitempty"`
	Registry    asset.ContractRef  `json:"registry"`
	Fee         pricing.Fee        `json:"fee"`
	Reserves    [2]string          `json:"reserves"`
	TotalShares string             `json:"totalShares"`
}

func (j *JSONRPCServer) PairInfo(req *http.Request, args *ExchangeArgs, reply *PairInfoReply) error {
	res, err := j.query(req, args.Exchange, &exchange.PairInfo{})
	if err != nil {
		return err
	}
	info, ok := res.(*exchange.PairInfoResponse)
	if !ok {
		return fmt.Errorf("unexpected response %T", res)
	}
	reply.Pair = info.Pair
	reply.Status = info.Status
	reply.ShareToken = info.ShareToken
	reply.Registry = info.Registry
	reply.Fee = info.Fee
	reply.Reserves = [2]string{info.Reserves[0].Dec(), info.Reserves[1].Dec()}
	reply.TotalShares = info.TotalShares.Dec()
	return nil
}

type RegistryInfoReply struct {
	Registry asset.ContractRef `json:"registry"`
}

func (j *JSONRPCServer) RegistryInfo(req *http.Request, args *ExchangeArgs, reply *RegistryInfoReply) error {
	res, err := j.query(req, args.Exchange, &exchange.RegistryInfo{})
	if err != nil {
		return err
	}
	registry, ok := res.(asset.ContractRef)
	if !ok {
		return fmt.Errorf("unexpected response %T", res)
	}
	reply.Registry = registry
	return nil
}

type ReserveAmount struct {
	Asset  asset.Spec `json:"asset"`
	Amount string     `json:"amount"`
}

type PoolReservesReply struct {
	Assets      [2]ReserveAmount `json:"assets"`
	TotalShares string           `json:"totalShares"`
}

func (j *JSONRPCServer) PoolReserves(req *http.Request, args *ExchangeArgs, reply *PoolReservesReply) error {
	res, err := j.query(req, args.Exchange, &exchange.PoolReserves{})
	if err != nil {
		return err
	}
	reserves, ok := res.(*exchange.PoolReservesResponse)
	if !ok {
		return fmt.Errorf("unexpected response %T", res)
	}
	for i, r := range reserves.Assets {
		reply.Assets[i] = ReserveAmount{Asset: r.Asset, Amount: r.Amount.Dec()}
	}
	reply.TotalShares = reserves.TotalShares.Dec()
	return nil
}

type SimulateSwapArgs struct {
	Exchange    string     `json:"exchange"`
	OfferAsset  asset.Spec `json:"offerAsset"`
	OfferAmount string     `json:"offerAmount"`
}

type SimulateSwapReply struct {
	Return     string `json:"return"`
	Spread     string `json:"spread"`
	Commission string `json:"commission"`
}

func (j *JSONRPCServer) SimulateSwap(req *http.Request, args *SimulateSwapArgs, reply *SimulateSwapReply) error {
	offer, err := args.OfferAsset.Asset()
	if err != nil {
		return err
	}
	amount, err := utils.ParseAmount(args.OfferAmount)
	if err != nil {
		return err
	}
	res, err := j.query(req, args.Exchange, &exchange.SwapSimulation{
		OfferAsset:  offer,
		OfferAmount: amount,
	})
	if err != nil {
		return err
	}
	sim, ok := res.(*exchange.SwapSimulationResponse)
	if !ok {
		return fmt.Errorf("unexpected response %T", res)
	}
	reply.Return = sim.Return.Dec()
	reply.Spread = sim.Spread.Dec()
	reply.Commission = sim.Commission.Dec()
	return nil
}
