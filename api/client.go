// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"context"
	"strings"

	"github.com/ava-labs/avalanchego/utils/rpc"
	"github.com/holiman/uint256"

	"github.com/ava-labs/hyperamm/asset"
	"github.com/ava-labs/hyperamm/codec"
	"github.com/ava-labs/hyperamm/consts"
	"github.com/ava-labs/hyperamm/server"
)

type JSONRPCClient struct {
	requester rpc.EndpointRequester
}

// NewJSONRPCClient talks to the API served at [uri], for example
// "http://127.0.0.1:9650".
func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += server.BaseURL + "/" + Endpoint
	return &JSONRPCClient{requester: rpc.NewEndpointRequester(uri)}
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.requester.SendRequest(ctx,
		Name+".ping",
		struct{}{},
		resp,
	)
	return resp.Success, err
}

func (cli *JSONRPCClient) Exchanges(ctx context.Context) (uint64, []string, error) {
	resp := new(ExchangesReply)
	err := cli.requester.SendRequest(ctx,
		Name+".exchanges",
		struct{}{},
		resp,
	)
	return resp.Height, resp.Exchanges, err
}

func exchangeArgs(addr codec.Address) *ExchangeArgs {
	return &ExchangeArgs{Exchange: codec.MustAddressBech32(consts.HRP, addr)}
}

func (cli *JSONRPCClient) PairInfo(ctx context.Context, addr codec.Address) (*PairInfoReply, error) {
	resp := new(PairInfoReply)
	err := cli.requester.SendRequest(ctx,
		Name+".pairInfo",
		exchangeArgs(addr),
		resp,
	)
	return resp, err
}

func (cli *JSONRPCClient) RegistryInfo(ctx context.Context, addr codec.Address) (asset.ContractRef, error) {
	resp := new(RegistryInfoReply)
	err := cli.requester.SendRequest(ctx,
		Name+".registryInfo",
		exchangeArgs(addr),
		resp,
	)
	return resp.Registry, err
}

func (cli *JSONRPCClient) PoolReserves(ctx context.Context, addr codec.Address) (*PoolReservesReply, error) {
	resp := new(PoolReservesReply)
	err := cli.requester.SendRequest(ctx,
		Name+".poolReserves",
		exchangeArgs(addr),
		resp,
	)
	return resp, err
}

func (cli *JSONRPCClient) SimulateSwap(ctx context.Context, addr codec.Address, offer asset.Asset, amount *uint256.Int) (*SimulateSwapReply, error) {
	spec, err := asset.ToSpec(offer)
	if err != nil {
		return nil, err
	}
	resp := new(SimulateSwapReply)
	err = cli.requester.SendRequest(ctx,
		Name+".simulateSwap",
		&SimulateSwapArgs{
			Exchange:    codec.MustAddressBech32(consts.HRP, addr),
			OfferAsset:  spec,
			OfferAmount: amount.Dec(),
		},
		resp,
	)
	return resp, err
}
