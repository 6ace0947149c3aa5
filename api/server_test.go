// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hyperamm/asset"
	"github.com/ava-labs/hyperamm/codec"
	"github.com/ava-labs/hyperamm/consts"
	"github.com/ava-labs/hyperamm/exchange"
	"github.com/ava-labs/hyperamm/ledger"
	"github.com/ava-labs/hyperamm/server"
	"github.com/ava-labs/hyperamm/simulator"
	"github.com/ava-labs/hyperamm/trace"
)

var _ Backend = (*simulator.Simulator)(nil)

const denom = "uamm"

func newTestAPI(t *testing.T) (*JSONRPCClient, *simulator.Simulator, *httptest.Server) {
	require := require.New(t)
	ctx := context.Background()

	registry := prometheus.NewRegistry()
	metrics, err := exchange.NewMetrics("test", registry)
	require.NoError(err)
	sim := simulator.New(logging.NoLog{}, metrics, trace.Noop("test"), exchange.NewConfig(), memdb.New())

	alice := simulator.AccountAddress("alice")
	require.NoError(sim.FundNative(ctx, alice, denom, uint256.NewInt(10_000)))
	require.NoError(sim.FundNative(ctx, alice, "uother", uint256.NewInt(10_000)))
	ref, err := sim.CreateRegistry(ctx, "main")
	require.NoError(err)
	pair := asset.NewPair(asset.Native{Denom: denom}, asset.Native{Denom: "uother"})
	receipt, err := sim.CreateExchange(ctx, alice, ref, pair)
	require.NoError(err)
	_, err = sim.Execute(ctx, alice, receipt.Exchange, &exchange.AddLiquidity{
		Deposit: exchange.Deposit{Pair: pair, Amounts: [2]*uint256.Int{uint256.NewInt(1_000), uint256.NewInt(4_000)}},
	}, []asset.Coin{
		{Denom: denom, Amount: uint256.NewInt(1_000)},
		{Denom: "uother", Amount: uint256.NewInt(4_000)},
	})
	require.NoError(err)

	s := server.New(logging.NoLog{}, nil, server.HTTPConfig{}, []string{"*"}, time.Second)
	require.NoError(Register(s, sim))
	require.NoError(RegisterMetrics(s, registry))
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return NewJSONRPCClient(srv.URL), sim, srv
}

func TestQueries(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	cli, sim, _ := newTestAPI(t)

	ok, err := cli.Ping(ctx)
	require.NoError(err)
	require.True(ok)

	height, exchanges, err := cli.Exchanges(ctx)
	require.NoError(err)
	require.Equal(sim.Height(), height)
	require.Len(exchanges, 1)
	addr, err := codec.ParseAddress(consts.HRP, exchanges[0])
	require.NoError(err)

	info, err := cli.PairInfo(ctx, addr)
	require.NoError(err)
	require.Equal(ledger.StatusActive.String(), info.Status)
	require.NotNil(info.ShareToken)
	require.Equal([2]string{"1000", "4000"}, info.Reserves)
	require.Equal("2000", info.TotalShares)

	registry, err := cli.RegistryInfo(ctx, addr)
	require.NoError(err)
	require.Equal(info.Registry, registry)

	reserves, err := cli.PoolReserves(ctx, addr)
	require.NoError(err)
	require.Equal("1000", reserves.Assets[0].Amount)
	require.Equal(denom, reserves.Assets[0].Asset.Native.Denom)
	require.Equal("2000", reserves.TotalShares)

	res, err := sim.Query(ctx, addr, &exchange.SwapSimulation{
		OfferAsset:  asset.Native{Denom: denom},
		OfferAmount: uint256.NewInt(100),
	})
	require.NoError(err)
	expected := res.(*exchange.SwapSimulationResponse)

	swap, err := cli.SimulateSwap(ctx, addr, asset.Native{Denom: denom}, uint256.NewInt(100))
	require.NoError(err)
	require.Equal(expected.Return.Dec(), swap.Return)
	require.Equal(expected.Spread.Dec(), swap.Spread)
	require.Equal(expected.Commission.Dec(), swap.Commission)
}

func TestQueryErrors(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	cli, _, _ := newTestAPI(t)

	missing := simulator.AccountAddress("nobody")
	_, err := cli.PairInfo(ctx, missing)
	require.ErrorContains(err, simulator.ErrUnknownExchange.Error())

	_, exchanges, err := cli.Exchanges(ctx)
	require.NoError(err)
	addr, err := codec.ParseAddress(consts.HRP, exchanges[0])
	require.NoError(err)
	_, err = cli.SimulateSwap(ctx, addr, asset.Native{Denom: "ufoo"}, uint256.NewInt(1))
	require.ErrorContains(err, exchange.ErrAssetNotInPair.Error())
}

func TestMetricsEndpoint(t *testing.T) {
	require := require.New(t)
	_, _, srv := newTestAPI(t)

	resp, err := http.Get(srv.URL + server.BaseURL + "/" + MetricsEndpoint)
	require.NoError(err)
	defer resp.Body.Close()
	require.Equal(http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(err)
	require.Contains(string(body), "test_liquidity_added 1")
	require.Contains(string(body), "test_instantiations 1")
}
