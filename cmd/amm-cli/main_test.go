// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hyperamm/asset"
	"github.com/ava-labs/hyperamm/exchange"
	"github.com/ava-labs/hyperamm/simulator"
	"github.com/ava-labs/hyperamm/trace"
)

func newSimulator(t *testing.T) *simulator.Simulator {
	metrics, err := exchange.NewMetrics("test", prometheus.NewRegistry())
	require.NoError(t, err)
	return simulator.New(logging.NoLog{}, metrics, trace.Noop("test"), exchange.NewConfig(), memdb.New())
}

func TestDemo(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	sim := newSimulator(t)

	require.NoError(runDemo(ctx, sim))

	exchanges, err := sim.Exchanges(ctx)
	require.NoError(err)
	require.Len(exchanges, 1)

	res, err := sim.Query(ctx, exchanges[0], &exchange.PoolReserves{})
	require.NoError(err)
	reserves := res.(*exchange.PoolReservesResponse)
	// half of 1100 uamm and 4000-363 TKN remain after the withdrawal
	require.Equal(uint256.NewInt(1_000), reserves.TotalShares)
	for _, r := range reserves.Assets {
		a, err := r.Asset.Asset()
		require.NoError(err)
		if _, ok := a.(asset.Native); ok {
			require.Equal(uint256.NewInt(550), r.Amount)
		} else {
			require.Equal(uint256.NewInt(1_819), r.Amount)
		}
	}

	var token asset.ContractRef
	for _, a := range reserves.Assets {
		if a.Asset.Custodied != nil {
			token = *a.Asset.Custodied
		}
	}
	bal, err := sim.TokenBalance(ctx, token, simulator.AccountAddress("bob"))
	require.NoError(err)
	require.Equal(uint256.NewInt(363), bal)
}

func TestApplyGenesisOnce(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	sim := newSimulator(t)

	path := filepath.Join(".", "demo.yaml")
	require.NoError(applyGenesis(ctx, logging.NoLog{}, sim, path))
	require.NoError(applyGenesis(ctx, logging.NoLog{}, sim, path))

	exchanges, err := sim.Exchanges(ctx)
	require.NoError(err)
	require.Len(exchanges, 1)

	exists, err := sim.HasRegistry(ctx, "main")
	require.NoError(err)
	require.True(exists)
}

func TestQuote(t *testing.T) {
	require := require.New(t)

	rootCmd.SetArgs([]string{"quote", "--offer-reserve", "1000", "--ask-reserve", "1000", "--amount", "100", "--fee", "0/1000", "-o", "json"})
	require.NoError(rootCmd.Execute())

	rootCmd.SetArgs([]string{"quote", "--offer-reserve", "1000", "--ask-reserve", "1000", "--amount", "100", "--fee", "bad"})
	require.Error(rootCmd.Execute())
}
