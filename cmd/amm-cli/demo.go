// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ava-labs/hyperamm/asset"
	"github.com/ava-labs/hyperamm/codec"
	"github.com/ava-labs/hyperamm/consts"
	"github.com/ava-labs/hyperamm/exchange"
	"github.com/ava-labs/hyperamm/simulator"
	"github.com/ava-labs/hyperamm/trace"
	"github.com/ava-labs/hyperamm/utils"
)

//go:embed demo.yaml
var demoGenesis []byte

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Provide liquidity, swap and withdraw on an in-memory exchange",
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log, err := newLogger(c)
		if err != nil {
			return err
		}
		metrics, err := exchange.NewMetrics(c.MetricsNamespace, prometheus.NewRegistry())
		if err != nil {
			return err
		}
		tracer, err := trace.New(c.TraceConfig())
		if err != nil {
			return err
		}
		defer tracer.Close()

		sim := simulator.New(log, metrics, tracer, c.Exchange, memdb.New())
		return runDemo(cmd.Context(), sim)
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(ctx context.Context, sim *simulator.Simulator) error {
	g, err := simulator.ParseGenesis(demoGenesis)
	if err != nil {
		return err
	}
	d, err := g.Apply(ctx, sim)
	if err != nil {
		return err
	}
	var (
		alice  = simulator.AccountAddress("alice")
		bob    = simulator.AccountAddress("bob")
		token  = d.Tokens["TKN"]
		native = asset.Native{Denom: "uamm"}
		pair   = asset.NewPair(native, asset.Custodied{Contract: token})
	)
	addr, ok := d.Exchanges[pair.String()]
	if !ok {
		return fmt.Errorf("demo genesis did not create %s", pair)
	}
	utils.Outf("{{green}}exchange:{{/}} %s\n", codec.MustAddressBech32(consts.HRP, addr))

	if err := sim.Approve(ctx, alice, token, addr, uint256.NewInt(4_000)); err != nil {
		return err
	}
	receipt, err := sim.Execute(ctx, alice, addr, &exchange.AddLiquidity{
		Deposit: exchange.Deposit{Pair: pair, Amounts: [2]*uint256.Int{uint256.NewInt(1_000), uint256.NewInt(4_000)}},
	}, []asset.Coin{{Denom: native.Denom, Amount: uint256.NewInt(1_000)}})
	if err != nil {
		return err
	}
	shares, _ := receipt.Response.Attribute("share_amount")
	utils.Outf("{{yellow}}alice provided 1000 uamm + 4000 TKN:{{/}} %s shares\n", shares)

	offer := uint256.NewInt(100)
	res, err := sim.Query(ctx, addr, &exchange.SwapSimulation{OfferAsset: native, OfferAmount: offer})
	if err != nil {
		return err
	}
	quote := res.(*exchange.SwapSimulationResponse)
	utils.Outf("{{yellow}}quote for 100 uamm:{{/}} return=%s spread=%s commission=%s\n",
		quote.Return.Dec(), quote.Spread.Dec(), quote.Commission.Dec())

	if _, err := sim.Execute(ctx, bob, addr, &exchange.Swap{
		OfferAsset:     native,
		OfferAmount:    offer,
		ExpectedReturn: quote.Return,
	}, []asset.Coin{{Denom: native.Denom, Amount: offer}}); err != nil {
		return err
	}
	received, err := sim.TokenBalance(ctx, token, bob)
	if err != nil {
		return err
	}
	utils.Outf("{{yellow}}bob swapped 100 uamm:{{/}} received %s TKN\n", received.Dec())

	if err := printReserves(ctx, sim, addr); err != nil {
		return err
	}

	res, err = sim.Query(ctx, addr, &exchange.PairInfo{})
	if err != nil {
		return err
	}
	info := res.(*exchange.PairInfoResponse)
	burn := new(uint256.Int).Rsh(info.TotalShares, 1)
	if err := sim.Approve(ctx, alice, *info.ShareToken, addr, burn); err != nil {
		return err
	}
	if _, err := sim.Execute(ctx, alice, addr, &exchange.RemoveLiquidity{Amount: burn}, nil); err != nil {
		return err
	}
	utils.Outf("{{yellow}}alice withdrew %s shares{{/}}\n", burn.Dec())
	return printReserves(ctx, sim, addr)
}

func printReserves(ctx context.Context, sim *simulator.Simulator, addr codec.Address) error {
	res, err := sim.Query(ctx, addr, &exchange.PoolReserves{})
	if err != nil {
		return err
	}
	reserves := res.(*exchange.PoolReservesResponse)
	for _, r := range reserves.Assets {
		a, err := r.Asset.Asset()
		if err != nil {
			return err
		}
		utils.Outf("  {{cyan}}%s{{/}} %s\n", a, r.Amount.Dec())
	}
	utils.Outf("  {{cyan}}shares{{/}} %s\n", reserves.TotalShares.Dec())
	return nil
}
