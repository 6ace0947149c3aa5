// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package simulator

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/ava-labs/hyperamm/asset"
	"github.com/ava-labs/hyperamm/codec"
	"github.com/ava-labs/hyperamm/exchange"
	"github.com/ava-labs/hyperamm/ledger"
	"github.com/ava-labs/hyperamm/pricing"
	"github.com/ava-labs/hyperamm/trace"
	"github.com/ava-labs/hyperamm/utils"
)

const denom = "uamm"

var (
	alice = AccountAddress("alice")
	bob   = AccountAddress("bob")
)

type testPool struct {
	sim        *Simulator
	registry   asset.ContractRef
	token      asset.ContractRef
	pair       asset.Pair
	exchange   codec.Address
	shareToken asset.ContractRef
}

func u(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

func newTestSimulator(t *testing.T) *Simulator {
	sim, _ := newTracedSimulator(t)
	return sim
}

func newTracedSimulator(t *testing.T) (*Simulator, *tracetest.SpanRecorder) {
	metrics, err := exchange.NewMetrics("test", prometheus.NewRegistry())
	require.NoError(t, err)
	spans := tracetest.NewSpanRecorder()
	tracer := trace.Wrap(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans)), "test")
	return New(logging.NoLog{}, metrics, tracer, exchange.NewConfig(), memdb.New()), spans
}

// newTestPool creates an active native/token exchange. alice holds 10000
// of each asset and bob holds 1000 native coins.
func newTestPool(t *testing.T) *testPool {
	require := require.New(t)
	ctx := context.Background()

	sim := newTestSimulator(t)
	require.NoError(sim.FundNative(ctx, alice, denom, u(10_000)))
	require.NoError(sim.FundNative(ctx, bob, denom, u(1_000)))
	token, err := sim.CreateToken(ctx, "Token", "TKN", 6, alice)
	require.NoError(err)
	require.NoError(sim.MintTokens(ctx, token, alice, alice, u(10_000)))
	registry, err := sim.CreateRegistry(ctx, "main")
	require.NoError(err)

	pair := asset.NewPair(asset.Native{Denom: denom}, asset.Custodied{Contract: token})
	receipt, err := sim.CreateExchange(ctx, alice, registry, pair)
	require.NoError(err)
	require.Len(receipt.Callbacks, 1)

	res, err := sim.Query(ctx, receipt.Exchange, &exchange.PairInfo{})
	require.NoError(err)
	info := res.(*exchange.PairInfoResponse)
	require.NotNil(info.ShareToken)

	return &testPool{
		sim:        sim,
		registry:   registry,
		token:      token,
		pair:       pair,
		exchange:   receipt.Exchange,
		shareToken: *info.ShareToken,
	}
}

func (p *testPool) addLiquidity(t *testing.T, native, tokens uint64) *Receipt {
	require := require.New(t)
	ctx := context.Background()

	require.NoError(p.sim.Approve(ctx, alice, p.token, p.exchange, u(tokens)))
	receipt, err := p.sim.Execute(ctx, alice, p.exchange, &exchange.AddLiquidity{
		Deposit: exchange.Deposit{Pair: p.pair, Amounts: [2]*uint256.Int{u(native), u(tokens)}},
	}, []asset.Coin{{Denom: denom, Amount: u(native)}})
	require.NoError(err)
	return receipt
}

func (p *testPool) reserves(t *testing.T) *exchange.PoolReservesResponse {
	res, err := p.sim.Query(context.Background(), p.exchange, &exchange.PoolReserves{})
	require.NoError(t, err)
	return res.(*exchange.PoolReservesResponse)
}

func TestCreateExchange(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	p := newTestPool(t)

	res, err := p.sim.Query(ctx, p.exchange, &exchange.PairInfo{})
	require.NoError(err)
	info := res.(*exchange.PairInfoResponse)
	require.Equal(ledger.StatusActive.String(), info.Status)
	require.True(p.pair.Equal(info.Pair))
	require.Equal(pricing.DefaultFee(), info.Fee)
	require.True(info.TotalShares.IsZero())

	share, err := p.sim.TokenInfo(ctx, p.shareToken)
	require.NoError(err)
	require.Equal(p.exchange, share.Minter)
	require.Equal("AMMS", share.Symbol)
	require.Equal(ShareTokenCode.CodeHash, p.shareToken.CodeHash)

	res, err = p.sim.Query(ctx, p.exchange, &exchange.RegistryInfo{})
	require.NoError(err)
	require.Equal(p.registry, res)

	// the registry resolves the pair in either order
	reversed := asset.NewPair(p.pair.Assets[1], p.pair.Assets[0])
	addr, err := p.sim.LookupExchange(ctx, p.registry, reversed)
	require.NoError(err)
	require.Equal(p.exchange, addr)

	exchanges, err := p.sim.Exchanges(ctx)
	require.NoError(err)
	require.Equal([]codec.Address{p.exchange}, exchanges)

	_, err = p.sim.CreateExchange(ctx, bob, p.registry, reversed)
	require.ErrorIs(err, exchange.ErrAlreadyInstantiated)
}

func TestShareTokenRegistersOnce(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	p := newTestPool(t)

	for _, sender := range []codec.Address{p.shareToken.Address, bob} {
		_, err := p.sim.Execute(ctx, sender, p.exchange, &exchange.OnShareTokenRegistered{}, nil)
		require.ErrorIs(err, ledger.ErrReinitialization)
	}

	res, err := p.sim.Query(ctx, p.exchange, &exchange.PairInfo{})
	require.NoError(err)
	require.Equal(p.shareToken, *res.(*exchange.PairInfoResponse).ShareToken)
}

func TestUnknownRegistryAbortsCreation(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	sim := newTestSimulator(t)

	pair := asset.NewPair(asset.Native{Denom: denom}, asset.Native{Denom: "uother"})
	registry := asset.ContractRef{Address: codec.CreateAddress(9, utils.ToID([]byte("missing")))}
	_, err := sim.CreateExchange(ctx, alice, registry, pair)
	require.ErrorIs(err, ErrUnknownRegistry)

	exchanges, err := sim.Exchanges(ctx)
	require.NoError(err)
	require.Empty(exchanges)
	require.Zero(sim.Height())
}

func TestAddAndRemoveLiquidity(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	p := newTestPool(t)

	receipt := p.addLiquidity(t, 1_000, 4_000)
	minted, ok := receipt.Response.Attribute("share_amount")
	require.True(ok)
	require.Equal("2000", minted)

	shares, err := p.sim.TokenBalance(ctx, p.shareToken, alice)
	require.NoError(err)
	require.Equal(u(2_000), shares)
	allowance, err := p.sim.Allowance(ctx, p.token, alice, p.exchange)
	require.NoError(err)
	require.True(allowance.IsZero())

	reserves := p.reserves(t)
	require.Equal(u(1_000), reserves.Assets[0].Amount)
	require.Equal(u(4_000), reserves.Assets[1].Amount)
	require.Equal(u(2_000), reserves.TotalShares)

	// a proportional deposit mints proportionally
	p.addLiquidity(t, 500, 2_000)
	require.Equal(u(3_000), p.reserves(t).TotalShares)

	require.NoError(p.sim.Approve(ctx, alice, p.shareToken, p.exchange, u(1_500)))
	_, err = p.sim.Execute(ctx, alice, p.exchange, &exchange.RemoveLiquidity{
		Amount:    u(1_500),
		Recipient: &bob,
	}, nil)
	require.NoError(err)

	reserves = p.reserves(t)
	require.Equal(u(750), reserves.Assets[0].Amount)
	require.Equal(u(3_000), reserves.Assets[1].Amount)
	require.Equal(u(1_500), reserves.TotalShares)

	native, err := p.sim.NativeBalance(ctx, bob, denom)
	require.NoError(err)
	require.Equal(u(1_750), native)
	tokens, err := p.sim.TokenBalance(ctx, p.token, bob)
	require.NoError(err)
	require.Equal(u(3_000), tokens)
}

func TestRemoveLiquidityNeedsAllowance(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	p := newTestPool(t)
	p.addLiquidity(t, 1_000, 4_000)

	height := p.sim.Height()
	_, err := p.sim.Execute(ctx, alice, p.exchange, &exchange.RemoveLiquidity{Amount: u(100)}, nil)
	require.ErrorIs(err, ErrInsufficientAllowance)
	require.Equal(height, p.sim.Height())

	// nothing was paid out
	reserves := p.reserves(t)
	require.Equal(u(1_000), reserves.Assets[0].Amount)
	require.Equal(u(4_000), reserves.Assets[1].Amount)
}

func TestSwapMatchesSimulation(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	p := newTestPool(t)

	_, err := p.sim.Query(ctx, p.exchange, &exchange.SwapSimulation{
		OfferAsset:  p.pair.Assets[0],
		OfferAmount: u(100),
	})
	require.ErrorIs(err, pricing.ErrReservesZero)

	p.addLiquidity(t, 1_000, 4_000)
	k := new(uint256.Int).Mul(u(1_000), u(4_000))

	// native for tokens
	res, err := p.sim.Query(ctx, p.exchange, &exchange.SwapSimulation{
		OfferAsset:  p.pair.Assets[0],
		OfferAmount: u(100),
	})
	require.NoError(err)
	sim := res.(*exchange.SwapSimulationResponse)
	require.False(sim.Return.IsZero())

	_, err = p.sim.Execute(ctx, bob, p.exchange, &exchange.Swap{
		OfferAsset:  p.pair.Assets[0],
		OfferAmount: u(100),
	}, []asset.Coin{{Denom: denom, Amount: u(100)}})
	require.NoError(err)

	received, err := p.sim.TokenBalance(ctx, p.token, bob)
	require.NoError(err)
	require.Equal(sim.Return, received)
	native, err := p.sim.NativeBalance(ctx, bob, denom)
	require.NoError(err)
	require.Equal(u(900), native)

	reserves := p.reserves(t)
	require.Equal(u(1_100), reserves.Assets[0].Amount)
	require.Equal(new(uint256.Int).Sub(u(4_000), sim.Return), reserves.Assets[1].Amount)
	after := new(uint256.Int).Mul(reserves.Assets[0].Amount, reserves.Assets[1].Amount)
	require.False(after.Lt(k))
	k = after

	// tokens back for native
	offer := u(100)
	res, err = p.sim.Query(ctx, p.exchange, &exchange.SwapSimulation{
		OfferAsset:  p.pair.Assets[1],
		OfferAmount: offer,
	})
	require.NoError(err)
	sim = res.(*exchange.SwapSimulationResponse)

	require.NoError(p.sim.Approve(ctx, bob, p.token, p.exchange, offer))
	_, err = p.sim.Execute(ctx, bob, p.exchange, &exchange.Swap{
		OfferAsset:     p.pair.Assets[1],
		OfferAmount:    offer,
		ExpectedReturn: sim.Return,
	}, nil)
	require.NoError(err)

	native, err = p.sim.NativeBalance(ctx, bob, denom)
	require.NoError(err)
	require.Equal(new(uint256.Int).Add(u(900), sim.Return), native)

	reserves = p.reserves(t)
	after = new(uint256.Int).Mul(reserves.Assets[0].Amount, reserves.Assets[1].Amount)
	require.False(after.Lt(k))
}

func TestFailedSwapIsAtomic(t *testing.T) {
	ctx := context.Background()
	p := newTestPool(t)
	p.addLiquidity(t, 1_000, 4_000)
	height := p.sim.Height()

	tests := []struct {
		name     string
		msg      *exchange.Swap
		funds    []asset.Coin
		expected error
	}{
		{
			name: "return below expected",
			msg: &exchange.Swap{
				OfferAsset:     p.pair.Assets[0],
				OfferAmount:    u(100),
				ExpectedReturn: u(4_000),
			},
			funds:    []asset.Coin{{Denom: denom, Amount: u(100)}},
			expected: pricing.ErrSlippageExceeded,
		},
		{
			name: "funds do not match offer",
			msg: &exchange.Swap{
				OfferAsset:  p.pair.Assets[0],
				OfferAmount: u(100),
			},
			funds:    []asset.Coin{{Denom: denom, Amount: u(99)}},
			expected: exchange.ErrFundsMismatch,
		},
		{
			name: "token offer without allowance",
			msg: &exchange.Swap{
				OfferAsset:  p.pair.Assets[1],
				OfferAmount: u(100),
			},
			expected: ErrInsufficientAllowance,
		},
		{
			name: "offer larger than balance",
			msg: &exchange.Swap{
				OfferAsset:  p.pair.Assets[0],
				OfferAmount: u(5_000),
			},
			funds:    []asset.Coin{{Denom: denom, Amount: u(5_000)}},
			expected: ErrInsufficientBalance,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			_, err := p.sim.Execute(ctx, bob, p.exchange, tt.msg, tt.funds)
			require.ErrorIs(err, tt.expected)
		})
	}

	require := require.New(t)
	require.Equal(height, p.sim.Height())
	native, err := p.sim.NativeBalance(ctx, bob, denom)
	require.NoError(err)
	require.Equal(u(1_000), native)
	reserves := p.reserves(t)
	require.Equal(u(1_000), reserves.Assets[0].Amount)
	require.Equal(u(4_000), reserves.Assets[1].Amount)
}

func TestUnknownExchange(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	sim := newTestSimulator(t)

	addr := codec.CreateAddress(1, utils.ToID([]byte("nowhere")))
	_, err := sim.Execute(ctx, alice, addr, &exchange.Swap{}, nil)
	require.ErrorIs(err, ErrUnknownExchange)
	_, err = sim.Query(ctx, addr, &exchange.PoolReserves{})
	require.ErrorIs(err, ErrUnknownExchange)
}

func TestViewingKeyRequired(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	p := newTestPool(t)

	v := &view{db: p.sim.db}
	_, err := v.TokenBalance(ctx, p.token, alice, "guess")
	require.ErrorIs(err, ErrInvalidViewingKey)

	require.NoError(p.sim.SetViewingKey(ctx, alice, p.token, "secret"))
	bal, err := v.TokenBalance(ctx, p.token, alice, "secret")
	require.NoError(err)
	require.Equal(u(10_000), bal)
}

func TestGenesis(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	g, err := ParseGenesis([]byte(`
registry: main
native:
  - account: alice
    denom: uamm
    amount: "1000000"
tokens:
  - name: Token
    symbol: TKN
    decimals: 6
    minter: alice
    balances:
      alice: "500000"
      bob: "10"
exchanges:
  - creator: alice
    pair: ["native:uamm", "token:TKN"]
`))
	require.NoError(err)

	sim := newTestSimulator(t)
	d, err := g.Apply(ctx, sim)
	require.NoError(err)
	require.Len(d.Exchanges, 1)

	token := d.Tokens["TKN"]
	bal, err := sim.TokenBalance(ctx, token, AccountAddress("bob"))
	require.NoError(err)
	require.Equal(u(10), bal)

	pair := asset.NewPair(asset.Native{Denom: denom}, asset.Custodied{Contract: token})
	addr, err := sim.LookupExchange(ctx, d.Registry, pair)
	require.NoError(err)
	require.Equal(d.Exchanges[pair.String()], addr)

	_, err = ParseGenesis([]byte(`{"native":[]}`))
	require.ErrorIs(err, ErrInvalidGenesis)

	g.Exchanges[0].Pair[1] = "token:NOPE"
	_, err = g.Apply(ctx, newTestSimulator(t))
	require.ErrorIs(err, ErrUnknownToken)
}

func TestCallbackSpansNestUnderRequest(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	sim, spans := newTracedSimulator(t)
	registry, err := sim.CreateRegistry(ctx, "main")
	require.NoError(err)
	pair := asset.NewPair(asset.Native{Denom: denom}, asset.Native{Denom: "uother"})
	receipt, err := sim.CreateExchange(ctx, alice, registry, pair)
	require.NoError(err)
	require.Len(receipt.Callbacks, 1)
	_, err = sim.Query(ctx, receipt.Exchange, &exchange.PairInfo{})
	require.NoError(err)

	ended := spans.Ended()
	names := make([]string, len(ended))
	for i, span := range ended {
		names[i] = span.Name()
	}
	require.Equal([]string{
		"Exchange.Execute",
		"Simulator.CreateExchange",
		"Exchange.Query",
		"Simulator.Query",
	}, names)
	require.Equal(ended[1].SpanContext().SpanID(), ended[0].Parent().SpanID())
	require.Equal(ended[3].SpanContext().SpanID(), ended[2].Parent().SpanID())
}
