// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	"github.com/ava-labs/hyperamm/asset"
	"github.com/ava-labs/hyperamm/codec"
	"github.com/ava-labs/hyperamm/ledger"
	"github.com/ava-labs/hyperamm/pricing"
)

// Env describes the request being handled.
type Env struct {
	Sender codec.Address
	// Contract is the exchange's own address
	Contract codec.Address
	// CodeHash is the exchange's own code hash, used for callbacks
	CodeHash string
	// Funds are native coins credited to [Contract] before the handler runs
	Funds  []asset.Coin
	Height uint64
}

type InitMsg struct {
	Pair     asset.Pair
	Registry asset.ContractRef
	// ShareToken is the code the share token is instantiated from
	ShareToken ledger.Template
	// Entropy seeds the viewing key the exchange uses with its tokens
	Entropy []byte
}

// ExecuteMsg is implemented by [AddLiquidity], [RemoveLiquidity], [Swap] and
// [OnShareTokenRegistered].
type ExecuteMsg interface {
	Action() string
}

var (
	_ ExecuteMsg = (*AddLiquidity)(nil)
	_ ExecuteMsg = (*RemoveLiquidity)(nil)
	_ ExecuteMsg = (*Swap)(nil)
	_ ExecuteMsg = (*OnShareTokenRegistered)(nil)
)

// Deposit lists amounts in the order of [Pair], which may be either order of
// the exchange's pair.
type Deposit struct {
	Pair    asset.Pair
	Amounts [2]*uint256.Int
}

type AddLiquidity struct {
	Deposit Deposit
	// SlippageTolerance is the largest relative difference between the
	// deposit ratio and the pool ratio the sender accepts
	SlippageTolerance *decimal.Decimal
}

func (*AddLiquidity) Action() string { return "add_liquidity" }

// RemoveLiquidity burns [Amount] share tokens from the sender, who must have
// approved the exchange for at least that amount.
type RemoveLiquidity struct {
	Amount *uint256.Int
	// Recipient defaults to the sender
	Recipient *codec.Address
}

func (*RemoveLiquidity) Action() string { return "remove_liquidity" }

// Swap trades [OfferAmount] of [OfferAsset] for the other asset of the pair.
// The executed return can be one unit below the [pricing.ComputeSwap] quote,
// because it is capped so the product of the reserves never decreases. The
// [SwapSimulation] query applies the same cap.
type Swap struct {
	OfferAsset  asset.Asset
	OfferAmount *uint256.Int
	// ExpectedReturn is the minimum return the sender accepts
	ExpectedReturn *uint256.Int
	// Recipient defaults to the sender
	Recipient *codec.Address
}

func (*Swap) Action() string { return "swap" }

// OnShareTokenRegistered is sent by the share token once it exists.
type OnShareTokenRegistered struct{}

func (*OnShareTokenRegistered) Action() string { return "register_share_token" }

// QueryMsg is implemented by [PairInfo], [RegistryInfo], [PoolReserves] and
// [SwapSimulation].
type QueryMsg interface {
	Query() string
}

var (
	_ QueryMsg = (*PairInfo)(nil)
	_ QueryMsg = (*RegistryInfo)(nil)
	_ QueryMsg = (*PoolReserves)(nil)
	_ QueryMsg = (*SwapSimulation)(nil)
)

type PairInfo struct{}

func (*PairInfo) Query() string { return "pair_info" }

type RegistryInfo struct{}

func (*RegistryInfo) Query() string { return "registry_info" }

type PoolReserves struct{}

func (*PoolReserves) Query() string { return "pool_reserves" }

type SwapSimulation struct {
	OfferAsset  asset.Asset
	OfferAmount *uint256.Int
}

func (*SwapSimulation) Query() string { return "swap_simulation" }

type PairInfoResponse struct {
	Pair        asset.Pair         `json:"pair"`
	Status      string             `json:"status"`
	ShareToken  *asset.ContractRef `json:"shareToken,omitempty"`
	Registry    asset.ContractRef  `json:"registry"`
	Fee         pricing.Fee        `json:"fee"`
	Reserves    [2]*uint256.Int    `json:"reserves"`
	TotalShares *uint256.Int       `json:"totalShares"`
}

type ReserveAmount struct {
	Asset  asset.Spec   `json:"asset"`
	Amount *uint256.Int `json:"amount"`
}

type PoolReservesResponse struct {
	Assets      [2]ReserveAmount `json:"assets"`
	TotalShares *uint256.Int     `json:"totalShares"`
}

type SwapSimulationResponse = pricing.SwapResult
