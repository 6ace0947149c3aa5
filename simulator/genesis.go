// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package simulator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/holiman/uint256"

	"github.com/ava-labs/hyperamm/asset"
	"github.com/ava-labs/hyperamm/codec"
	"github.com/ava-labs/hyperamm/config"
	"github.com/ava-labs/hyperamm/consts"
	"github.com/ava-labs/hyperamm/utils"
)

var ErrInvalidGenesis = errors.New("invalid genesis")

// AccountAddress derives the address of a named account.
func AccountAddress(name string) codec.Address {
	return codec.CreateAddress(consts.AccountID, utils.ToID([]byte(name)))
}

// NativeAllocation credits [Amount] of [Denom] to [Account]. Amounts are
// decimal strings.
type NativeAllocation struct {
	Account string `json:"account" yaml:"account"`
	Denom   string `json:"denom" yaml:"denom"`
	Amount  string `json:"amount" yaml:"amount"`
}

type TokenGenesis struct {
	Name     string `json:"name" yaml:"name"`
	Symbol   string `json:"symbol" yaml:"symbol"`
	Decimals uint8  `json:"decimals" yaml:"decimals"`
	Minter   string `json:"minter" yaml:"minter"`
	// Balances maps account names to decimal amounts minted at genesis
	Balances map[string]string `json:"balances" yaml:"balances"`
}

// ExchangeGenesis names a pair by asset references of the form
// "native:<denom>" or "token:<symbol>".
type ExchangeGenesis struct {
	Creator string   `json:"creator" yaml:"creator"`
	Pair    []string `json:"pair" yaml:"pair"`
}

type Genesis struct {
	Registry  string             `json:"registry" yaml:"registry"`
	Native    []NativeAllocation `json:"native" yaml:"native"`
	Tokens    []TokenGenesis     `json:"tokens" yaml:"tokens"`
	Exchanges []ExchangeGenesis  `json:"exchanges" yaml:"exchanges"`
}

// Deployment records what a genesis created.
type Deployment struct {
	Registry  asset.ContractRef            `json:"registry"`
	Tokens    map[string]asset.ContractRef `json:"tokens"`
	Exchanges map[string]codec.Address     `json:"exchanges"`
}

func LoadGenesis(path string) (*Genesis, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseGenesis(b)
}

func ParseGenesis(b []byte) (*Genesis, error) {
	g := &Genesis{}
	if err := config.Unmarshal(b, g); err != nil {
		return nil, err
	}
	if g.Registry == "" {
		return nil, fmt.Errorf("%w: missing registry", ErrInvalidGenesis)
	}
	return g, nil
}

func parseAmount(s string) (*uint256.Int, error) {
	v, err := utils.ParseAmount(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidGenesis, err)
	}
	return v, nil
}

func (d *Deployment) resolve(ref string) (asset.Asset, error) {
	kind, name, ok := strings.Cut(ref, ":")
	if !ok {
		return nil, fmt.Errorf("%w: asset %q", ErrInvalidGenesis, ref)
	}
	switch kind {
	case "native":
		return asset.Native{Denom: name}, nil
	case "token":
		t, ok := d.Tokens[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownToken, name)
		}
		return asset.Custodied{Contract: t}, nil
	default:
		return nil, fmt.Errorf("%w: asset kind %q", ErrInvalidGenesis, kind)
	}
}

// Apply creates everything [g] describes on [s].
func (g *Genesis) Apply(ctx context.Context, s *Simulator) (*Deployment, error) {
	registry, err := s.CreateRegistry(ctx, g.Registry)
	if err != nil {
		return nil, err
	}
	d := &Deployment{
		Registry:  registry,
		Tokens:    map[string]asset.ContractRef{},
		Exchanges: map[string]codec.Address{},
	}
	for _, n := range g.Native {
		amount, err := parseAmount(n.Amount)
		if err != nil {
			return nil, err
		}
		if err := s.FundNative(ctx, AccountAddress(n.Account), n.Denom, amount); err != nil {
			return nil, err
		}
	}
	for _, t := range g.Tokens {
		minter := AccountAddress(t.Minter)
		ref, err := s.CreateToken(ctx, t.Name, t.Symbol, t.Decimals, minter)
		if err != nil {
			return nil, err
		}
		d.Tokens[t.Symbol] = ref
		for account, a := range t.Balances {
			amount, err := parseAmount(a)
			if err != nil {
				return nil, err
			}
			if err := s.MintTokens(ctx, ref, minter, AccountAddress(account), amount); err != nil {
				return nil, err
			}
		}
	}
	for _, e := range g.Exchanges {
		if len(e.Pair) != 2 {
			return nil, fmt.Errorf("%w: pair %v", ErrInvalidGenesis, e.Pair)
		}
		var assets [2]asset.Asset
		for i, ref := range e.Pair {
			a, err := d.resolve(ref)
			if err != nil {
				return nil, err
			}
			assets[i] = a
		}
		pair := asset.NewPair(assets[0], assets[1])
		receipt, err := s.CreateExchange(ctx, AccountAddress(e.Creator), registry, pair)
		if err != nil {
			return nil, err
		}
		d.Exchanges[pair.String()] = receipt.Exchange
	}
	return d, nil
}
