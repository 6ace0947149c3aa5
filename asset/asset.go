// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package asset models the two kinds of asset a pair can hold: native coins
// held by the ledger on behalf of an account, and tokens custodied by a
// separate contract.
package asset

import (
	"fmt"

	"github.com/ava-labs/hyperamm/codec"
)

type Kind uint8

const (
	KindNative Kind = iota
	KindCustodied
)

func (k Kind) String() string {
	switch k {
	case KindNative:
		return "native"
	case KindCustodied:
		return "custodied"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// Asset is implemented only by [Native] and [Custodied]. Code that switches
// over assets must handle both and return [ErrUnknownAsset] otherwise.
type Asset interface {
	Kind() Kind
	String() string

	isAsset()
}

var (
	_ Asset = Native{}
	_ Asset = Custodied{}
)

// Native is a coin held by the host ledger. Funds arrive with the request
// itself, before any handler runs.
type Native struct {
	Denom string `json:"denom"`
}

func (Native) Kind() Kind { return KindNative }

func (n Native) String() string { return n.Denom }

func (Native) isAsset() {}

// ContractRef addresses a contract. CodeHash is required alongside the
// address to call into it.
type ContractRef struct {
	Address  codec.Address `json:"address"`
	CodeHash string        `json:"codeHash"`
}

func (c ContractRef) String() string {
	return c.Address.String()
}

// Custodied is a token whose balances live in [Contract]. It only moves when
// an instruction emitted by a handler is executed.
type Custodied struct {
	Contract ContractRef `json:"contract"`
}

func (Custodied) Kind() Kind { return KindCustodied }

func (c Custodied) String() string { return c.Contract.String() }

func (Custodied) isAsset() {}

// Equal reports whether [a] and [b] denote the same asset. Custodied assets
// must agree on both the contract address and its code hash.
func Equal(a, b Asset) bool {
	switch av := a.(type) {
	case Native:
		bv, ok := b.(Native)
		return ok && av.Denom == bv.Denom
	case Custodied:
		bv, ok := b.(Custodied)
		return ok && av.Contract == bv.Contract
	default:
		return false
	}
}

// ID returns a canonical, kind-prefixed identifier used for ordering and
// lookups. It ignores the code hash, so a valid [Pair] never holds two
// custodied assets at the same address.
func ID(a Asset) (string, error) {
	switch v := a.(type) {
	case Native:
		return "native:" + v.Denom, nil
	case Custodied:
		return "custodied:" + v.Contract.Address.String(), nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnknownAsset, a)
	}
}

// Validate checks the fields of a single asset.
func Validate(a Asset) error {
	switch v := a.(type) {
	case Native:
		if v.Denom == "" {
			return ErrEmptyDenom
		}
		return nil
	case Custodied:
		if v.Contract.Address == codec.EmptyAddress {
			return ErrEmptyContract
		}
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrUnknownAsset, a)
	}
}
