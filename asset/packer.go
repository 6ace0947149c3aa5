// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package asset

import (
	"fmt"

	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/ava-labs/hyperamm/codec"
)

// Pack appends [a] to [p] as a kind byte followed by the variant's fields.
func Pack(p *wrappers.Packer, a Asset) {
	switch v := a.(type) {
	case Native:
		p.PackByte(byte(KindNative))
		p.PackStr(v.Denom)
	case Custodied:
		p.PackByte(byte(KindCustodied))
		PackContractRef(p, v.Contract)
	default:
		p.Add(fmt.Errorf("%w: %T", ErrUnknownAsset, a))
	}
}

func Unpack(p *wrappers.Packer) Asset {
	switch k := Kind(p.UnpackByte()); k {
	case KindNative:
		return Native{Denom: p.UnpackStr()}
	case KindCustodied:
		return Custodied{Contract: UnpackContractRef(p)}
	default:
		if !p.Errored() {
			p.Add(fmt.Errorf("%w: %s", ErrUnknownAsset, k))
		}
		return nil
	}
}

func PackContractRef(p *wrappers.Packer, c ContractRef) {
	p.PackFixedBytes(c.Address[:])
	p.PackStr(c.CodeHash)
}

func UnpackContractRef(p *wrappers.Packer) ContractRef {
	var c ContractRef
	copy(c.Address[:], p.UnpackFixedBytes(codec.AddressLen))
	c.CodeHash = p.UnpackStr()
	return c
}

func PackPair(p *wrappers.Packer, pair Pair) {
	Pack(p, pair.Assets[0])
	Pack(p, pair.Assets[1])
}

func UnpackPair(p *wrappers.Packer) Pair {
	return NewPair(Unpack(p), Unpack(p))
}
