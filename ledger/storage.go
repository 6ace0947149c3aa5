// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/holiman/uint256"

	"github.com/ava-labs/hyperamm/asset"
	"github.com/ava-labs/hyperamm/codec"
	"github.com/ava-labs/hyperamm/consts"
	"github.com/ava-labs/hyperamm/state"
)

const (
	ledgerPrefix byte = 0x0
	version      byte = 0x0

	MaxLedgerSize = 4 * 1024
)

// Key is the state key of the ledger within an exchange's namespace.
func Key() []byte {
	return []byte{ledgerPrefix}
}

func (l *Ledger) Marshal() ([]byte, error) {
	p := &wrappers.Packer{MaxSize: MaxLedgerSize}
	p.PackByte(version)
	p.PackFixedBytes(l.Self[:])
	asset.PackPair(p, l.Pair)
	p.PackLong(l.Fee.Numerator)
	p.PackLong(l.Fee.Denominator)
	asset.PackContractRef(p, l.Registry)
	p.PackLong(l.Template.CodeID)
	p.PackStr(l.Template.CodeHash)
	p.PackStr(l.ViewingKey)
	p.PackBool(l.shareToken != nil)
	if l.shareToken != nil {
		asset.PackContractRef(p, *l.shareToken)
	}
	for _, d := range l.depositCache {
		b := d.Bytes32()
		p.PackFixedBytes(b[:])
	}
	return p.Bytes, p.Err
}

func Unmarshal(b []byte) (*Ledger, error) {
	p := &wrappers.Packer{Bytes: b}
	if v := p.UnpackByte(); v != version && !p.Errored() {
		return nil, fmt.Errorf("%w: unknown version %d", ErrCorruptLedger, v)
	}
	l := &Ledger{}
	copy(l.Self[:], p.UnpackFixedBytes(codec.AddressLen))
	l.Pair = asset.UnpackPair(p)
	l.Fee.Numerator = p.UnpackLong()
	l.Fee.Denominator = p.UnpackLong()
	l.Registry = asset.UnpackContractRef(p)
	l.Template.CodeID = p.UnpackLong()
	l.Template.CodeHash = p.UnpackStr()
	l.ViewingKey = p.UnpackStr()
	if p.UnpackBool() {
		ref := asset.UnpackContractRef(p)
		l.shareToken = &ref
	}
	for i := range l.depositCache {
		l.depositCache[i] = new(uint256.Int).SetBytes(p.UnpackFixedBytes(consts.Uint256Len))
	}
	if p.Errored() {
		return nil, fmt.Errorf("%w: %w", ErrCorruptLedger, p.Err)
	}
	if p.Offset != len(b) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorruptLedger, len(b)-p.Offset)
	}
	return l, nil
}

// Store writes [l] to [mu].
func Store(ctx context.Context, mu state.Mutable, l *Ledger) error {
	b, err := l.Marshal()
	if err != nil {
		return err
	}
	return mu.Insert(ctx, Key(), b)
}

// Load reads the ledger from [im]. It returns [ErrNotInstantiated] if no
// ledger has been stored.
func Load(ctx context.Context, im state.Immutable) (*Ledger, error) {
	b, err := im.GetValue(ctx, Key())
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNotInstantiated
	}
	if err != nil {
		return nil, err
	}
	return Unmarshal(b)
}

// LoadStatus reports the state machine position, including
// [StatusUninitialized] when nothing is stored.
func LoadStatus(ctx context.Context, im state.Immutable) (Status, error) {
	l, err := Load(ctx, im)
	switch {
	case errors.Is(err, ErrNotInstantiated):
		return StatusUninitialized, nil
	case err != nil:
		return StatusUninitialized, err
	default:
		return l.Status(), nil
	}
}
