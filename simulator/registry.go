// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package simulator

import (
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/hyperamm/asset"
	"github.com/ava-labs/hyperamm/codec"
)

func (v *view) createRegistry(registry asset.ContractRef) error {
	return v.db.Put(RegistryKey(registry.Address), []byte(registry.CodeHash))
}

func (v *view) requireRegistry(registry codec.Address) error {
	has, err := v.db.Has(RegistryKey(registry))
	if err != nil {
		return err
	}
	if !has {
		return fmt.Errorf("%w: %s", ErrUnknownRegistry, registry)
	}
	return nil
}

// registerExchange records [exchange] for [pair], in either order.
func (v *view) registerExchange(registry codec.Address, pair asset.Pair, exchange codec.Address) error {
	if err := v.requireRegistry(registry); err != nil {
		return err
	}
	pk, err := pair.Key()
	if err != nil {
		return err
	}
	k := RegistryPairKey(registry, pk)
	has, err := v.db.Has(k)
	if err != nil {
		return err
	}
	if has {
		return fmt.Errorf("%w: %s", ErrPairExists, pair)
	}
	return v.db.Put(k, exchange[:])
}

func (v *view) lookupExchange(registry codec.Address, pair asset.Pair) (codec.Address, error) {
	pk, err := pair.Key()
	if err != nil {
		return codec.EmptyAddress, err
	}
	b, err := v.db.Get(RegistryPairKey(registry, pk))
	if errors.Is(err, database.ErrNotFound) {
		return codec.EmptyAddress, fmt.Errorf("%w: %s", ErrUnknownExchange, pair)
	}
	if err != nil {
		return codec.EmptyAddress, err
	}
	return codec.ToAddress(b)
}
