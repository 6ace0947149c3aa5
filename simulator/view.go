// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package simulator

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
	"github.com/ava-labs/hyperamm/exchange"
	"github.com/ava-labs/hyperamm/safemath"
)

var _ exchange.Querier = (*view)(nil)

const maxTokenInfoSize = 1024

// TokenInfo describes a token contract.
type TokenInfo struct {
	Name     string        `json:"name"`
	Symbol   string        `json:"symbol"`
	Decimals uint8         `json:"decimals"`
	Minter   codec.Address `json:"minter"`
	CodeHash string        `json:"codeHash"`
	Supply   *uint256.Int  `json:"supply"`
}

func (t *TokenInfo) marshal() ([]byte, error) {
	p := &wrappers.Packer{MaxSize: maxTokenInfoSize}
	p.PackStr(t.Name)
	p.PackStr(t.Symbol)
	p.PackByte(t.Decimals)
	p.PackFixedBytes(t.Minter[:])
	p.PackStr(t.CodeHash)
	b := t.Supply.Bytes32()
	p.PackFixedBytes(b[:])
	return p.Bytes, p.Err
}

func unmarshalTokenInfo(b []byte) (*TokenInfo, error) {
	p := &wrappers.Packer{Bytes: b}
	t := &TokenInfo{
		Name:     p.UnpackStr(),
		Symbol:   p.UnpackStr(),
		Decimals: p.UnpackByte(),
	}
	copy(t.Minter[:], p.UnpackFixedBytes(codec.AddressLen))
	t.CodeHash = p.UnpackStr()
	t.Supply = new(uint256.Int).SetBytes(p.UnpackFixedBytes(consts.Uint256Len))
	return t, p.Err
}

// view reads and writes host state (balances, tokens, registries) through
// a single database, usually the versiondb of the call in flight.
type view struct {
	db database.KeyValueReaderWriter
}

func (v *view) getAmount(key []byte) (*uint256.Int, error) {
	b, err := v.db.Get(key)
	if errors.Is(err, database.ErrNotFound) {
		return safemath.Zero(), nil
	}
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes(b), nil
}

func (v *view) putAmount(key []byte, amount *uint256.Int) error {
	b := amount.Bytes32()
	return v.db.Put(key, b[:])
}

func (v *view) addAmount(key []byte, amount *uint256.Int) error {
	cur, err := v.getAmount(key)
	if err != nil {
		return err
	}
	next, err := safemath.Add(cur, amount)
	if err != nil {
		return err
	}
	return v.putAmount(key, next)
}

func (v *view) subAmount(key []byte, amount *uint256.Int, insufficient error) error {
	cur, err := v.getAmount(key)
	if err != nil {
		return err
	}
	next, err := safemath.Sub(cur, amount)
	if err != nil {
		return fmt.Errorf("%w: have %s, need %s", insufficient, cur.Dec(), amount.Dec())
	}
	return v.putAmount(key, next)
}

func (v *view) NativeBalance(_ context.Context, owner codec.Address, denom string) (*uint256.Int, error) {
	return v.getAmount(NativeBalanceKey(owner, denom))
}

func (v *view) sendNative(from, to codec.Address, denom string, amount *uint256.Int) error {
	if err := v.subAmount(NativeBalanceKey(from, denom), amount, ErrInsufficientBalance); err != nil {
		return err
	}
	return v.addAmount(NativeBalanceKey(to, denom), amount)
}

func (v *view) tokenInfo(token codec.Address) (*TokenInfo, error) {
	b, err := v.db.Get(TokenInfoKey(token))
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownToken, token)
	}
	if err != nil {
		return nil, err
	}
	return unmarshalTokenInfo(b)
}

func (v *view) putTokenInfo(token codec.Address, info *TokenInfo) error {
	b, err := info.marshal()
	if err != nil {
		return err
	}
	return v.db.Put(TokenInfoKey(token), b)
}

func (v *view) createToken(token codec.Address, info *TokenInfo) error {
	has, err := v.db.Has(TokenInfoKey(token))
	if err != nil {
		return err
	}
	if has {
		return fmt.Errorf("%w: %s", ErrTokenExists, token)
	}
	if info.Supply == nil {
		info.Supply = safemath.Zero()
	}
	return v.putTokenInfo(token, info)
}

// TokenBalance requires the owner's viewing key.
func (v *view) TokenBalance(_ context.Context, token asset.ContractRef, owner codec.Address, viewingKey string) (*uint256.Int, error) {
	if _, err := v.tokenInfo(token.Address); err != nil {
		return nil, err
	}
	stored, err := v.db.Get(ViewingKeyKey(token.Address, owner))
	if errors.Is(err, database.ErrNotFound) || (err == nil && string(stored) != viewingKey) {
		return nil, fmt.Errorf("%w: %s on %s", ErrInvalidViewingKey, owner, token.Address)
	}
	if err != nil {
		return nil, err
	}
	return v.getAmount(TokenBalanceKey(token.Address, owner))
}

func (v *view) TokenSupply(_ context.Context, token asset.ContractRef) (*uint256.Int, error) {
	info, err := v.tokenInfo(token.Address)
	if err != nil {
		return nil, err
	}
	return info.Supply, nil
}

func (v *view) tokenBalance(token, owner codec.Address) (*uint256.Int, error) {
	return v.getAmount(TokenBalanceKey(token, owner))
}

func (v *view) transferToken(token, from, to codec.Address, amount *uint256.Int) error {
	if _, err := v.tokenInfo(token); err != nil {
		return err
	}
	if err := v.subAmount(TokenBalanceKey(token, from), amount, ErrInsufficientBalance); err != nil {
		return err
	}
	return v.addAmount(TokenBalanceKey(token, to), amount)
}

func (v *view) spendAllowance(token, owner, spender codec.Address, amount *uint256.Int) error {
	if owner == spender {
		return nil
	}
	return v.subAmount(TokenAllowanceKey(token, owner, spender), amount, ErrInsufficientAllowance)
}

func (v *view) approve(token, owner, spender codec.Address, amount *uint256.Int) error {
	if _, err := v.tokenInfo(token); err != nil {
		return err
	}
	return v.putAmount(TokenAllowanceKey(token, owner, spender), amount)
}

func (v *view) allowance(token, owner, spender codec.Address) (*uint256.Int, error) {
	return v.getAmount(TokenAllowanceKey(token, owner, spender))
}

func (v *view) mint(token, minter, to codec.Address, amount *uint256.Int) error {
	info, err := v.tokenInfo(token)
	if err != nil {
		return err
	}
	if info.Minter != minter {
		return fmt.Errorf("%w: %s is not the minter of %s", ErrUnauthorized, minter, token)
	}
	info.Supply, err = safemath.Add(info.Supply, amount)
	if err != nil {
		return err
	}
	if err := v.putTokenInfo(token, info); err != nil {
		return err
	}
	return v.addAmount(TokenBalanceKey(token, to), amount)
}

func (v *view) burn(token, owner codec.Address, amount *uint256.Int) error {
	info, err := v.tokenInfo(token)
	if err != nil {
		return err
	}
	if err := v.subAmount(TokenBalanceKey(token, owner), amount, ErrInsufficientBalance); err != nil {
		return err
	}
	// supply is the sum of all balances, so it covers [amount]
	info.Supply = new(uint256.Int).Sub(info.Supply, amount)
	return v.putTokenInfo(token, info)
}

func (v *view) setViewingKey(token, owner codec.Address, key string) error {
	if _, err := v.tokenInfo(token); err != nil {
		return err
	}
	return v.db.Put(ViewingKeyKey(token, owner), []byte(key))
}
