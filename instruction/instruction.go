// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package instruction defines the outgoing messages an exchange asks its host
// to execute after a request has been handled. Handlers never move funds
// themselves.
package instruction

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/ava-labs/hyperamm/asset"
	"github.com/ava-labs/hyperamm/codec"
)

type Kind uint8

const (
	KindBankSend Kind = iota
	KindTokenTransfer
	KindTokenTransferFrom
	KindMint
	KindBurn
	KindInstantiate
	KindSetViewingKey
	KindRegisterExchange
)

var kindNames = map[Kind]string{
	KindBankSend:          "bank_send",
	KindTokenTransfer:     "token_transfer",
	KindTokenTransferFrom: "token_transfer_from",
	KindMint:              "mint",
	KindBurn:              "burn",
	KindInstantiate:       "instantiate",
	KindSetViewingKey:     "set_viewing_key",
	KindRegisterExchange:  "register_exchange",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("unknown(%d)", uint8(k))
}

// Instruction is executed by the host on behalf of the contract that
// emitted it.
type Instruction interface {
	Kind() Kind
}

var (
	_ Instruction = (*BankSend)(nil)
	_ Instruction = (*TokenTransfer)(nil)
	_ Instruction = (*TokenTransferFrom)(nil)
	_ Instruction = (*Mint)(nil)
	_ Instruction = (*Burn)(nil)
	_ Instruction = (*Instantiate)(nil)
	_ Instruction = (*SetViewingKey)(nil)
	_ Instruction = (*RegisterExchange)(nil)
)

// BankSend moves native coins out of the emitter's account.
type BankSend struct {
	To     codec.Address `json:"to"`
	Denom  string        `json:"denom"`
	Amount *uint256.Int  `json:"amount"`
}

func (*BankSend) Kind() Kind { return KindBankSend }

// TokenTransfer moves tokens out of the emitter's balance.
type TokenTransfer struct {
	Token     asset.ContractRef `json:"token"`
	Recipient codec.Address     `json:"recipient"`
	Amount    *uint256.Int      `json:"amount"`
}

func (*TokenTransfer) Kind() Kind { return KindTokenTransfer }

// TokenTransferFrom spends an allowance [Owner] granted to the emitter.
type TokenTransferFrom struct {
	Token     asset.ContractRef `json:"token"`
	Owner     codec.Address     `json:"owner"`
	Recipient codec.Address     `json:"recipient"`
	Amount    *uint256.Int      `json:"amount"`
}

func (*TokenTransferFrom) Kind() Kind { return KindTokenTransferFrom }

// Mint requires the emitter to be the token's minter.
type Mint struct {
	Token     asset.ContractRef `json:"token"`
	Recipient codec.Address     `json:"recipient"`
	Amount    *uint256.Int      `json:"amount"`
}

func (*Mint) Kind() Kind { return KindMint }

// Burn destroys [Amount] from [Owner]'s balance, spending the allowance
// [Owner] granted to the emitter.
type Burn struct {
	Token  asset.ContractRef `json:"token"`
	Owner  codec.Address     `json:"owner"`
	Amount *uint256.Int      `json:"amount"`
}

func (*Burn) Kind() Kind { return KindBurn }

// Callback names the contract and message the host delivers once a newly
// instantiated contract exists.
type Callback struct {
	Contract asset.ContractRef `json:"contract"`
	Msg      string            `json:"msg"`
}

// TokenInit configures a new token contract.
type TokenInit struct {
	Name     string        `json:"name"`
	Symbol   string        `json:"symbol"`
	Decimals uint8         `json:"decimals"`
	Minter   codec.Address `json:"minter"`
	// Callback is delivered with the new token as sender.
	Callback *Callback `json:"callback,omitempty"`
}

// Instantiate creates a new token contract from stored code.
type Instantiate struct {
	CodeID   uint64    `json:"codeID"`
	CodeHash string    `json:"codeHash"`
	Label    string    `json:"label"`
	Init     TokenInit `json:"init"`
}

func (*Instantiate) Kind() Kind { return KindInstantiate }

// SetViewingKey registers the emitter's key with a token so balances can be
// queried.
type SetViewingKey struct {
	Token asset.ContractRef `json:"token"`
	Key   string            `json:"key"`
}

func (*SetViewingKey) Kind() Kind { return KindSetViewingKey }

// RegisterExchange announces a new exchange to the registry.
type RegisterExchange struct {
	Registry asset.ContractRef `json:"registry"`
	Pair     asset.Pair        `json:"pair"`
	Exchange codec.Address     `json:"exchange"`
}

func (*RegisterExchange) Kind() Kind { return KindRegisterExchange }
