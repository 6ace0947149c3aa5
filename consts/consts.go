// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	Name    = "hyperamm"
	HRP     = "amm"
	Version = "v0.1.0"
)

// Address type IDs
const (
	AccountID uint8 = iota
	ExchangeID
	TokenID
	RegistryID
)

const (
	ByteLen    = 1
	BoolLen    = 1
	Uint16Len  = 2
	Uint64Len  = 8
	Uint256Len = 32
	MaxUint64  = ^uint64(0)
)
