// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package simulator

import (
	"github.com/ava-labs/hyperamm/codec"
)

// Key prefixes
const (
	nativeBalancePrefix byte = iota
	tokenInfoPrefix
	tokenBalancePrefix
	tokenAllowancePrefix
	viewingKeyPrefix
	registryPrefix
	registryPairPrefix
	exchangePrefix
	exchangeStatePrefix
)

func concat(prefix byte, parts ...[]byte) []byte {
	n := 1
	for _, p := range parts {
		n += len(p)
	}
	k := make([]byte, 0, n)
	k = append(k, prefix)
	for _, p := range parts {
		k = append(k, p...)
	}
	return k
}

func NativeBalanceKey(owner codec.Address, denom string) []byte {
	return concat(nativeBalancePrefix, owner[:], []byte(denom))
}

func TokenInfoKey(token codec.Address) []byte {
	return concat(tokenInfoPrefix, token[:])
}

func TokenBalanceKey(token, owner codec.Address) []byte {
	return concat(tokenBalancePrefix, token[:], owner[:])
}

func TokenAllowanceKey(token, owner, spender codec.Address) []byte {
	return concat(tokenAllowancePrefix, token[:], owner[:], spender[:])
}

func ViewingKeyKey(token, owner codec.Address) []byte {
	return concat(viewingKeyPrefix, token[:], owner[:])
}

func RegistryKey(registry codec.Address) []byte {
	return concat(registryPrefix, registry[:])
}

func RegistryPairKey(registry codec.Address, pairKey string) []byte {
	return concat(registryPairPrefix, registry[:], []byte(pairKey))
}

// ExchangeKey marks an address as an exchange.
func ExchangeKey(exchange codec.Address) []byte {
	return concat(exchangePrefix, exchange[:])
}

// ExchangeStatePrefix namespaces everything an exchange stores.
func ExchangeStatePrefix(exchange codec.Address) []byte {
	return concat(exchangeStatePrefix, exchange[:])
}
