// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/btcsuite/btcd/btcutil/bech32"
)

const AddressLen = 33

// Address identifies an account or a contract. The first byte is a type ID,
// the remaining 32 bytes are an ID derived from the account's creation data.
type Address [AddressLen]byte

var EmptyAddress = Address{}

// CreateAddress returns [Address] made from concatenating
// [typeID] with [id].
func CreateAddress(typeID uint8, id ids.ID) Address {
	var a Address
	a[0] = typeID
	copy(a[1:], id[:])
	return a
}

// ToAddress returns [Address] if [b] is exactly [AddressLen] bytes.
func ToAddress(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressLen {
		return a, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSize, AddressLen, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// StringToAddress parses the 0x-prefixed (or bare) hex form of an address.
func StringToAddress(s string) (Address, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return EmptyAddress, err
	}
	return ToAddress(b)
}

func (a Address) TypeID() uint8 {
	return a[0]
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// MarshalText returns the hex representation of a.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses a hex-encoded address.
func (a *Address) UnmarshalText(input []byte) error {
	addr, err := StringToAddress(string(input))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// AddressBech32 returns the human-readable form of [a] under [hrp].
func AddressBech32(hrp string, a Address) (string, error) {
	p, err := bech32.ConvertBits(a[:], 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(hrp, p)
}

// MustAddressBech32 is used when [hrp] is a compile-time constant and the
// encoding cannot fail.
func MustAddressBech32(hrp string, a Address) string {
	s, err := AddressBech32(hrp, a)
	if err != nil {
		return a.String()
	}
	return s
}

// ParseAddressBech32 reverses [AddressBech32] and checks the human-readable
// part matches [hrp].
func ParseAddressBech32(hrp, s string) (Address, error) {
	phrp, p, err := bech32.Decode(s)
	if err != nil {
		return EmptyAddress, err
	}
	if phrp != hrp {
		return EmptyAddress, fmt.Errorf("%w: expected %q, got %q", ErrIncorrectHRP, hrp, phrp)
	}
	b, err := bech32.ConvertBits(p, 5, 8, false)
	if err != nil {
		return EmptyAddress, err
	}
	return ToAddress(b)
}

// ParseAddress accepts either the hex or the bech32 form.
func ParseAddress(hrp, s string) (Address, error) {
	if strings.HasPrefix(s, "0x") {
		return StringToAddress(s)
	}
	return ParseAddressBech32(hrp, s)
}
