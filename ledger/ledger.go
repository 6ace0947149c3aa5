// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ledger holds the persistent record of a single exchange.
package ledger

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/ava-labs/hyperamm/asset"
	"github.com/ava-labs/hyperamm/codec"
	"github.com/ava-labs/hyperamm/pricing"
	"github.com/ava-labs/hyperamm/safemath"
)

type Status uint8

const (
	StatusUninitialized Status = iota
	StatusAwaitingShareToken
	StatusActive
)

func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusAwaitingShareToken:
		return "awaiting_share_token"
	case StatusActive:
		return "active"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// Template identifies the stored code the share token is instantiated from.
type Template struct {
	CodeID   uint64 `json:"codeID" yaml:"codeID"`
	CodeHash string `json:"codeHash" yaml:"codeHash"`
}

// Ledger is the state an exchange keeps between requests. Reserves and the
// share token supply are not part of it: they are read from their owners on
// every request.
type Ledger struct {
	// Self is the exchange's own address, which holds the reserves
	Self     codec.Address
	Pair     asset.Pair
	Fee      pricing.Fee
	Registry asset.ContractRef
	Template Template
	// ViewingKey lets the exchange read its own custodied balances
	ViewingKey string

	// nil until the share token reports back
	shareToken   *asset.ContractRef
	depositCache [2]*uint256.Int
}

// New returns a ledger awaiting its share token.
func New(
	self codec.Address,
	pair asset.Pair,
	fee pricing.Fee,
	registry asset.ContractRef,
	template Template,
	viewingKey string,
) *Ledger {
	return &Ledger{
		Self:         self,
		Pair:         pair,
		Fee:          fee,
		Registry:     registry,
		Template:     template,
		ViewingKey:   viewingKey,
		depositCache: [2]*uint256.Int{safemath.Zero(), safemath.Zero()},
	}
}

func (l *Ledger) Status() Status {
	if l.shareToken == nil {
		return StatusAwaitingShareToken
	}
	return StatusActive
}

// ShareToken returns the registered share token, or false if none has
// registered yet.
func (l *Ledger) ShareToken() (asset.ContractRef, bool) {
	if l.shareToken == nil {
		return asset.ContractRef{}, false
	}
	return *l.shareToken, true
}

// RegisterShareToken moves the ledger to [StatusActive]. It succeeds once.
func (l *Ledger) RegisterShareToken(ref asset.ContractRef) error {
	if l.shareToken != nil {
		return fmt.Errorf("%w: registered %s, got %s", ErrReinitialization, l.shareToken, ref)
	}
	l.shareToken = &ref
	return nil
}

// RequireActive returns the share token if the ledger is active.
func (l *Ledger) RequireActive() (asset.ContractRef, error) {
	ref, ok := l.ShareToken()
	if !ok {
		return ref, fmt.Errorf("%w: %s", ErrNotActive, l.Status())
	}
	return ref, nil
}

// DepositCache returns copies of the cumulative deposits per side.
func (l *Ledger) DepositCache() [2]*uint256.Int {
	return [2]*uint256.Int{l.depositCache[0].Clone(), l.depositCache[1].Clone()}
}

// AddDeposit adds [amount] to the running total of side [i].
func (l *Ledger) AddDeposit(i int, amount *uint256.Int) error {
	if i < 0 || i > 1 {
		return fmt.Errorf("%w: %d", ErrInvalidSide, i)
	}
	v, err := safemath.Add(l.depositCache[i], amount)
	if err != nil {
		return err
	}
	l.depositCache[i] = v
	return nil
}
