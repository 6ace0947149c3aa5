// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package asset

import (
	"encoding/json"
	"fmt"
)

// Pair is an ordered pair of distinct assets. The order is fixed when the
// exchange is instantiated; equality ignores it.
type Pair struct {
	Assets [2]Asset
}

func NewPair(a0, a1 Asset) Pair {
	return Pair{Assets: [2]Asset{a0, a1}}
}

func (p Pair) Validate() error {
	for _, a := range p.Assets {
		if err := Validate(a); err != nil {
			return err
		}
	}
	id0, err := ID(p.Assets[0])
	if err != nil {
		return err
	}
	id1, err := ID(p.Assets[1])
	if err != nil {
		return err
	}
	if id0 == id1 {
		return fmt.Errorf("%w: %s", ErrIdenticalAssets, p.Assets[0])
	}
	return nil
}

// Equal compares as unordered sets.
func (p Pair) Equal(o Pair) bool {
	if Equal(p.Assets[0], o.Assets[0]) && Equal(p.Assets[1], o.Assets[1]) {
		return true
	}
	return Equal(p.Assets[0], o.Assets[1]) && Equal(p.Assets[1], o.Assets[0])
}

// Reversed reports whether [o] lists the same assets in the opposite order.
func (p Pair) Reversed(o Pair) bool {
	return Equal(p.Assets[0], o.Assets[1]) && Equal(p.Assets[1], o.Assets[0])
}

// Index returns the position of [a] in the pair.
func (p Pair) Index(a Asset) (int, bool) {
	for i, pa := range p.Assets {
		if Equal(pa, a) {
			return i, true
		}
	}
	return 0, false
}

func (p Pair) Contains(a Asset) bool {
	_, ok := p.Index(a)
	return ok
}

func (p Pair) String() string {
	return p.Assets[0].String() + "-" + p.Assets[1].String()
}

// Key is identical for both orderings of the same two assets.
func (p Pair) Key() (string, error) {
	id0, err := ID(p.Assets[0])
	if err != nil {
		return "", err
	}
	id1, err := ID(p.Assets[1])
	if err != nil {
		return "", err
	}
	if id1 < id0 {
		id0, id1 = id1, id0
	}
	return id0 + "|" + id1, nil
}

func (p Pair) MarshalJSON() ([]byte, error) {
	var specs [2]Spec
	for i, a := range p.Assets {
		s, err := ToSpec(a)
		if err != nil {
			return nil, err
		}
		specs[i] = s
	}
	return json.Marshal(specs)
}

func (p *Pair) UnmarshalJSON(b []byte) error {
	var specs [2]Spec
	if err := json.Unmarshal(b, &specs); err != nil {
		return err
	}
	for i, s := range specs {
		a, err := s.Asset()
		if err != nil {
			return err
		}
		p.Assets[i] = a
	}
	return nil
}
