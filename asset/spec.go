// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package asset

import "fmt"

// Spec is the JSON form of an [Asset]:
//
//	{"native":{"denom":"uamm"}}
//	{"custodied":{"address":"0x..","codeHash":".."}}
type Spec struct {
	Native    *Native      `json:"native,omitempty"`
	Custodied *ContractRef `json:"custodied,omitempty"`
}

func ToSpec(a Asset) (Spec, error) {
	switch v := a.(type) {
	case Native:
		return Spec{Native: &v}, nil
	case Custodied:
		c := v.Contract
		return Spec{Custodied: &c}, nil
	default:
		return Spec{}, fmt.Errorf("%w: %T", ErrUnknownAsset, a)
	}
}

func (s Spec) Asset() (Asset, error) {
	switch {
	case s.Native != nil && s.Custodied == nil:
		return *s.Native, nil
	case s.Custodied != nil && s.Native == nil:
		return Custodied{Contract: *s.Custodied}, nil
	default:
		return nil, ErrInvalidJSON
	}
}
