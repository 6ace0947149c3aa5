// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package asset

import "errors"

var (
	ErrUnknownAsset    = errors.New("unknown asset kind")
	ErrEmptyDenom      = errors.New("native asset has empty denom")
	ErrEmptyContract   = errors.New("custodied asset has empty contract address")
	ErrIdenticalAssets = errors.New("pair assets must be distinct")
	ErrInvalidJSON     = errors.New("asset must set exactly one of native or custodied")
)
