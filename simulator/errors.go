// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package simulator

import "errors"

var (
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrUnknownToken          = errors.New("unknown token")
	ErrTokenExists           = errors.New("token already exists")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInvalidViewingKey     = errors.New("invalid viewing key")
	ErrUnknownCode           = errors.New("unknown code")
	ErrUnknownRegistry       = errors.New("unknown registry")
	ErrPairExists            = errors.New("pair already registered")
	ErrUnknownExchange       = errors.New("unknown exchange")
	ErrUnknownCallback       = errors.New("unknown callback")
	ErrUnknownInstruction    = errors.New("unknown instruction")
)
