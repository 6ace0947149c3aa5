// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrReinitialization = errors.New("unauthorized: share token already registered")
	ErrNotActive        = errors.New("exchange is not active")
	ErrNotInstantiated  = fmt.Errorf("%w: not instantiated", ErrNotActive)
	ErrInvalidSide      = errors.New("invalid pair side")
	ErrCorruptLedger    = errors.New("corrupt ledger")
)
