// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package safemath

import (
	"errors"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

var (
	ErrOverflow       = errors.New("overflow")
	ErrUnderflow      = errors.New("underflow")
	ErrDivisionByZero = errors.New("division by zero")
	ErrAmountTooLarge = errors.New("amount does not fit in 128 bits")
	ErrInvalidDecimal = errors.New("invalid decimal")
	ErrMissingAmount  = errors.New("missing amount")
)

// Error is returned by every value-producing operation in this package. It
// records the operation and the operands that caused it to fail.
type Error struct {
	Op       string
	Operands []*uint256.Int
	Err      error
}

func newError(op string, err error, operands ...*uint256.Int) *Error {
	ops := make([]*uint256.Int, len(operands))
	for i, o := range operands {
		ops[i] = o.Clone()
	}
	return &Error{
		Op:       op,
		Operands: ops,
		Err:      err,
	}
}

func (e *Error) Error() string {
	ops := make([]string, len(e.Operands))
	for i, o := range e.Operands {
		ops[i] = o.Dec()
	}
	return fmt.Sprintf("%s(%s): %s", e.Op, strings.Join(ops, ", "), e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
