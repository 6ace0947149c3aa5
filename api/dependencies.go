// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"context"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/hyperamm/codec"
	"github.com/ava-labs/hyperamm/exchange"
)

// Backend hosts the exchanges served by the API.
type Backend interface {
	Logger() logging.Logger
	Tracer() trace.Tracer
	Height() uint64
	Exchanges(ctx context.Context) ([]codec.Address, error)
	Query(ctx context.Context, addr codec.Address, msg exchange.QueryMsg) (any, error)
}
