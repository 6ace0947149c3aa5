// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package exchange implements the request handlers of a two-asset
// constant-product exchange.
//
// Handlers are synchronous. They read and write the exchange's ledger
// through the [state.Mutable] they are given, read balances through a
// [Querier], and return the instructions the host must execute afterwards.
// The host is responsible for discarding every write if a handler fails.
package exchange

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/holiman/uint256"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ava-labs/hyperamm/asset"
	"github.com/ava-labs/hyperamm/consts"
	"github.com/ava-labs/hyperamm/instruction"
	"github.com/ava-labs/hyperamm/ledger"
	"github.com/ava-labs/hyperamm/pricing"
	"github.com/ava-labs/hyperamm/state"
	"github.com/ava-labs/hyperamm/utils"
)

// RegistrationCallback is the message the share token sends back.
const RegistrationCallback = "on_share_token_registered"

// Querier reads balances and token supplies. Results are snapshots valid for
// the current request only.
type Querier interface {
	asset.BalanceQuerier

	TokenSupply(ctx context.Context, token asset.ContractRef) (*uint256.Int, error)
}

// ShareTokenConfig names the share tokens minted by new exchanges.
type ShareTokenConfig struct {
	Name     string `json:"name" yaml:"name"`
	Symbol   string `json:"symbol" yaml:"symbol"`
	Decimals uint8  `json:"decimals" yaml:"decimals"`
}

type Config struct {
	Fee        pricing.Fee      `json:"fee" yaml:"fee"`
	ShareToken ShareTokenConfig `json:"shareToken" yaml:"shareToken"`
}

func NewConfig() Config {
	return Config{
		Fee: pricing.DefaultFee(),
		ShareToken: ShareTokenConfig{
			Name:     "AMM-Share",
			Symbol:   "AMMS",
			Decimals: 6,
		},
	}
}

type Exchange struct {
	log     logging.Logger
	metrics *Metrics
	tracer  trace.Tracer
	querier Querier
	config  Config
}

func New(log logging.Logger, metrics *Metrics, tracer trace.Tracer, querier Querier, config Config) *Exchange {
	return &Exchange{
		log:     log,
		metrics: metrics,
		tracer:  tracer,
		querier: querier,
		config:  config,
	}
}

// Instantiate stores a new ledger awaiting its share token and asks the host
// to create the share token, register the exchange's viewing key with every
// custodied asset and announce the exchange to the registry.
func (e *Exchange) Instantiate(ctx context.Context, mu state.Mutable, env Env, msg *InitMsg) (*Response, error) {
	resp, err := e.instantiate(ctx, mu, env, msg)
	if err != nil {
		e.fail("instantiate", env, err)
		return nil, err
	}
	e.metrics.instantiations.Inc()
	e.log.Info("exchange instantiated", resp.zapFields()...)
	return resp, nil
}

func (e *Exchange) instantiate(ctx context.Context, mu state.Mutable, env Env, msg *InitMsg) (*Response, error) {
	status, err := ledger.LoadStatus(ctx, mu)
	if err != nil {
		return nil, err
	}
	if status != ledger.StatusUninitialized {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyInstantiated, env.Contract)
	}
	if err := msg.Pair.Validate(); err != nil {
		return nil, err
	}
	if err := e.config.Fee.Validate(); err != nil {
		return nil, err
	}

	viewingKey := utils.ToID(append(env.Contract[:], msg.Entropy...)).String()
	l := ledger.New(env.Contract, msg.Pair, e.config.Fee, msg.Registry, msg.ShareToken, viewingKey)
	if err := ledger.Store(ctx, mu, l); err != nil {
		return nil, err
	}

	resp := &Response{}
	resp.addInstruction(&instruction.Instantiate{
		CodeID:   msg.ShareToken.CodeID,
		CodeHash: msg.ShareToken.CodeHash,
		Label:    fmt.Sprintf("%s-%s-%s", consts.Name, msg.Pair, env.Contract),
		Init: instruction.TokenInit{
			Name:     e.config.ShareToken.Name,
			Symbol:   e.config.ShareToken.Symbol,
			Decimals: e.config.ShareToken.Decimals,
			Minter:   env.Contract,
			Callback: &instruction.Callback{
				Contract: asset.ContractRef{Address: env.Contract, CodeHash: env.CodeHash},
				Msg:      RegistrationCallback,
			},
		},
	})
	for _, a := range msg.Pair.Assets {
		if c, ok := a.(asset.Custodied); ok {
			resp.addInstruction(&instruction.SetViewingKey{Token: c.Contract, Key: viewingKey})
		}
	}
	resp.addInstruction(&instruction.RegisterExchange{
		Registry: msg.Registry,
		Pair:     msg.Pair,
		Exchange: env.Contract,
	})
	resp.addAttribute("action", "instantiate")
	resp.addAttribute("exchange", env.Contract.String())
	resp.addAttribute("pair", msg.Pair.String())
	return resp, nil
}

// Execute dispatches a mutating request.
func (e *Exchange) Execute(ctx context.Context, mu state.Mutable, env Env, msg ExecuteMsg) (*Response, error) {
	action := "unknown"
	if msg != nil {
		action = msg.Action()
	}
	ctx, span := e.tracer.Start(ctx, "Exchange.Execute", oteltrace.WithAttributes(
		attribute.String("action", action),
		attribute.Stringer("sender", env.Sender),
		attribute.Int64("height", int64(env.Height)),
	))
	defer span.End()

	var (
		resp *Response
		err  error
	)
	switch m := msg.(type) {
	case *AddLiquidity:
		resp, err = e.addLiquidity(ctx, mu, env, m)
		if err == nil {
			e.metrics.liquidityAdded.Inc()
		}
	case *RemoveLiquidity:
		resp, err = e.removeLiquidity(ctx, mu, env, m)
		if err == nil {
			e.metrics.liquidityRemoved.Inc()
		}
	case *Swap:
		resp, err = e.swap(ctx, mu, env, m)
		if err == nil {
			e.metrics.swaps.Inc()
		}
	case *OnShareTokenRegistered:
		resp, err = e.registerShareToken(ctx, mu, env)
		if err == nil {
			e.metrics.shareTokenRegistrations.Inc()
		}
	default:
		err = fmt.Errorf("%w: %T", ErrUnknownMessage, msg)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.fail(action, env, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("instructions", len(resp.Instructions)))
	e.log.Info("request executed", resp.zapFields()...)
	return resp, nil
}

func (e *Exchange) fail(action string, env Env, err error) {
	e.metrics.failedRequests.Inc()
	e.log.Debug("request failed",
		zap.String("action", action),
		zap.Stringer("sender", env.Sender),
		zap.Uint64("height", env.Height),
		zap.Error(err),
	)
}

func (e *Exchange) registerShareToken(ctx context.Context, mu state.Mutable, env Env) (*Response, error) {
	l, err := ledger.Load(ctx, mu)
	if err != nil {
		return nil, err
	}
	ref := asset.ContractRef{Address: env.Sender, CodeHash: l.Template.CodeHash}
	if err := l.RegisterShareToken(ref); err != nil {
		return nil, err
	}
	if err := ledger.Store(ctx, mu, l); err != nil {
		return nil, err
	}
	resp := &Response{}
	resp.addAttribute("action", (*OnShareTokenRegistered)(nil).Action())
	resp.addAttribute("share_token", ref.String())
	return resp, nil
}

// observe reads the exchange's balance of every asset in its pair.
func (e *Exchange) observe(ctx context.Context, l *ledger.Ledger) ([2]*uint256.Int, error) {
	var out [2]*uint256.Int
	for i, a := range l.Pair.Assets {
		bal, err := asset.BalanceOf(ctx, e.querier, a, l.Self, l.ViewingKey)
		if err != nil {
			return out, err
		}
		out[i] = bal
	}
	return out, nil
}
