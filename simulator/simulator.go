// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package simulator hosts exchanges in memory. It plays the part of the
// ledger around them: it moves attached funds before a request, runs the
// handler, executes the returned instructions, and delivers callbacks as
// separate, later requests. Every request commits or aborts as a unit.
package simulator

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/prefixdb"
	"github.com/ava-labs/avalanchego/database/versiondb"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/holiman/uint256"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ava-labs/hyperamm/asset"
	"github.com/ava-labs/hyperamm/codec"
	"github.com/ava-labs/hyperamm/consts"
	"github.com/ava-labs/hyperamm/exchange"
	"github.com/ava-labs/hyperamm/instruction"
	"github.com/ava-labs/hyperamm/ledger"
	"github.com/ava-labs/hyperamm/state"
	"github.com/ava-labs/hyperamm/utils"
)

const (
	ExchangeCodeHash = "hyperamm-exchange"
	TokenCodeHash    = "hyperamm-token"
)

// ShareTokenCode is the only token code the simulator can instantiate.
var ShareTokenCode = ledger.Template{CodeID: 1, CodeHash: "hyperamm-share-token"}

// Receipt collects the responses of a request and of the callbacks it
// caused.
type Receipt struct {
	Exchange  codec.Address        `json:"exchange"`
	Height    uint64               `json:"height"`
	Response  *exchange.Response   `json:"response"`
	Callbacks []*exchange.Response `json:"callbacks,omitempty"`
}

type callback struct {
	sender codec.Address
	target asset.ContractRef
	msg    string
}

type Simulator struct {
	log     logging.Logger
	metrics *exchange.Metrics
	tracer  trace.Tracer
	config  exchange.Config

	lock   sync.Mutex
	db     database.Database
	height uint64
}

func New(log logging.Logger, metrics *exchange.Metrics, tracer trace.Tracer, config exchange.Config, db database.Database) *Simulator {
	return &Simulator{
		log:     log,
		metrics: metrics,
		tracer:  tracer,
		config:  config,
		db:      db,
	}
}

func (s *Simulator) Logger() logging.Logger {
	return s.log
}

func (s *Simulator) Tracer() trace.Tracer {
	return s.tracer
}

// atomic runs [f] against a versiondb over the simulator's database and
// commits only if [f] succeeds. Callers must hold [s.lock].
func (s *Simulator) atomic(f func(v *view, vdb *versiondb.Database) error) error {
	vdb := versiondb.New(s.db)
	if err := f(&view{db: vdb}, vdb); err != nil {
		vdb.Abort()
		return err
	}
	if err := vdb.Commit(); err != nil {
		return err
	}
	s.height++
	return nil
}

func (s *Simulator) exchange(v *view) *exchange.Exchange {
	return exchange.New(s.log, s.metrics, s.tracer, v, s.config)
}

func (s *Simulator) env(sender, contract codec.Address, funds []asset.Coin) exchange.Env {
	return exchange.Env{
		Sender:   sender,
		Contract: contract,
		CodeHash: ExchangeCodeHash,
		Funds:    funds,
		Height:   s.height + 1,
	}
}

// CreateRegistry deploys a registry exchanges announce themselves to.
func (s *Simulator) CreateRegistry(_ context.Context, label string) (asset.ContractRef, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	ref := asset.ContractRef{
		Address:  codec.CreateAddress(consts.RegistryID, utils.ToID([]byte(label))),
		CodeHash: "hyperamm-registry",
	}
	return ref, s.atomic(func(v *view, _ *versiondb.Database) error {
		return v.createRegistry(ref)
	})
}

// HasRegistry reports whether a registry was created under [label].
func (s *Simulator) HasRegistry(_ context.Context, label string) (bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.db.Has(RegistryKey(codec.CreateAddress(consts.RegistryID, utils.ToID([]byte(label)))))
}

// CreateToken deploys a token contract controlled by [minter].
func (s *Simulator) CreateToken(_ context.Context, name, symbol string, decimals uint8, minter codec.Address) (asset.ContractRef, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	ref := asset.ContractRef{
		Address:  codec.CreateAddress(consts.TokenID, utils.ToID([]byte(symbol))),
		CodeHash: TokenCodeHash,
	}
	return ref, s.atomic(func(v *view, _ *versiondb.Database) error {
		return v.createToken(ref.Address, &TokenInfo{
			Name:     name,
			Symbol:   symbol,
			Decimals: decimals,
			Minter:   minter,
			CodeHash: ref.CodeHash,
		})
	})
}

// MintTokens is sent by [minter].
func (s *Simulator) MintTokens(_ context.Context, token asset.ContractRef, minter, to codec.Address, amount *uint256.Int) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.atomic(func(v *view, _ *versiondb.Database) error {
		return v.mint(token.Address, minter, to, amount)
	})
}

// FundNative credits native coins out of thin air.
func (s *Simulator) FundNative(_ context.Context, owner codec.Address, denom string, amount *uint256.Int) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.atomic(func(v *view, _ *versiondb.Database) error {
		return v.addAmount(NativeBalanceKey(owner, denom), amount)
	})
}

// Approve lets [spender] move up to [amount] of [owner]'s tokens.
func (s *Simulator) Approve(_ context.Context, owner codec.Address, token asset.ContractRef, spender codec.Address, amount *uint256.Int) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.atomic(func(v *view, _ *versiondb.Database) error {
		return v.approve(token.Address, owner, spender, amount)
	})
}

// SetViewingKey is sent by [owner].
func (s *Simulator) SetViewingKey(_ context.Context, owner codec.Address, token asset.ContractRef, key string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.atomic(func(v *view, _ *versiondb.Database) error {
		return v.setViewingKey(token.Address, owner, key)
	})
}

func (s *Simulator) NativeBalance(ctx context.Context, owner codec.Address, denom string) (*uint256.Int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return (&view{db: s.db}).NativeBalance(ctx, owner, denom)
}

// TokenBalance reads a balance without a viewing key.
func (s *Simulator) TokenBalance(_ context.Context, token asset.ContractRef, owner codec.Address) (*uint256.Int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return (&view{db: s.db}).tokenBalance(token.Address, owner)
}

func (s *Simulator) TokenInfo(_ context.Context, token asset.ContractRef) (*TokenInfo, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return (&view{db: s.db}).tokenInfo(token.Address)
}

func (s *Simulator) Allowance(_ context.Context, token asset.ContractRef, owner, spender codec.Address) (*uint256.Int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return (&view{db: s.db}).allowance(token.Address, owner, spender)
}

func (s *Simulator) LookupExchange(_ context.Context, registry asset.ContractRef, pair asset.Pair) (codec.Address, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return (&view{db: s.db}).lookupExchange(registry.Address, pair)
}

// Exchanges lists every exchange in address order.
func (s *Simulator) Exchanges(context.Context) ([]codec.Address, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	it := s.db.NewIteratorWithPrefix([]byte{exchangePrefix})
	defer it.Release()

	var out []codec.Address
	for it.Next() {
		addr, err := codec.ToAddress(it.Key()[1:])
		if err != nil {
			return nil, err
		}
		out = append(out, addr)
	}
	return out, it.Error()
}

func (s *Simulator) requireExchange(v *view, addr codec.Address) error {
	has, err := v.db.Has(ExchangeKey(addr))
	if err != nil {
		return err
	}
	if !has {
		return fmt.Errorf("%w: %s", ErrUnknownExchange, addr)
	}
	return nil
}

// exchangeState buffers the exchange's writes until they are applied to
// [vdb].
func exchangeState(addr codec.Address, db database.Database) (*state.Recorder, *state.Database) {
	st := state.NewDatabase(prefixdb.New(ExchangeStatePrefix(addr), db))
	return state.NewRecorder(st), st
}

// CreateExchange instantiates an exchange for [pair] announced to
// [registry]. The share token registers itself in a later request, which
// is included in the receipt.
func (s *Simulator) CreateExchange(ctx context.Context, sender codec.Address, registry asset.ContractRef, pair asset.Pair) (*Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "Simulator.CreateExchange", oteltrace.WithAttributes(
		attribute.Stringer("pair", pair),
	))
	defer span.End()

	s.lock.Lock()
	defer s.lock.Unlock()

	pk, err := pair.Key()
	if err != nil {
		return nil, err
	}
	addr := codec.CreateAddress(consts.ExchangeID, utils.ToID(append(registry.Address[:], pk...)))
	receipt := &Receipt{Exchange: addr}
	var callbacks []callback
	err = s.atomic(func(v *view, vdb *versiondb.Database) error {
		if err := vdb.Put(ExchangeKey(addr), nil); err != nil {
			return err
		}
		rec, st := exchangeState(addr, vdb)
		env := s.env(sender, addr, nil)
		entropy := binary.BigEndian.AppendUint64(sender[:], env.Height)
		resp, err := s.exchange(v).Instantiate(ctx, rec, env, &exchange.InitMsg{
			Pair:       pair,
			Registry:   registry,
			ShareToken: ShareTokenCode,
			Entropy:    entropy,
		})
		if err != nil {
			return err
		}
		if err := rec.Apply(ctx, st); err != nil {
			return err
		}
		receipt.Response = resp
		callbacks, err = s.apply(v, addr, resp.Instructions)
		return err
	})
	if err != nil {
		return nil, err
	}
	receipt.Height = s.height
	s.log.Info("exchange created",
		zap.Stringer("exchange", addr),
		zap.Stringer("pair", pair),
		zap.Uint64("height", s.height),
	)
	receipt.Callbacks, err = s.deliver(ctx, callbacks)
	return receipt, err
}

// Execute sends [msg] from [sender] to the exchange at [addr] with [funds]
// attached.
func (s *Simulator) Execute(ctx context.Context, sender, addr codec.Address, msg exchange.ExecuteMsg, funds []asset.Coin) (*Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "Simulator.Execute", oteltrace.WithAttributes(
		attribute.Stringer("exchange", addr),
		attribute.Int("funds", len(funds)),
	))
	defer span.End()

	s.lock.Lock()
	defer s.lock.Unlock()

	resp, callbacks, err := s.execute(ctx, sender, addr, msg, funds)
	if err != nil {
		return nil, err
	}
	receipt := &Receipt{Exchange: addr, Height: s.height, Response: resp}
	receipt.Callbacks, err = s.deliver(ctx, callbacks)
	return receipt, err
}

func (s *Simulator) execute(ctx context.Context, sender, addr codec.Address, msg exchange.ExecuteMsg, funds []asset.Coin) (*exchange.Response, []callback, error) {
	var (
		resp      *exchange.Response
		callbacks []callback
	)
	err := s.atomic(func(v *view, vdb *versiondb.Database) error {
		if err := s.requireExchange(v, addr); err != nil {
			return err
		}
		for _, c := range funds {
			if c.Amount == nil || c.Amount.IsZero() {
				continue
			}
			if err := v.sendNative(sender, addr, c.Denom, c.Amount); err != nil {
				return err
			}
		}
		rec, st := exchangeState(addr, vdb)
		var err error
		resp, err = s.exchange(v).Execute(ctx, rec, s.env(sender, addr, funds), msg)
		if err != nil {
			return err
		}
		if err := rec.Apply(ctx, st); err != nil {
			return err
		}
		s.log.Debug("exchange state written",
			zap.Stringer("exchange", addr),
			zap.Int("keys", len(rec.Keys().Writes())),
		)
		callbacks, err = s.apply(v, addr, resp.Instructions)
		return err
	})
	return resp, callbacks, err
}

// deliver sends each callback as its own request.
func (s *Simulator) deliver(ctx context.Context, callbacks []callback) ([]*exchange.Response, error) {
	var out []*exchange.Response
	for len(callbacks) > 0 {
		cb := callbacks[0]
		callbacks = callbacks[1:]
		if cb.msg != exchange.RegistrationCallback {
			return out, fmt.Errorf("%w: %q", ErrUnknownCallback, cb.msg)
		}
		resp, more, err := s.execute(ctx, cb.sender, cb.target.Address, &exchange.OnShareTokenRegistered{}, nil)
		if err != nil {
			return out, err
		}
		out = append(out, resp)
		callbacks = append(callbacks, more...)
	}
	return out, nil
}

// apply executes [instructions] on behalf of [emitter].
func (s *Simulator) apply(v *view, emitter codec.Address, instructions []instruction.Instruction) ([]callback, error) {
	var callbacks []callback
	for i, ins := range instructions {
		cb, err := s.applyOne(v, emitter, ins)
		if err != nil {
			kind := "nil"
			if ins != nil {
				kind = ins.Kind().String()
			}
			return nil, fmt.Errorf("instruction %d (%s): %w", i, kind, err)
		}
		if cb != nil {
			callbacks = append(callbacks, *cb)
		}
	}
	return callbacks, nil
}

func (s *Simulator) applyOne(v *view, emitter codec.Address, ins instruction.Instruction) (*callback, error) {
	switch in := ins.(type) {
	case *instruction.BankSend:
		return nil, v.sendNative(emitter, in.To, in.Denom, in.Amount)
	case *instruction.TokenTransfer:
		return nil, v.transferToken(in.Token.Address, emitter, in.Recipient, in.Amount)
	case *instruction.TokenTransferFrom:
		if err := v.spendAllowance(in.Token.Address, in.Owner, emitter, in.Amount); err != nil {
			return nil, err
		}
		return nil, v.transferToken(in.Token.Address, in.Owner, in.Recipient, in.Amount)
	case *instruction.Mint:
		return nil, v.mint(in.Token.Address, emitter, in.Recipient, in.Amount)
	case *instruction.Burn:
		if err := v.spendAllowance(in.Token.Address, in.Owner, emitter, in.Amount); err != nil {
			return nil, err
		}
		return nil, v.burn(in.Token.Address, in.Owner, in.Amount)
	case *instruction.SetViewingKey:
		return nil, v.setViewingKey(in.Token.Address, emitter, in.Key)
	case *instruction.RegisterExchange:
		if in.Exchange != emitter {
			return nil, fmt.Errorf("%w: %s cannot register %s", ErrUnauthorized, emitter, in.Exchange)
		}
		return nil, v.registerExchange(in.Registry.Address, in.Pair, in.Exchange)
	case *instruction.Instantiate:
		if in.CodeID != ShareTokenCode.CodeID || in.CodeHash != ShareTokenCode.CodeHash {
			return nil, fmt.Errorf("%w: %d (%s)", ErrUnknownCode, in.CodeID, in.CodeHash)
		}
		token := codec.CreateAddress(consts.TokenID, utils.ToID(append(emitter[:], in.Label...)))
		if err := v.createToken(token, &TokenInfo{
			Name:     in.Init.Name,
			Symbol:   in.Init.Symbol,
			Decimals: in.Init.Decimals,
			Minter:   in.Init.Minter,
			CodeHash: in.CodeHash,
		}); err != nil {
			return nil, err
		}
		if in.Init.Callback == nil {
			return nil, nil
		}
		return &callback{
			sender: token,
			target: in.Init.Callback.Contract,
			msg:    in.Init.Callback.Msg,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownInstruction, ins)
	}
}

// Query answers [msg] against the committed state of the exchange at
// [addr].
func (s *Simulator) Query(ctx context.Context, addr codec.Address, msg exchange.QueryMsg) (any, error) {
	ctx, span := s.tracer.Start(ctx, "Simulator.Query", oteltrace.WithAttributes(
		attribute.Stringer("exchange", addr),
	))
	defer span.End()

	s.lock.Lock()
	defer s.lock.Unlock()

	v := &view{db: s.db}
	if err := s.requireExchange(v, addr); err != nil {
		return nil, err
	}
	rec, _ := exchangeState(addr, s.db)
	res, err := s.exchange(v).Query(ctx, rec, msg)
	if err != nil {
		return nil, err
	}
	s.log.Debug("query answered",
		zap.Stringer("exchange", addr),
		zap.String("query", msg.Query()),
		zap.Int("keys", len(rec.Keys())),
	)
	return res, nil
}

// Height is the number of committed requests.
func (s *Simulator) Height() uint64 {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.height
}
