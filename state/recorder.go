// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"
)

var _ Mutable = (*Recorder)(nil)

// Recorder wraps an [Immutable] view, buffers every write and records which
// keys were touched with which permissions. Nothing reaches the wrapped view
// unless [Recorder.Apply] is called.
type Recorder struct {
	state Immutable

	// nil values mark keys missing from [state]
	stateKeys map[string][]byte
	// nil values mark removed keys
	changedValues map[string][]byte
	keys          Keys
}

func NewRecorder(im Immutable) *Recorder {
	return &Recorder{
		state:         im,
		stateKeys:     map[string][]byte{},
		changedValues: map[string][]byte{},
		keys:          Keys{},
	}
}

func (r *Recorder) checkState(ctx context.Context, key []byte) ([]byte, error) {
	if val, has := r.stateKeys[string(key)]; has {
		return val, nil
	}
	value, err := r.state.GetValue(ctx, key)
	if err == nil {
		r.stateKeys[string(key)] = value
		return value, nil
	}
	if errors.Is(err, database.ErrNotFound) {
		r.stateKeys[string(key)] = nil
		err = nil
	}
	return nil, err
}

func (r *Recorder) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	stateKeyVal, err := r.checkState(ctx, key)
	if err != nil {
		return nil, err
	}
	r.keys.Add(string(key), Read)
	if value, ok := r.changedValues[string(key)]; ok {
		if value == nil {
			return nil, database.ErrNotFound
		}
		return value, nil
	}
	if stateKeyVal == nil {
		return nil, database.ErrNotFound
	}
	return stateKeyVal, nil
}

func (r *Recorder) Insert(ctx context.Context, key []byte, value []byte) error {
	stateKeyVal, err := r.checkState(ctx, key)
	if err != nil {
		return err
	}
	if stateKeyVal != nil {
		r.keys.Add(string(key), Write)
	} else {
		r.keys.Add(string(key), Allocate|Write)
	}
	r.changedValues[string(key)] = value
	return nil
}

func (r *Recorder) Remove(_ context.Context, key []byte) error {
	r.keys.Add(string(key), Write)
	r.changedValues[string(key)] = nil
	return nil
}

// Keys returns every key touched so far.
func (r *Recorder) Keys() Keys {
	return r.keys
}

// Apply writes the buffered changes to [mu].
func (r *Recorder) Apply(ctx context.Context, mu Mutable) error {
	for k, v := range r.changedValues {
		if v == nil {
			if err := mu.Remove(ctx, []byte(k)); err != nil {
				return err
			}
			continue
		}
		if err := mu.Insert(ctx, []byte(k), v); err != nil {
			return err
		}
	}
	return nil
}
