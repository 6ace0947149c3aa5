// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"go.uber.org/zap"

	"github.com/ava-labs/hyperamm/instruction"
)

type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Response is returned by every successful mutating request. The host
// executes [Instructions] in order after the request's state changes.
type Response struct {
	Instructions []instruction.Instruction `json:"instructions"`
	Attributes   []Attribute               `json:"attributes"`
}

func (r *Response) addInstruction(ins ...instruction.Instruction) {
	r.Instructions = append(r.Instructions, ins...)
}

func (r *Response) addAttribute(key, value string) {
	r.Attributes = append(r.Attributes, Attribute{Key: key, Value: value})
}

// Attribute returns the first value recorded under [key].
func (r *Response) Attribute(key string) (string, bool) {
	for _, a := range r.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

func (r *Response) zapFields() []zap.Field {
	fields := make([]zap.Field, 0, len(r.Attributes)+1)
	for _, a := range r.Attributes {
		fields = append(fields, zap.String(a.Key, a.Value))
	}
	return append(fields, zap.Int("instructions", len(r.Instructions)))
}
