// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"context"

	"github.com/ava-labs/avalanchego/trace"

	oteltrace "go.opentelemetry.io/otel/trace"
)

var _ trace.Tracer = (*noopTracer)(nil)

type noopTracer struct {
	t oteltrace.Tracer
}

// Noop returns a tracer whose spans are never recorded.
func Noop(appName string) trace.Tracer {
	return &noopTracer{
		t: oteltrace.NewNoopTracerProvider().Tracer(appName),
	}
}

func (n *noopTracer) Start(
	ctx context.Context,
	spanName string,
	opts ...oteltrace.SpanStartOption,
) (context.Context, oteltrace.Span) {
	return n.t.Start(ctx, spanName, opts...)
}

func (*noopTracer) Close() error {
	return nil
}
