// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package trace builds the span tracer requests are recorded with.
package trace

import (
	"context"
	"errors"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/sdk/resource"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const (
	DefaultEndpoint = "http://localhost:9411/api/v2/spans"

	exportTimeout = 10 * time.Second
	// longer than [exportTimeout] so in-flight exports finish first
	shutdownTimeout = 15 * time.Second
)

var ErrInvalidSampleRate = errors.New("trace sample rate must be in [0, 1]")

type Config struct {
	Enabled bool `json:"enabled" yaml:"enabled"`

	// The fraction of traces to sample.
	SampleRate float64 `json:"sampleRate" yaml:"sampleRate"`

	// Zipkin collector the spans are exported to
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	AppName string `json:"-" yaml:"-"`
	Version string `json:"-" yaml:"-"`
}

func (c *Config) Verify() error {
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return ErrInvalidSampleRate
	}
	return nil
}

type tracer struct {
	oteltrace.Tracer

	tp *sdktrace.TracerProvider
}

func (t *tracer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return t.tp.Shutdown(ctx)
}

// Wrap names a tracer after [appName] and shuts [tp] down on Close.
func Wrap(tp *sdktrace.TracerProvider, appName string) trace.Tracer {
	return &tracer{
		Tracer: tp.Tracer(appName),
		tp:     tp,
	}
}

// New returns a tracer that does nothing unless [config] enables it.
func New(config *Config) (trace.Tracer, error) {
	if !config.Enabled {
		return Noop(config.AppName), nil
	}
	if err := config.Verify(); err != nil {
		return nil, err
	}

	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	exporter, err := zipkin.New(endpoint)
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithExportTimeout(exportTimeout)),
		sdktrace.WithResource(
			resource.NewWithAttributes(
				semconv.SchemaURL,
				attribute.String("version", config.Version),
				semconv.ServiceNameKey.String(config.AppName),
			),
		),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(config.SampleRate)),
	)
	return Wrap(tp, config.AppName), nil
}
