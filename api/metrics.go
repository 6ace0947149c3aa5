// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ava-labs/hyperamm/server"
)

const MetricsEndpoint = "metrics"

// RegisterMetrics exposes [gatherer] in the Prometheus text format.
func RegisterMetrics(s server.Server, gatherer prometheus.Gatherer) error {
	return s.AddRoute(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}), MetricsEndpoint)
}
