// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	instantiations          prometheus.Counter
	swaps                   prometheus.Counter
	liquidityAdded          prometheus.Counter
	liquidityRemoved        prometheus.Counter
	shareTokenRegistrations prometheus.Counter
	failedRequests          prometheus.Counter
}

// NewMetrics registers the exchange counters with [r] under [namespace].
func NewMetrics(namespace string, r prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		instantiations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "instantiations",
			Help:      "number of exchanges instantiated",
		}),
		swaps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "swaps",
			Help:      "number of swaps executed",
		}),
		liquidityAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "liquidity_added",
			Help:      "number of deposits accepted",
		}),
		liquidityRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "liquidity_removed",
			Help:      "number of withdrawals executed",
		}),
		shareTokenRegistrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "share_token_registrations",
			Help:      "number of share tokens registered",
		}),
		failedRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failed_requests",
			Help:      "number of requests rejected with an error",
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.instantiations),
		r.Register(m.swaps),
		r.Register(m.liquidityAdded),
		r.Register(m.liquidityRemoved),
		r.Register(m.shareTokenRegistrations),
		r.Register(m.failedRequests),
	)
	return m, errs.Err
}
