// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "extman",
		Name:      "queue_depth",
		Help:      "Number of pending entries in the action queue.",
	})

	JobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "extman",
		Name:      "jobs_total",
		Help:      "Completed scheduler jobs by kind and outcome.",
	}, []string{"kind", "outcome"})

	UnexpectedExits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "extman",
		Name:      "unexpected_exits_total",
		Help:      "Extension processes that terminated unexpectedly.",
	})
)
