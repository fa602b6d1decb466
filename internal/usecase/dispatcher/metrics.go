package dispatcher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dispatchOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_outcomes_total",
			Help: "Total number of publish outcomes by topic and result",
		},
		[]string{"topic", "result"},
	)

	dispatchInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dispatch_in_flight",
			Help: "Number of dispatches waiting for a publish outcome",
		},
	)

	dispatchDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_dropped_total",
			Help: "Messages dropped because the dispatcher was closed",
		},
	)
)
