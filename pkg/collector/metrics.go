package collector

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	collectionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "paramvault_collection_duration_seconds",
			Help:    "Time taken by a parameter collection run",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)

	collectionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paramvault_collection_total",
			Help: "Total number of parameter collection runs",
		},
		[]string{"status"}, // complete, partial or empty
	)

	collectionParameters = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "paramvault_collection_parameters",
			Help: "Number of distinct parameters in the last collection run",
		},
	)

	discardedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "paramvault_collection_discarded_total",
			Help: "Parameter events discarded due to undecodable names",
		},
	)
)
