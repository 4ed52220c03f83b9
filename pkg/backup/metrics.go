package backup

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paramvault_backup_runs_total",
		Help: "Total number of backup runs by terminal status",
	}, []string{"status"})

	publishTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paramvault_backup_publish_total",
		Help: "Total number of publish attempts by result",
	}, []string{"status"})
)
