package assigner

import (
	metrics "github.com/docker/go-metrics"
)

const (
	resultSuccess     = "success"
	resultExhausted   = "exhausted"
	resultInvalidTask = "invalid_task"
)

var (
	assignmentsCounter metrics.LabeledCounter
	releasesCounter    metrics.Counter
	assignedGauge      metrics.Gauge
)

func init() {
	ns := metrics.NewNamespace("dcos_metrics", "ports", nil)
	assignmentsCounter = ns.NewLabeledCounter("assignments", "The number of port assignment requests by outcome", "mode", "result")
	releasesCounter = ns.NewCounter("releases", "The number of released port assignments")
	assignedGauge = ns.NewGauge("assigned", "The number of tasks currently holding a port assignment", metrics.Unit("tasks"))
	metrics.Register(ns)
}
