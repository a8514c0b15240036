// Copyright 2026 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package taskgraph

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	graphsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taskgraph",
			Subsystem: "executor",
			Name:      "graphs_submitted_total",
			Help:      "Total number of graph runs submitted to an executor.",
		}, []string{"executor"})
	graphsCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taskgraph",
			Subsystem: "executor",
			Name:      "graphs_completed_total",
			Help:      "Total number of graph runs completed by an executor.",
		}, []string{"executor"})
	graphsInFlight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "taskgraph",
			Subsystem: "executor",
			Name:      "graphs_in_flight",
			Help:      "The number of graph runs submitted but not yet completed.",
		}, []string{"executor"})
	graphRunDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "taskgraph",
			Subsystem: "executor",
			Name:      "graph_run_duration_seconds",
			Help:      "Bucketed histogram of the time from submission to completion of a graph run.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 24), // 10us ~ 84s
		}, []string{"executor"})

	graphsCompiled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taskgraph",
			Subsystem: "graph",
			Name:      "compiled_total",
			Help:      "Total number of compiled graphs.",
		}, []string{"kind"})
	graphsDestroyed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taskgraph",
			Subsystem: "graph",
			Name:      "destroyed_total",
			Help:      "Total number of destroyed compiled graphs.",
		}, []string{"kind"})
	nodesExecuted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taskgraph",
			Subsystem: "graph",
			Name:      "nodes_executed_total",
			Help:      "Total number of executed graph nodes.",
		}, []string{"kind"})
)

// InitMetrics registers all metrics in this file
func InitMetrics(registry *prometheus.Registry) {
	registry.MustRegister(graphsSubmitted)
	registry.MustRegister(graphsCompleted)
	registry.MustRegister(graphsInFlight)
	registry.MustRegister(graphRunDuration)
	registry.MustRegister(graphsCompiled)
	registry.MustRegister(graphsDestroyed)
	registry.MustRegister(nodesExecuted)
}
