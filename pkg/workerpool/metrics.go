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

package workerpool

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	totalWorkers = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "taskgraph",
			Subsystem: "workerpool",
			Name:      "number_of_workers",
			Help:      "The number of running workers in a pool.",
		}, []string{"name"})
	submittedTasks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taskgraph",
			Subsystem: "workerpool",
			Name:      "submitted_tasks_total",
			Help:      "Total number of tasks submitted to a pool.",
		}, []string{"name"})
	stolenTasks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taskgraph",
			Subsystem: "workerpool",
			Name:      "stolen_tasks_total",
			Help:      "Total number of tasks a worker took from another worker's queue.",
		}, []string{"name"})
)

// InitMetrics registers all metrics in this file
func InitMetrics(registry *prometheus.Registry) {
	registry.MustRegister(totalWorkers)
	registry.MustRegister(submittedTasks)
	registry.MustRegister(stolenTasks)
}
