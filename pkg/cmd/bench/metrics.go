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

package bench

import (
	"github.com/o3de/o3de-sub270/pkg/taskgraph"
	"github.com/o3de/o3de-sub270/pkg/workerpool"
	"github.com/pingcap/errors"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const (
	poolTasksMetric  = "taskgraph_workerpool_submitted_tasks_total"
	poolStolenMetric = "taskgraph_workerpool_stolen_tasks_total"
)

// newRegistry returns a registry with the executor and pool metrics.
func newRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	taskgraph.InitMetrics(registry)
	workerpool.InitMetrics(registry)
	return registry
}

// poolStats is a snapshot of the scheduling counters of one pool.
type poolStats struct {
	tasks  float64
	stolen float64
}

func (s poolStats) sub(o poolStats) poolStats {
	return poolStats{tasks: s.tasks - o.tasks, stolen: s.stolen - o.stolen}
}

// gatherPoolStats reads the counters of the pool named pool from g.
func gatherPoolStats(g prometheus.Gatherer, pool string) (poolStats, error) {
	families, err := g.Gather()
	if err != nil {
		return poolStats{}, errors.Trace(err)
	}
	var stats poolStats
	for _, family := range families {
		var dst *float64
		switch family.GetName() {
		case poolTasksMetric:
			dst = &stats.tasks
		case poolStolenMetric:
			dst = &stats.stolen
		default:
			continue
		}
		for _, m := range family.GetMetric() {
			if hasLabel(m, "name", pool) {
				*dst += m.GetCounter().GetValue()
			}
		}
	}
	return stats, nil
}

func hasLabel(m *dto.Metric, name, value string) bool {
	for _, l := range m.GetLabel() {
		if l.GetName() == name && l.GetValue() == value {
			return true
		}
	}
	return false
}
