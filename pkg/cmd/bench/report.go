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
	"fmt"
	"io"
	"time"

	"github.com/docker/go-units"
	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"github.com/pingcap/errors"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// report summarizes a benchmark run.
type report struct {
	Executor   string `json:"executor"`
	Workers    int    `json:"workers"`
	Shape      string `json:"shape"`
	Nodes      int    `json:"nodes"`
	Links      int    `json:"links"`
	Iterations int    `json:"iterations"`
	Retained   bool   `json:"retained"`
	Payload    int64  `json:"payload-bytes"`

	Executed int64         `json:"executed"`
	Total    time.Duration `json:"total-ns"`
	Mean     time.Duration `json:"mean-ns"`
	Min      time.Duration `json:"min-ns"`
	Max      time.Duration `json:"max-ns"`

	NodesPerSecond float64 `json:"nodes-per-second"`

	PoolTasks   int64 `json:"pool-tasks"`
	StolenTasks int64 `json:"stolen-tasks"`
}

// addRun records the duration of one iteration.
func (r *report) addRun(d time.Duration) {
	if r.Total == 0 || d < r.Min {
		r.Min = d
	}
	if d > r.Max {
		r.Max = d
	}
	r.Total += d
}

// finish computes the aggregates once every iteration is recorded.
func (r *report) finish(executed int64) {
	r.Executed = executed
	if r.Iterations > 0 {
		r.Mean = r.Total / time.Duration(r.Iterations)
	}
	if r.Total > 0 {
		r.NodesPerSecond = float64(r.Executed) / r.Total.Seconds()
	}
}

// addPoolStats records the scheduling counters of the run.
func (r *report) addPoolStats(s poolStats) {
	r.PoolTasks = int64(s.tasks)
	r.StolenTasks = int64(s.stolen)
}

func (r *report) write(w io.Writer, format string) error {
	if format == OutputJSON {
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return errors.Trace(err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return errors.Trace(err)
	}

	_, err := fmt.Fprintf(w,
		"executor:   %s (%d workers)\n"+
			"graph:      %s, %s nodes, %s links, retained=%t, payload %s\n"+
			"iterations: %s\n"+
			"duration:   total %s, mean %s, min %s, max %s\n"+
			"throughput: %s nodes/s\n"+
			"scheduling: %s pool tasks, %s stolen\n",
		r.Executor, r.Workers,
		r.Shape, humanize.Comma(int64(r.Nodes)), humanize.Comma(int64(r.Links)), r.Retained,
		units.HumanSize(float64(r.Payload)),
		humanize.Comma(int64(r.Iterations)),
		r.Total, r.Mean, r.Min, r.Max,
		humanize.CommafWithDigits(r.NodesPerSecond, 0),
		humanize.Comma(r.PoolTasks), humanize.Comma(r.StolenTasks),
	)
	return errors.Trace(err)
}
