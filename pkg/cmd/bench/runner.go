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
	"context"
	"io"
	"math/rand"

	"github.com/o3de/o3de-sub270/pkg/clock"
	"github.com/o3de/o3de-sub270/pkg/taskgraph"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/atomic"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

// benchConfig describes the synthetic workload.
type benchConfig struct {
	Shape      string
	Nodes      int
	Iterations int
	Retained   bool
	Seed       int64
	Payload    int64
	// Rate limits the iterations per second. Zero means unlimited.
	Rate int
}

// runner drives one benchmark on an executor.
type runner struct {
	cfg     *benchConfig
	e       *taskgraph.Executor
	clock   clock.Clock
	rnd     *rand.Rand
	payload []byte

	executed atomic.Int64
	checksum atomic.Uint64
}

func newRunner(cfg *benchConfig, e *taskgraph.Executor) *runner {
	payload := make([]byte, cfg.Payload)
	for i := range payload {
		payload[i] = byte(i)
	}
	return &runner{
		cfg:     cfg,
		e:       e,
		clock:   clock.New(),
		rnd:     rand.New(rand.NewSource(cfg.Seed)),
		payload: payload,
	}
}

// work is the body of every node.
func (r *runner) work(int) {
	var sum uint64
	for _, c := range r.payload {
		sum += uint64(c)
	}
	r.checksum.Add(sum)
	r.executed.Inc()
}

// runBenchmark runs cfg.Iterations graphs of cfg.Shape on e, one at a
// time, and reports their durations.
func runBenchmark(ctx context.Context, e *taskgraph.Executor, cfg *benchConfig) (*report, error) {
	r := newRunner(cfg, e)
	rep := &report{
		Executor:   e.Name(),
		Workers:    e.WorkerCount(),
		Shape:      cfg.Shape,
		Nodes:      cfg.Nodes,
		Iterations: cfg.Iterations,
		Retained:   cfg.Retained,
		Payload:    cfg.Payload,
	}

	var limiter ratelimit.Limiter = ratelimit.NewUnlimited()
	if cfg.Rate > 0 {
		limiter = ratelimit.New(cfg.Rate)
	}

	var b *taskgraph.JobGraph
	if cfg.Retained && cfg.Shape != ShapeParallelFor {
		b = taskgraph.NewJobGraph(cfg.Shape, taskgraph.WithRetained())
		buildShape(b, cfg.Shape, cfg.Nodes, r.rnd, r.work)
		rep.Links = b.LinkCount()
		defer b.Close()
	}

	sw := clock.StartStopwatch(r.clock)
	for i := 0; i < cfg.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Trace(err)
		}
		limiter.Take()
		// The time spent waiting on the limiter is not part of the run.
		sw.Lap()
		var err error
		if cfg.Shape == ShapeParallelFor {
			err = taskgraph.ParallelFor(ctx, e, 0, cfg.Nodes, 0, r.work)
		} else {
			err = r.runGraph(ctx, b, rep)
		}
		if err != nil {
			return nil, errors.Trace(err)
		}
		rep.addRun(sw.Lap())
	}
	rep.finish(r.executed.Load())

	if expected := int64(cfg.Nodes) * int64(cfg.Iterations); rep.Executed != expected {
		return nil, errors.Errorf("executed %d nodes, expected %d", rep.Executed, expected)
	}
	log.Info("benchmark finished",
		zap.String("shape", cfg.Shape),
		zap.Int("nodes", cfg.Nodes),
		zap.Int("iterations", cfg.Iterations),
		zap.Duration("total", rep.Total),
		zap.Uint64("checksum", r.checksum.Load()))
	return rep, nil
}

// runGraph submits one graph and waits for it. A nil retained builder
// means a fresh one-shot graph is built.
func (r *runner) runGraph(ctx context.Context, retained *taskgraph.JobGraph, rep *report) error {
	b := retained
	if b == nil {
		b = taskgraph.NewJobGraph(r.cfg.Shape)
		defer b.Close()
		buildShape(b, r.cfg.Shape, r.cfg.Nodes, r.rnd, r.work)
		rep.Links = b.LinkCount()
	}
	ev := taskgraph.NewEvent()
	b.SubmitOnExecutor(r.e, ev)
	return errors.Trace(ev.Wait(ctx))
}

// dumpShape writes the layout of the graph the benchmark would run.
func dumpShape(w io.Writer, cfg *benchConfig) error {
	if cfg.Shape == ShapeParallelFor {
		_, err := io.WriteString(w, "parallel-for has no static graph\n")
		return errors.Trace(err)
	}
	b := taskgraph.NewJobGraph(cfg.Shape)
	defer b.Close()
	buildShape(b, cfg.Shape, cfg.Nodes, rand.New(rand.NewSource(cfg.Seed)), func(int) {})
	return errors.Trace(b.Dump(w))
}
