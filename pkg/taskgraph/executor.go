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
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/o3de/o3de-sub270/pkg/clock"
	"github.com/o3de/o3de-sub270/pkg/config"
	cerrors "github.com/o3de/o3de-sub270/pkg/errors"
	"github.com/o3de/o3de-sub270/pkg/logutil"
	"github.com/o3de/o3de-sub270/pkg/workerpool"
	"github.com/pingcap/errors"
	"github.com/pingcap/failpoint"
	"github.com/pingcap/log"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Executor runs submitted graphs on a worker pool. Ready nodes are
// scheduled as independent pool tasks. A finishing node schedules the
// successors it releases, so no goroutine polls the graph.
type Executor struct {
	name        string
	id          string
	workerCount int
	checkCycles bool

	pool  workerpool.AsyncPool
	clock clock.Clock

	// ctx is passed to every node. It is canceled by Close after every
	// in-flight graph has completed.
	ctx    context.Context
	cancel context.CancelFunc
	errg   *errgroup.Group

	mu       sync.RWMutex
	closed   bool
	inFlight sync.WaitGroup

	submittedCounter prometheus.Counter
	completedCounter prometheus.Counter
	inFlightGauge    prometheus.Gauge
	durationHist     prometheus.Observer
}

// NewExecutor creates an Executor and starts its worker pool. A nil cfg
// means the default config.
func NewExecutor(cfg *config.ExecutorConfig) (*Executor, error) {
	if cfg == nil {
		cfg = config.GetDefaultExecutorConfig()
	}
	cfg = cfg.Clone()
	if err := cfg.ValidateAndAdjust(); err != nil {
		return nil, errors.Trace(err)
	}
	pool := workerpool.NewDefaultAsyncPool(cfg.Name, cfg.WorkerCount)
	return newExecutor(cfg, pool, clock.New()), nil
}

// newExecutor starts an executor on pool. cfg must be adjusted.
func newExecutor(cfg *config.ExecutorConfig, pool workerpool.AsyncPool, clk clock.Clock) *Executor {
	e := &Executor{
		name:             cfg.Name,
		id:               uuid.New().String(),
		workerCount:      cfg.WorkerCount,
		checkCycles:      cfg.CheckCycles,
		pool:             pool,
		clock:            clk,
		submittedCounter: graphsSubmitted.WithLabelValues(cfg.Name),
		completedCounter: graphsCompleted.WithLabelValues(cfg.Name),
		inFlightGauge:    graphsInFlight.WithLabelValues(cfg.Name),
		durationHist:     graphRunDuration.WithLabelValues(cfg.Name),
	}

	logger := log.L().With(zap.String("executor", e.name), zap.String("executorID", e.id))
	ctx, cancel := context.WithCancel(context.Background())
	e.ctx = logutil.NewContextWithLogger(ctx, logger)
	e.cancel = cancel

	e.errg = &errgroup.Group{}
	e.errg.Go(func() error {
		return e.pool.Run(ctx)
	})

	log.Info("taskgraph executor created",
		zap.String("executor", e.name),
		zap.String("executorID", e.id),
		zap.Int("workerCount", e.workerCount),
		zap.Bool("checkCycles", e.checkCycles))
	return e
}

// Name returns the name of the executor.
func (e *Executor) Name() string {
	return e.name
}

// ID returns the unique id of the executor instance.
func (e *Executor) ID() string {
	return e.id
}

// WorkerCount returns the number of pool workers.
func (e *Executor) WorkerCount() int {
	return e.workerCount
}

// Close waits for every in-flight graph to complete, then stops the
// worker pool. Submitting to a closed executor panics.
func (e *Executor) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()

	e.inFlight.Wait()
	e.cancel()
	err := e.errg.Wait()
	if err != nil && errors.Cause(err) != context.Canceled {
		log.Warn("taskgraph executor pool exited with error",
			zap.String("executor", e.name),
			zap.String("executorID", e.id),
			zap.Error(err))
	}
	log.Info("taskgraph executor closed",
		zap.String("executor", e.name),
		zap.String("executorID", e.id))
}

func (e *Executor) checkOpen() {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		log.Panic("executor is closed",
			zap.Error(cerrors.ErrExecutorClosed.GenWithStackByArgs(e.name)))
	}
}

// submit schedules every root of g and returns without waiting.
func (e *Executor) submit(g runnableGraph) {
	e.mu.RLock()
	if e.closed {
		e.mu.RUnlock()
		log.Panic("executor is closed",
			zap.Error(cerrors.ErrExecutorClosed.GenWithStackByArgs(e.name)))
	}
	e.inFlight.Add(1)
	e.mu.RUnlock()

	e.submittedCounter.Inc()
	e.inFlightGauge.Inc()
	log.Debug("graph submitted",
		zap.String("executor", e.name),
		zap.String("graph", g.graphName()))

	failpoint.Inject("executorBeforeSeed", func() {})

	// g may complete and be destroyed as soon as its last root is
	// scheduled, so read everything first.
	roots := g.roots()
	units := g.seedUnits()
	for _, idx := range roots {
		e.enqueue(g, idx)
	}
	if units > 0 || len(roots) == 0 {
		g.finish(e, units)
	}
}

// enqueue schedules node idx of g on the pool.
func (e *Executor) enqueue(g runnableGraph, idx uint32) {
	err := e.pool.Go(e.ctx, func() {
		g.runNode(e.ctx, e, idx)
	})
	if err != nil {
		log.Panic("failed to enqueue graph node",
			zap.Error(cerrors.WrapError(cerrors.ErrEnqueueFailed, err, e.name, idx, g.graphName())))
	}
}

// graphDone is called once per completed run.
func (e *Executor) graphDone(name string, startedAt clock.MonotonicTime) {
	e.durationHist.Observe(clock.Since(e.clock, startedAt).Seconds())
	e.completedCounter.Inc()
	e.inFlightGauge.Dec()
	log.Debug("graph completed",
		zap.String("executor", e.name),
		zap.String("graph", name))
	e.inFlight.Done()
}

var (
	defaultExecutorMu sync.Mutex
	defaultExecutor   *Executor
)

// CreateDefaultExecutor creates the process-wide executor used by
// Builder.Submit. It must be paired with DestroyDefaultExecutor.
func CreateDefaultExecutor(cfg *config.ExecutorConfig) (*Executor, error) {
	defaultExecutorMu.Lock()
	defer defaultExecutorMu.Unlock()

	if defaultExecutor != nil {
		return nil, cerrors.ErrExecutorAlreadyCreated.GenWithStackByArgs(defaultExecutor.name)
	}
	e, err := NewExecutor(cfg)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defaultExecutor = e
	return e, nil
}

// DestroyDefaultExecutor closes the process-wide executor. It panics if
// the executor has not been created.
func DestroyDefaultExecutor() {
	defaultExecutorMu.Lock()
	e := defaultExecutor
	defaultExecutor = nil
	defaultExecutorMu.Unlock()

	if e == nil {
		log.Panic("default executor has not been created",
			zap.Error(cerrors.ErrExecutorNotCreated.GenWithStackByArgs()))
	}
	e.Close()
}

// DefaultExecutor returns the process-wide executor. It panics if the
// executor has not been created.
func DefaultExecutor() *Executor {
	defaultExecutorMu.Lock()
	e := defaultExecutor
	defaultExecutorMu.Unlock()

	if e == nil {
		log.Panic("default executor has not been created",
			zap.Error(cerrors.ErrExecutorNotCreated.GenWithStackByArgs()))
	}
	return e
}
