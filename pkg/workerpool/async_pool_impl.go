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
	"context"
	"sync"
	"time"

	"github.com/o3de/o3de-sub270/pkg/deque"
	cerrors "github.com/o3de/o3de-sub270/pkg/errors"
	"github.com/o3de/o3de-sub270/pkg/retry"
	"github.com/o3de/o3de-sub270/pkg/syncutil"
	"github.com/pingcap/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

const (
	backoffBaseDelay = time.Millisecond
	maxTries         = 25
)

// stealingAsyncPoolImpl is an AsyncPool in which every worker owns a run
// queue. Submitted tasks are spread over the queues round-robin. A worker
// runs its own queue from the front and, once it is empty, steals from the
// back of the other queues before parking.
type stealingAsyncPoolImpl struct {
	name         string
	workers      []*asyncWorker
	nextWorkerID atomic.Uint32
	isRunning    atomic.Bool
	runningLock  sync.RWMutex
	parker       *syncutil.Parker

	workersGauge     prometheus.Gauge
	submittedCounter prometheus.Counter
	stolenCounter    prometheus.Counter
}

// NewDefaultAsyncPool creates a new AsyncPool that uses the default implementation
func NewDefaultAsyncPool(name string, numWorkers int) AsyncPool {
	return newStealingAsyncPoolImpl(name, numWorkers)
}

func newStealingAsyncPoolImpl(name string, numWorkers int) *stealingAsyncPoolImpl {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	p := &stealingAsyncPoolImpl{
		name:             name,
		workers:          make([]*asyncWorker, numWorkers),
		parker:           syncutil.NewParker(),
		workersGauge:     totalWorkers.WithLabelValues(name),
		submittedCounter: submittedTasks.WithLabelValues(name),
		stolenCounter:    stolenTasks.WithLabelValues(name),
	}
	for i := range p.workers {
		p.workers[i] = &asyncWorker{
			id:    i,
			pool:  p,
			local: deque.NewDeque[func()](),
		}
	}
	return p
}

func (p *stealingAsyncPoolImpl) Go(ctx context.Context, f func()) error {
	if p.doGo(ctx, f) == nil {
		return nil
	}

	err := retry.Do(ctx, func() error {
		return errors.Trace(p.doGo(ctx, f))
	}, retry.WithBackoffBaseDelay(backoffBaseDelay), retry.WithMaxTries(maxTries), retry.WithIsRetryableErr(isRetryable))
	return errors.Trace(err)
}

func isRetryable(err error) bool {
	return cerrors.IsRetryableError(err)
}

func (p *stealingAsyncPoolImpl) doGo(ctx context.Context, f func()) error {
	select {
	case <-ctx.Done():
		return errors.Trace(ctx.Err())
	default:
	}

	p.runningLock.RLock()
	defer p.runningLock.RUnlock()

	if !p.isRunning.Load() {
		return cerrors.ErrAsyncPoolExited.GenWithStackByArgs(p.name)
	}

	worker := p.workers[int(p.nextWorkerID.Inc()%uint32(len(p.workers)))]
	worker.local.PushBack(f)
	p.submittedCounter.Inc()
	// The task is visible in the queue before any parked worker is woken.
	p.parker.Unpark()
	return nil
}

func (p *stealingAsyncPoolImpl) Run(ctx context.Context) error {
	p.runningLock.Lock()
	p.isRunning.Store(true)
	p.runningLock.Unlock()

	defer func() {
		p.runningLock.Lock()
		p.isRunning.Store(false)
		p.runningLock.Unlock()
	}()

	p.workersGauge.Set(float64(len(p.workers)))
	defer p.workersGauge.Set(0)

	errg, ctx := errgroup.WithContext(ctx)
	for _, worker := range p.workers {
		workerFinal := worker
		errg.Go(func() error {
			return workerFinal.run(ctx)
		})
	}

	return errors.Trace(errg.Wait())
}

// pending returns the number of queued tasks over all workers.
func (p *stealingAsyncPoolImpl) pending() int {
	var n int
	for _, w := range p.workers {
		n += w.local.Len()
	}
	return n
}

type asyncWorker struct {
	id    int
	pool  *stealingAsyncPoolImpl
	local *deque.Deque[func()]
}

func (w *asyncWorker) run(ctx context.Context) error {
	parker := w.pool.parker
	for {
		if err := ctx.Err(); err != nil {
			return errors.Trace(err)
		}
		if f, ok := w.next(); ok {
			f()
			continue
		}

		ch := parker.Prepare()
		// Recheck after registering as a sleeper so that a task pushed
		// concurrently is either seen here or wakes us up.
		if f, ok := w.next(); ok {
			parker.Cancel()
			f()
			continue
		}
		if err := parker.Park(ctx, ch); err != nil {
			return err
		}
	}
}

// next pops a task from the worker's own queue or steals one.
func (w *asyncWorker) next() (func(), bool) {
	if f, ok := w.local.PopFront(); ok {
		return f, true
	}
	return w.steal()
}

func (w *asyncWorker) steal() (func(), bool) {
	workers := w.pool.workers
	for i := 1; i < len(workers); i++ {
		victim := workers[(w.id+i)%len(workers)]
		if f, ok := victim.local.PopBack(); ok {
			w.pool.stolenCounter.Inc()
			return f, true
		}
	}
	return nil, false
}
