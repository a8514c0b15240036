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

package syncutil

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/o3de/o3de-sub270/pkg/leakutil"
	"github.com/pingcap/errors"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	leakutil.SetUpLeakTest(m)
}

func TestParkerUnparkWakesParked(t *testing.T) {
	t.Parallel()

	p := NewParker()
	ch := p.Prepare()
	require.Equal(t, 1, p.Sleepers())

	doneCh := make(chan error, 1)
	go func() {
		doneCh <- p.Park(context.Background(), ch)
	}()

	p.Unpark()
	select {
	case err := <-doneCh:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		require.FailNow(t, "parked goroutine was not woken up")
	}
	require.Equal(t, 0, p.Sleepers())
}

func TestParkerCancel(t *testing.T) {
	t.Parallel()

	p := NewParker()
	_ = p.Prepare()
	p.Cancel()
	require.Equal(t, 0, p.Sleepers())

	// Nobody sleeps, so the channel is not swapped.
	before := p.getCh()
	p.Unpark()
	require.Equal(t, before, p.getCh())
}

func TestParkerContextCanceled(t *testing.T) {
	t.Parallel()

	p := NewParker()
	ctx, cancel := context.WithCancel(context.Background())
	ch := p.Prepare()
	cancel()
	err := p.Park(ctx, ch)
	require.Equal(t, context.Canceled, errors.Cause(err))
	require.Equal(t, 0, p.Sleepers())
}

// TestParkerNoLostWakeup runs a producer against several consumers that
// follow the Prepare/recheck/Park protocol. Every item must be consumed.
func TestParkerNoLostWakeup(t *testing.T) {
	t.Parallel()

	const (
		numConsumers = 4
		numItems     = 20000
	)

	p := NewParker()
	var (
		pending  atomic.Int64
		consumed atomic.Int64
		wg       sync.WaitGroup
	)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tryTake := func() bool {
		for {
			n := pending.Load()
			if n == 0 {
				return false
			}
			if pending.CompareAndSwap(n, n-1) {
				return true
			}
		}
	}

	for i := 0; i < numConsumers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for consumed.Load() < numItems {
				if tryTake() {
					consumed.Add(1)
					continue
				}
				ch := p.Prepare()
				if pending.Load() > 0 || consumed.Load() >= numItems {
					p.Cancel()
					continue
				}
				if err := p.Park(ctx, ch); err != nil {
					return
				}
			}
			// Let the siblings observe the final count.
			p.Unpark()
		}()
	}

	for i := 0; i < numItems; i++ {
		pending.Add(1)
		p.Unpark()
	}

	wg.Wait()
	require.NoError(t, ctx.Err())
	require.Equal(t, int64(numItems), consumed.Load())
}
