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
	"sync/atomic"
	"unsafe"

	"github.com/pingcap/errors"
)

// Parker puts idle goroutines to sleep until new work is published.
//
// A waiter must follow Prepare, recheck for work, then either Cancel or
// Park. A publisher must make the work visible before calling Unpark.
// Under this protocol a waiter never sleeps through a wakeup.
type Parker struct {
	sleepers atomic.Int32
	ch       unsafe.Pointer
}

// NewParker creates a new Parker.
func NewParker() *Parker {
	ch := make(chan struct{})
	return &Parker{
		ch: unsafe.Pointer(&ch),
	}
}

// Prepare registers the caller as a sleeper and returns the channel that
// the next Unpark closes.
func (p *Parker) Prepare() <-chan struct{} {
	p.sleepers.Add(1)
	return p.getCh()
}

// Cancel unregisters a caller that found work after Prepare.
func (p *Parker) Cancel() {
	p.sleepers.Add(-1)
}

// Park blocks until ch is closed or ctx is done.
func (p *Parker) Park(ctx context.Context, ch <-chan struct{}) error {
	defer p.sleepers.Add(-1)
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return errors.Trace(ctx.Err())
	}
}

// Unpark wakes up all the parked goroutines. It is a no-op when nobody
// has prepared to sleep.
func (p *Parker) Unpark() {
	if p.sleepers.Load() == 0 {
		return
	}
	p.broadcast()
}

// Sleepers returns the number of goroutines between Prepare and wakeup.
func (p *Parker) Sleepers() int {
	return int(p.sleepers.Load())
}

func (p *Parker) getCh() <-chan struct{} {
	ptr := atomic.LoadPointer(&p.ch)
	return *((*chan struct{})(ptr))
}

func (p *Parker) broadcast() {
	ch := make(chan struct{})
	old := atomic.SwapPointer(&p.ch, unsafe.Pointer(&ch))
	close(*(*chan struct{})(old))
}
