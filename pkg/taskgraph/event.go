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

	cerrors "github.com/o3de/o3de-sub270/pkg/errors"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Signaler is notified once when a graph run is complete. Signal may be
// called from any goroutine.
type Signaler interface {
	Signal()
}

// SignalFunc adapts a function to a Signaler.
type SignalFunc func()

// Signal implements Signaler.
func (f SignalFunc) Signal() {
	f()
}

// Event is a one-shot completion event.
type Event struct {
	signaled atomic.Bool
	doneCh   chan struct{}
}

// NewEvent creates an unsignaled Event.
func NewEvent() *Event {
	return &Event{doneCh: make(chan struct{})}
}

// Signal marks the event as signaled and wakes up every waiter. It panics
// if the event is already signaled.
func (e *Event) Signal() {
	if !e.signaled.CompareAndSwap(false, true) {
		log.Panic("completion event signaled twice",
			zap.Error(cerrors.ErrEventSignaled.GenWithStackByArgs()))
	}
	close(e.doneCh)
}

// Wait blocks until the event is signaled or ctx is done.
func (e *Event) Wait(ctx context.Context) error {
	select {
	case <-e.doneCh:
		return nil
	case <-ctx.Done():
		return errors.Trace(ctx.Err())
	}
}

// Done returns a channel closed when the event is signaled.
func (e *Event) Done() <-chan struct{} {
	return e.doneCh
}

// IsSignaled reports whether Signal has been called.
func (e *Event) IsSignaled() bool {
	return e.signaled.Load()
}
