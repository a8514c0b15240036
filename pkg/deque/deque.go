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

package deque

import (
	"sync"

	"github.com/edwingeng/deque"
)

// Deque is a double-ended queue safe for concurrent use.
// The owner of a deque works on its front while other goroutines take
// from its back.
//
//nolint:structcheck
type Deque[T any] struct {
	// mu protects deque, because it is not thread-safe.
	mu    sync.Mutex
	deque deque.Deque
}

// NewDeque creates a new Deque instance.
func NewDeque[T any]() *Deque[T] {
	return &Deque[T]{
		deque: deque.NewDeque(),
	}
}

// PushBack appends elem to the back of the deque.
func (d *Deque[T]) PushBack(elem T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.deque.PushBack(elem)
}

// PushFront prepends elem to the front of the deque.
func (d *Deque[T]) PushFront(elem T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.deque.PushFront(elem)
}

// PopFront removes and returns the front element.
func (d *Deque[T]) PopFront() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.deque.Empty() {
		var noVal T
		return noVal, false
	}
	return d.deque.PopFront().(T), true
}

// PopBack removes and returns the back element.
func (d *Deque[T]) PopBack() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.deque.Empty() {
		var noVal T
		return noVal, false
	}
	return d.deque.PopBack().(T), true
}

// Front returns the front element without removing it.
func (d *Deque[T]) Front() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.deque.Empty() {
		var noVal T
		return noVal, false
	}
	return d.deque.Front().(T), true
}

// Len returns the number of elements.
func (d *Deque[T]) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.deque.Len()
}

// Empty returns whether the deque holds no element.
func (d *Deque[T]) Empty() bool {
	return d.Len() == 0
}
