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
	cerrors "github.com/o3de/o3de-sub270/pkg/errors"
	"github.com/pingcap/log"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// BuilderOption configures a Builder.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	retained bool
}

// WithRetained makes the builder keep its compiled graph across runs, so
// that the same graph can be submitted again once the previous run is
// complete.
func WithRetained() BuilderOption {
	return func(o *builderOptions) {
		o.retained = true
	}
}

// Builder collects nodes and precedence links and submits them to an
// Executor as one graph.
//
// A Builder is used by one goroutine at a time. A one-shot builder hands
// its graph over to the executor on submission and is empty afterwards.
// A retained builder keeps the compiled graph and can resubmit it when
// the previous run is complete. Misuse is a programming error and panics.
type Builder[T Work] struct {
	name     string
	retained bool
	closed   bool

	nodes     []node[T]
	linkCount int
	// generation is bumped on every reset to invalidate old tokens.
	generation uint64

	// submitted is set while a run of the retained graph is in flight. It
	// is cleared by the worker that completes the run.
	submitted atomic.Bool
	compiled  *compiledGraph[T]
}

// NewBuilder creates an empty Builder.
func NewBuilder[T Work](name string, opts ...BuilderOption) *Builder[T] {
	o := &builderOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return &Builder[T]{
		name:     name,
		retained: o.retained,
	}
}

// Name returns the name of the graph.
func (b *Builder[T]) Name() string {
	return b.name
}

// Retained returns whether the builder keeps its graph across runs.
func (b *Builder[T]) Retained() bool {
	return b.retained
}

// IsSubmitted returns whether a run of the retained graph is in flight.
func (b *Builder[T]) IsSubmitted() bool {
	return b.submitted.Load()
}

// Len returns the number of nodes.
func (b *Builder[T]) Len() int {
	if b.compiled != nil {
		return len(b.compiled.nodes)
	}
	return len(b.nodes)
}

// LinkCount returns the number of precedence links.
func (b *Builder[T]) LinkCount() int {
	return b.linkCount
}

// AddNode stores work as a new node and returns its token.
func (b *Builder[T]) AddNode(work T, opts ...NodeOption) Token[T] {
	b.checkMutable()

	n := node[T]{work: work}
	for _, opt := range opts {
		opt(&n.desc)
	}
	b.nodes = append(b.nodes, n)
	return Token[T]{
		builder:    b,
		idx:        uint32(len(b.nodes) - 1),
		generation: b.generation,
	}
}

// addLink records that from precedes to.
func (b *Builder[T]) addLink(from, to uint32) {
	b.nodes[from].links = append(b.nodes[from].links, to)
	b.nodes[to].inbound++
	b.linkCount++
}

// Submit submits the graph to the default executor. ev, if not nil, is
// signaled once when every node has run.
func (b *Builder[T]) Submit(ev Signaler) {
	b.SubmitOnExecutor(DefaultExecutor(), ev)
}

// SubmitOnExecutor submits the graph to e and returns without waiting.
// ev, if not nil, is signaled once when every node has run.
func (b *Builder[T]) SubmitOnExecutor(e *Executor, ev Signaler) {
	b.checkOpen()
	e.checkOpen()
	if b.submitted.Load() {
		log.Panic("graph is submitted",
			zap.Error(cerrors.ErrGraphSubmitted.GenWithStackByArgs(b.name)))
	}

	if b.compiled == nil {
		if e.checkCycles {
			if err := b.Validate(); err != nil {
				log.Panic("graph contains a dependency cycle", zap.Error(err))
			}
		}
		b.compiled = newCompiledGraph(b)
		b.nodes = nil
	}

	g := b.compiled
	g.prepare(ev, e.clock.Mono())
	if b.retained {
		b.submitted.Store(true)
		e.submit(g)
		return
	}

	// The run owns the one-shot graph from here on.
	b.compiled = nil
	b.Reset()
	e.submit(g)
}

// Reset discards the nodes, the links and the compiled graph, and
// invalidates every token issued so far. It panics if a run of the
// retained graph is in flight.
func (b *Builder[T]) Reset() {
	b.checkOpen()
	if b.submitted.Load() {
		log.Panic("graph cannot be reset while in flight",
			zap.Error(cerrors.ErrGraphInFlight.GenWithStackByArgs(b.name)))
	}
	b.dropCompiled()
	b.nodes = nil
	b.linkCount = 0
	b.generation++
}

// Close releases the builder. A retained run still in flight completes
// and destroys the graph by itself. The builder must not be used after
// Close.
func (b *Builder[T]) Close() {
	if b.closed {
		return
	}
	if g := b.compiled; g != nil {
		// Detach first so that an in-flight run no longer writes back.
		g.parent.Store(nil)
		b.submitted.Store(false)
	}
	b.dropCompiled()
	b.nodes = nil
	b.linkCount = 0
	b.generation++
	b.closed = true
}

// dropCompiled releases the builder's reference on the compiled graph.
func (b *Builder[T]) dropCompiled() {
	g := b.compiled
	if g == nil {
		return
	}
	b.compiled = nil
	if g.release() == 0 {
		g.destroy()
	}
}

func (b *Builder[T]) checkOpen() {
	if b.closed {
		log.Panic("graph is closed",
			zap.Error(cerrors.ErrGraphClosed.GenWithStackByArgs(b.name)))
	}
}

func (b *Builder[T]) checkMutable() {
	b.checkOpen()
	if b.submitted.Load() {
		log.Panic("graph is submitted",
			zap.Error(cerrors.ErrGraphSubmitted.GenWithStackByArgs(b.name)))
	}
	if b.compiled != nil {
		log.Panic("graph is compiled",
			zap.Error(cerrors.ErrGraphCompiled.GenWithStackByArgs(b.name)))
	}
}
