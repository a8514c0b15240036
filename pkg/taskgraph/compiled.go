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

	"github.com/o3de/o3de-sub270/pkg/clock"
	cerrors "github.com/o3de/o3de-sub270/pkg/errors"
	"github.com/pingcap/log"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// runnableGraph is a compiled graph as seen by the executor.
type runnableGraph interface {
	graphName() string
	// roots returns the nodes without predecessors.
	roots() []uint32
	// seedUnits is the number of remaining units the executor retires
	// after it has scheduled the roots.
	seedUnits() int64
	runNode(ctx context.Context, e *Executor, idx uint32)
	finish(e *Executor, units int64)
}

// compiledGraph is the executable form of a Builder.
//
// It is shared by the builder of a retained graph and by the runs in
// flight. refs counts the holders: one for the retained builder and one
// per run. Whoever drops refs to zero destroys the graph.
type compiledGraph[T Work] struct {
	name     string
	retained bool

	nodes     []compiledNode[T]
	links     []uint32
	rootNodes []uint32

	// remaining is the number of units left in the current run: one per
	// node, plus one for a retained graph retired after seeding.
	remaining atomic.Int64
	refs      atomic.Int32
	destroyed atomic.Bool

	// event and startedAt belong to the current run. They are written by
	// prepare and read once by complete.
	event     Signaler
	startedAt clock.MonotonicTime

	// parent is the owning builder of a retained graph.
	parent atomic.Pointer[Builder[T]]

	nodesCounter     prometheus.Counter
	destroyedCounter prometheus.Counter
}

// newCompiledGraph moves the nodes out of b and flattens their links.
func newCompiledGraph[T Work](b *Builder[T]) *compiledGraph[T] {
	kind := kindOf[T]()
	g := &compiledGraph[T]{
		name:             b.name,
		retained:         b.retained,
		nodes:            make([]compiledNode[T], len(b.nodes)),
		links:            make([]uint32, 0, b.linkCount),
		nodesCounter:     nodesExecuted.WithLabelValues(kind),
		destroyedCounter: graphsDestroyed.WithLabelValues(kind),
	}
	for i := range b.nodes {
		src := &b.nodes[i]
		dst := &g.nodes[i]
		dst.work = src.work
		dst.desc = src.desc
		dst.inbound = src.inbound
		dst.linkStart = uint32(len(g.links))
		g.links = append(g.links, src.links...)
		dst.linkEnd = uint32(len(g.links))
		if src.inbound == 0 {
			g.rootNodes = append(g.rootNodes, uint32(i))
		}
	}
	if b.retained {
		g.refs.Store(1)
		g.parent.Store(b)
	}
	graphsCompiled.WithLabelValues(kind).Inc()
	return g
}

// prepare arms the graph for a new run.
func (g *compiledGraph[T]) prepare(ev Signaler, startedAt clock.MonotonicTime) {
	g.event = ev
	g.startedAt = startedAt
	remaining := int64(len(g.nodes))
	if g.retained {
		remaining++
	}
	g.remaining.Store(remaining)
	for i := range g.nodes {
		g.nodes[i].init()
	}
	g.refs.Inc()
}

func (g *compiledGraph[T]) graphName() string {
	return g.name
}

func (g *compiledGraph[T]) roots() []uint32 {
	return g.rootNodes
}

func (g *compiledGraph[T]) seedUnits() int64 {
	if g.retained {
		return 1
	}
	return 0
}

// runNode runs one node and schedules the successors it releases.
func (g *compiledGraph[T]) runNode(ctx context.Context, e *Executor, idx uint32) {
	n := &g.nodes[idx]
	n.work.Run(ctx)
	for _, succ := range g.links[n.linkStart:n.linkEnd] {
		if g.nodes[succ].deps.Dec() == 0 {
			e.enqueue(g, succ)
		}
	}
	g.nodesCounter.Inc()
	g.finish(e, 1)
}

// finish retires units of the current run and completes the run when
// nothing remains. The graph must not be touched after finish returns.
func (g *compiledGraph[T]) finish(e *Executor, units int64) {
	if g.remaining.Sub(units) != 0 {
		return
	}
	g.complete(e)
}

func (g *compiledGraph[T]) complete(e *Executor) {
	ev := g.event
	g.event = nil
	startedAt := g.startedAt
	name := g.name

	// Clearing submitted hands the graph back to its builder, which may
	// prepare the next run from here on.
	if parent := g.parent.Load(); parent != nil {
		parent.submitted.Store(false)
	}
	if ev != nil {
		ev.Signal()
	}
	if g.release() == 0 {
		g.destroy()
	}
	e.graphDone(name, startedAt)
}

// release drops one reference and returns the references left.
func (g *compiledGraph[T]) release() int32 {
	return g.refs.Dec()
}

// destroy drops everything the graph holds. It runs exactly once.
func (g *compiledGraph[T]) destroy() {
	if !g.destroyed.CompareAndSwap(false, true) {
		log.Panic("compiled graph destroyed twice",
			zap.Error(cerrors.ErrGraphDestroyed.GenWithStackByArgs(g.name)))
	}
	g.nodes = nil
	g.links = nil
	g.rootNodes = nil
	g.event = nil
	g.parent.Store(nil)
	g.destroyedCounter.Inc()
}
