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
	"go.uber.org/atomic"
)

// NodeOption configures the descriptor of a node.
type NodeOption func(*descriptor)

// WithName names a node in diagnostics.
func WithName(name string) NodeOption {
	return func(d *descriptor) {
		d.name = name
	}
}

// WithGroup tags a node with a group in diagnostics.
func WithGroup(group string) NodeOption {
	return func(d *descriptor) {
		d.group = group
	}
}

type descriptor struct {
	name  string
	group string
}

// node is a unit of work while the graph is being built.
type node[T Work] struct {
	work T
	desc descriptor
	// links are the indices of the nodes that wait on this one.
	links []uint32
	// inbound is the number of links pointing at this node.
	inbound uint32
}

// compiledNode is a node moved into a compiled graph.
type compiledNode[T Work] struct {
	work T
	desc descriptor

	// [linkStart, linkEnd) is the range of the successors in compiledGraph.links.
	linkStart uint32
	linkEnd   uint32

	inbound uint32
	// deps is the number of predecessors not yet completed in the current run.
	deps atomic.Int32
}

// init resets the dependency count for a new run.
func (n *compiledNode[T]) init() {
	n.deps.Store(int32(n.inbound))
}
