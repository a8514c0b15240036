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
	"fmt"
	"io"
	"strings"

	cerrors "github.com/o3de/o3de-sub270/pkg/errors"
	"github.com/pingcap/errors"
)

// maxReportedCycleNodes bounds the node list of a cycle error.
const maxReportedCycleNodes = 16

// visit calls fn for every node, whether the graph is compiled or not.
func (b *Builder[T]) visit(fn func(idx int, desc descriptor, inbound uint32, links []uint32)) {
	if g := b.compiled; g != nil {
		for i := range g.nodes {
			n := &g.nodes[i]
			fn(i, n.desc, n.inbound, g.links[n.linkStart:n.linkEnd])
		}
		return
	}
	for i := range b.nodes {
		n := &b.nodes[i]
		fn(i, n.desc, n.inbound, n.links)
	}
}

// Validate checks that the links form a DAG. It returns ErrGraphCycle
// naming the nodes that could never become ready.
func (b *Builder[T]) Validate() error {
	b.checkOpen()

	n := b.Len()
	inbound := make([]uint32, n)
	links := make([][]uint32, n)
	descs := make([]descriptor, n)
	b.visit(func(idx int, desc descriptor, in uint32, l []uint32) {
		inbound[idx] = in
		links[idx] = l
		descs[idx] = desc
	})

	// Kahn's algorithm.
	queue := make([]uint32, 0, n)
	for i, in := range inbound {
		if in == 0 {
			queue = append(queue, uint32(i))
		}
	}
	visited := 0
	for len(queue) > 0 {
		cur := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		visited++
		for _, succ := range links[cur] {
			inbound[succ]--
			if inbound[succ] == 0 {
				queue = append(queue, succ)
			}
		}
	}
	if visited == n {
		return nil
	}

	stuck := make([]string, 0, maxReportedCycleNodes)
	for i, in := range inbound {
		if in == 0 {
			continue
		}
		if len(stuck) == maxReportedCycleNodes {
			stuck = append(stuck, "...")
			break
		}
		stuck = append(stuck, descs[i].label(i))
	}
	return errors.Trace(cerrors.ErrGraphCycle.GenWithStackByArgs(
		b.name, n-visited, strings.Join(stuck, ", ")))
}

// Dump writes a human readable description of the graph to w.
func (b *Builder[T]) Dump(w io.Writer) error {
	b.checkOpen()

	_, err := fmt.Fprintf(w, "graph %q kind=%s nodes=%d links=%d retained=%t submitted=%t\n",
		b.name, kindOf[T](), b.Len(), b.linkCount, b.retained, b.submitted.Load())
	if err != nil {
		return errors.Trace(err)
	}
	b.visit(func(idx int, desc descriptor, inbound uint32, links []uint32) {
		if err != nil {
			return
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "  %s", desc.label(idx))
		if desc.group != "" {
			fmt.Fprintf(&sb, " group=%s", desc.group)
		}
		fmt.Fprintf(&sb, " inbound=%d", inbound)
		if len(links) > 0 {
			sb.WriteString(" ->")
			for _, l := range links {
				fmt.Fprintf(&sb, " #%d", l)
			}
		}
		sb.WriteByte('\n')
		_, err = io.WriteString(w, sb.String())
	})
	return errors.Trace(err)
}

// label names a node in diagnostics.
func (d descriptor) label(idx int) string {
	if d.name == "" {
		return fmt.Sprintf("#%d", idx)
	}
	return fmt.Sprintf("#%d(%s)", idx, d.name)
}
