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

package bench

import (
	"math/rand"

	"github.com/o3de/o3de-sub270/pkg/taskgraph"
)

// Graph shapes.
const (
	ShapeDiamond     = "diamond"
	ShapeChain       = "chain"
	ShapeWide        = "wide"
	ShapeRandom      = "random"
	ShapeParallelFor = "parallel-for"
)

// Shapes lists every supported shape.
var Shapes = []string{ShapeDiamond, ShapeChain, ShapeWide, ShapeRandom, ShapeParallelFor}

// randomLinksPerNode is the expected out degree of a random graph.
const randomLinksPerNode = 4

// buildShape populates b with n nodes linked in the given shape. Every
// node calls work with its index.
func buildShape(b *taskgraph.JobGraph, shape string, n int, rnd *rand.Rand, work func(i int)) {
	tokens := make([]taskgraph.Token[taskgraph.JobFunc], n)
	for i := range tokens {
		i := i
		tokens[i] = b.AddNode(func() { work(i) })
	}
	if n < 2 {
		return
	}

	switch shape {
	case ShapeDiamond:
		// One source fans out to the middle layer, which fans in to one sink.
		source, sink := tokens[0], tokens[n-1]
		if n == 2 {
			source.Precedes(sink)
			return
		}
		for _, mid := range tokens[1 : n-1] {
			source.Precedes(mid)
			sink.Follows(mid)
		}
	case ShapeChain:
		for i := 0; i+1 < n; i++ {
			tokens[i].Precedes(tokens[i+1])
		}
	case ShapeWide:
		tokens[0].Precedes(tokens[1:]...)
	case ShapeRandom:
		// Links only go forward, so the graph is acyclic.
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if rnd.Intn(n) < randomLinksPerNode {
					tokens[i].Precedes(tokens[j])
				}
			}
		}
	}
}
