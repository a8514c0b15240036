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
	"go.uber.org/zap"
)

// Token refers to a node of a Builder by index. It is valid until the
// builder is reset or closed.
type Token[T Work] struct {
	builder    *Builder[T]
	idx        uint32
	generation uint64
}

// Index returns the position of the node in its graph.
func (t Token[T]) Index() int {
	return int(t.idx)
}

// Precedes declares that the node runs before each of others.
// Self links and cycles are not diagnosed here and deadlock the run,
// see Builder.Validate.
func (t Token[T]) Precedes(others ...Token[T]) {
	b := t.builder
	if b == nil {
		t.invalid()
	}
	b.checkMutable()
	t.check()
	for _, other := range others {
		if other.builder != b {
			log.Panic("tokens belong to different graphs",
				zap.Error(cerrors.ErrTokenForeignGraph.GenWithStackByArgs(b.name, other.graphName())))
		}
		other.check()
		b.addLink(t.idx, other.idx)
	}
}

// Follows declares that the node runs after each of others.
func (t Token[T]) Follows(others ...Token[T]) {
	for _, other := range others {
		other.Precedes(t)
	}
}

// check panics unless the token refers to a node of its builder's
// current generation.
func (t Token[T]) check() {
	b := t.builder
	if b == nil || t.generation != b.generation || int(t.idx) >= len(b.nodes) {
		t.invalid()
	}
}

func (t Token[T]) invalid() {
	log.Panic("invalid token",
		zap.Error(cerrors.ErrTokenInvalid.GenWithStackByArgs(t.idx, t.graphName())))
}

func (t Token[T]) graphName() string {
	if t.builder == nil {
		return "<nil>"
	}
	return t.builder.name
}
