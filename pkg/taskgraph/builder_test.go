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
	"bytes"
	"testing"

	cerrors "github.com/o3de/o3de-sub270/pkg/errors"
	"github.com/pingcap/errors"
	"github.com/stretchr/testify/require"
)

func noop() {}

func TestBuilderAddNodeAndLinks(t *testing.T) {
	t.Parallel()

	b := NewJobGraph("links")
	require.Equal(t, "links", b.Name())
	require.False(t, b.Retained())
	require.Equal(t, 0, b.Len())

	a := b.AddNode(noop, WithName("a"))
	x := b.AddNode(noop, WithName("x"))
	y := b.AddNode(noop, WithName("y"))
	z := b.AddNode(noop, WithName("z"), WithGroup("sink"))
	require.Equal(t, 0, a.Index())
	require.Equal(t, 3, z.Index())

	a.Precedes(x, y)
	z.Follows(x, y)
	require.Equal(t, 4, b.Len())
	require.Equal(t, 4, b.LinkCount())

	require.Equal(t, []uint32{1, 2}, b.nodes[0].links)
	require.Equal(t, []uint32{3}, b.nodes[1].links)
	require.Equal(t, []uint32{3}, b.nodes[2].links)
	require.Equal(t, uint32(0), b.nodes[0].inbound)
	require.Equal(t, uint32(1), b.nodes[1].inbound)
	require.Equal(t, uint32(2), b.nodes[3].inbound)
	require.Equal(t, "sink", b.nodes[3].desc.group)
}

func TestCompiledGraphLayout(t *testing.T) {
	t.Parallel()

	b := NewJobGraph("layout", WithRetained())
	a := b.AddNode(noop)
	x := b.AddNode(noop)
	y := b.AddNode(noop)
	z := b.AddNode(noop)
	w := b.AddNode(noop)
	a.Precedes(x, y)
	x.Precedes(z)
	y.Precedes(z)

	g := newCompiledGraph(b)
	require.Len(t, g.links, b.LinkCount())
	require.Equal(t, []uint32{0, 4}, g.roots())
	require.Equal(t, []uint32{1, 2}, g.links[g.nodes[0].linkStart:g.nodes[0].linkEnd])
	require.Equal(t, []uint32{3}, g.links[g.nodes[1].linkStart:g.nodes[1].linkEnd])
	require.Equal(t, g.nodes[3].linkStart, g.nodes[3].linkEnd)
	require.Equal(t, int32(1), g.refs.Load())
	require.Same(t, b, g.parent.Load())
	require.Equal(t, int64(1), g.seedUnits())
	_ = w

	g.prepare(nil, 0)
	require.Equal(t, int64(6), g.remaining.Load())
	require.Equal(t, int32(2), g.nodes[3].deps.Load())
	require.Equal(t, int32(2), g.refs.Load())

	// The builder hold and the run hold are released from either side.
	require.Equal(t, int32(1), g.release())
	require.Equal(t, int32(0), g.release())
	g.destroy()
	require.True(t, g.destroyed.Load())
	require.Nil(t, g.nodes)
	require.Panics(t, g.destroy)
}

func TestTokenMisusePanics(t *testing.T) {
	t.Parallel()

	b := NewJobGraph("misuse")
	other := NewJobGraph("other")
	a := b.AddNode(noop)
	foreign := other.AddNode(noop)

	require.PanicsWithValue(t, "tokens belong to different graphs", func() {
		a.Precedes(foreign)
	})
	require.PanicsWithValue(t, "invalid token", func() {
		Token[JobFunc]{}.Precedes(a)
	})

	b.Reset()
	stale := a
	c := b.AddNode(noop)
	require.PanicsWithValue(t, "invalid token", func() {
		stale.Precedes(c)
	})
	require.PanicsWithValue(t, "invalid token", func() {
		c.Precedes(stale)
	})
	require.Equal(t, 0, b.LinkCount())
}

func TestRetainedBuilderMisusePanics(t *testing.T) {
	t.Parallel()

	e := newTestExecutor(t, "retained-misuse", 2)
	b := NewJobGraph("retained-misuse", WithRetained())
	release := make(chan struct{})
	a := b.AddNode(func() { <-release })
	c := b.AddNode(noop)
	a.Precedes(c)

	ev := NewEvent()
	b.SubmitOnExecutor(e, ev)
	require.True(t, b.IsSubmitted())
	require.Equal(t, 2, b.Len())

	require.PanicsWithValue(t, "graph is submitted", func() {
		b.AddNode(noop)
	})
	require.PanicsWithValue(t, "graph is submitted", func() {
		a.Precedes(c)
	})
	require.PanicsWithValue(t, "graph is submitted", func() {
		b.SubmitOnExecutor(e, nil)
	})
	require.PanicsWithValue(t, "graph cannot be reset while in flight", b.Reset)

	close(release)
	waitEvent(t, ev)
	require.False(t, b.IsSubmitted())

	// Compiled but idle: links are frozen until Reset.
	require.PanicsWithValue(t, "graph is compiled", func() {
		b.AddNode(noop)
	})
	require.PanicsWithValue(t, "graph is compiled", func() {
		a.Precedes(c)
	})

	g := b.compiled
	b.Reset()
	require.Nil(t, b.compiled)
	require.Equal(t, 0, b.Len())
	require.Eventually(t, g.destroyed.Load, testTimeout, tick)
}

func TestClosedBuilderPanics(t *testing.T) {
	t.Parallel()

	b := NewJobGraph("closed")
	a := b.AddNode(noop)
	b.Close()
	b.Close()

	require.PanicsWithValue(t, "graph is closed", func() {
		b.AddNode(noop)
	})
	require.PanicsWithValue(t, "graph is closed", func() {
		a.Precedes(a)
	})
	require.PanicsWithValue(t, "graph is closed", b.Reset)
	require.PanicsWithValue(t, "graph is closed", func() {
		_ = b.Validate()
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	b := NewJobGraph("dag")
	require.NoError(t, b.Validate())

	a := b.AddNode(noop, WithName("a"))
	x := b.AddNode(noop, WithName("x"))
	y := b.AddNode(noop, WithName("y"))
	a.Precedes(x, y)
	x.Precedes(y)
	require.NoError(t, b.Validate())

	b = NewJobGraph("cyclic")
	a = b.AddNode(noop, WithName("a"))
	x = b.AddNode(noop, WithName("x"))
	y = b.AddNode(noop, WithName("y"))
	tail := b.AddNode(noop)
	a.Precedes(x)
	x.Precedes(y)
	y.Precedes(x)
	y.Precedes(tail)

	err := b.Validate()
	require.True(t, cerrors.ErrGraphCycle.Equal(errors.Cause(err)))
	require.Regexp(t, `graph cyclic contains a dependency cycle among 3 nodes: #1\(x\), #2\(y\), #3`, err)

	b = NewJobGraph("self")
	s := b.AddNode(noop)
	s.Precedes(s)
	require.Regexp(t, "among 1 nodes: #0", b.Validate())
}

func TestValidateReportsBoundedNodeList(t *testing.T) {
	t.Parallel()

	b := NewJobGraph("ring")
	first := b.AddNode(noop)
	prev := first
	for i := 0; i < 2*maxReportedCycleNodes; i++ {
		cur := b.AddNode(noop)
		prev.Precedes(cur)
		prev = cur
	}
	prev.Precedes(first)

	err := b.Validate()
	require.Regexp(t, `among 33 nodes: .*, \.\.\.$`, err.Error())
}

func TestDump(t *testing.T) {
	t.Parallel()

	b := NewTaskGraph("dump")
	a := b.AddNode(nil, WithName("load"), WithGroup("io"))
	c := b.AddNode(nil)
	a.Precedes(c)

	var buf bytes.Buffer
	require.NoError(t, b.Dump(&buf))
	require.Equal(t,
		"graph \"dump\" kind=task nodes=2 links=1 retained=false submitted=false\n"+
			"  #0(load) group=io inbound=0 -> #1\n"+
			"  #1 inbound=1\n",
		buf.String())
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	require.Equal(t, kindJob, kindOf[JobFunc]())
	require.Equal(t, kindTask, kindOf[TaskFunc]())
	require.Equal(t, kindCustom, kindOf[*recordWork]())
}
