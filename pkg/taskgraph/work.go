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
)

// Work is a unit of work stored in a graph node.
type Work interface {
	// Run is invoked exactly once per graph run, after every predecessor
	// of the node has returned.
	Run(ctx context.Context)
}

// JobFunc is a lightweight job that needs no execution context.
type JobFunc func()

// Run implements Work.
func (f JobFunc) Run(context.Context) {
	f()
}

// TaskFunc is a coarse task that receives the execution context of the
// executor. The context carries a logger, see logutil.FromContext.
type TaskFunc func(ctx context.Context)

// Run implements Work.
func (f TaskFunc) Run(ctx context.Context) {
	f(ctx)
}

// JobGraph is a graph of lightweight jobs.
type JobGraph = Builder[JobFunc]

// TaskGraph is a graph of context aware tasks.
type TaskGraph = Builder[TaskFunc]

// NewJobGraph creates an empty job graph.
func NewJobGraph(name string, opts ...BuilderOption) *JobGraph {
	return NewBuilder[JobFunc](name, opts...)
}

// NewTaskGraph creates an empty task graph.
func NewTaskGraph(name string, opts ...BuilderOption) *TaskGraph {
	return NewBuilder[TaskFunc](name, opts...)
}

const (
	kindJob    = "job"
	kindTask   = "task"
	kindCustom = "custom"
)

// kindOf returns the metric label of a work type.
func kindOf[T Work]() string {
	var zero T
	switch any(zero).(type) {
	case JobFunc:
		return kindJob
	case TaskFunc:
		return kindTask
	default:
		return kindCustom
	}
}
