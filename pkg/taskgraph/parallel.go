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
	"fmt"

	"github.com/pingcap/errors"
)

// chunksPerWorker is the number of chunks per worker ParallelFor aims at
// when no grain is given.
const chunksPerWorker = 4

// ParallelFor calls fn for every i in [begin, end) on e and waits for the
// calls to return. The range is split into chunks of grain indices, each
// run as one job. A non-positive grain picks one from the worker count.
//
// If ctx is done first, ParallelFor returns its error while the chunks
// already scheduled keep running.
func ParallelFor(ctx context.Context, e *Executor, begin, end, grain int, fn func(i int)) error {
	if end <= begin {
		return nil
	}
	if grain <= 0 {
		grain = max(1, (end-begin)/(e.WorkerCount()*chunksPerWorker))
	}

	b := NewJobGraph(fmt.Sprintf("parallel-for[%d,%d)", begin, end))
	defer b.Close()
	for lo := begin; lo < end; lo += grain {
		lo, hi := lo, min(lo+grain, end)
		b.AddNode(func() {
			for i := lo; i < hi; i++ {
				fn(i)
			}
		})
	}

	ev := NewEvent()
	b.SubmitOnExecutor(e, ev)
	return errors.Trace(ev.Wait(ctx))
}
