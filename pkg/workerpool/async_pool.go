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

package workerpool

import "context"

// AsyncPool runs submitted functions on a fixed set of workers. The order
// in which the functions run is not specified.
type AsyncPool interface {
	// Go queues f and returns without waiting for it. ctx only bounds the
	// submission. A function accepted by Go runs exactly once, provided
	// that Run keeps running. Running functions may call Go.
	Go(ctx context.Context, f func()) error

	// Run starts the workers and blocks until ctx is done. Functions still
	// queued at that point are dropped.
	Run(ctx context.Context) error
}
