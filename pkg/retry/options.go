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

package retry

import (
	"time"
)

const (
	defaultBackoffBase = 10 * time.Millisecond
	defaultBackoffCap  = 100 * time.Millisecond
	defaultMaxTries    = 3
)

// Option configures Do.
type Option func(*retryOptions)

// IsRetryableErr reports whether an operation failing with the error may
// be tried again.
type IsRetryableErr func(error) bool

type retryOptions struct {
	// maxTries is the number of calls, zero means no limit.
	maxTries    uint64
	backoffBase time.Duration
	backoffCap  time.Duration
	isRetryable IsRetryableErr
}

func newRetryOptions() *retryOptions {
	return &retryOptions{
		maxTries:    defaultMaxTries,
		backoffBase: defaultBackoffBase,
		backoffCap:  defaultBackoffCap,
		isRetryable: func(error) bool { return true },
	}
}

// WithBackoffBaseDelay sets the delay before the first retry.
func WithBackoffBaseDelay(delay time.Duration) Option {
	return func(o *retryOptions) {
		if delay > 0 {
			o.backoffBase = delay
		}
	}
}

// WithBackoffMaxDelay caps the delay between two tries.
func WithBackoffMaxDelay(delay time.Duration) Option {
	return func(o *retryOptions) {
		if delay > 0 {
			o.backoffCap = delay
		}
	}
}

// WithMaxTries limits the number of calls, the first one included.
func WithMaxTries(tries uint64) Option {
	return func(o *retryOptions) {
		if tries > 0 {
			o.maxTries = tries
		}
	}
}

// WithInfiniteTries retries until the operation succeeds or the context
// is done.
func WithInfiniteTries() Option {
	return func(o *retryOptions) {
		o.maxTries = 0
	}
}

// WithIsRetryableErr sets the retry predicate. Every error is retried by
// default.
func WithIsRetryableErr(f IsRetryableErr) Option {
	return func(o *retryOptions) {
		if f != nil {
			o.isRetryable = f
		}
	}
}
