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
	"context"

	"github.com/cenkalti/backoff/v4"
	"github.com/pingcap/errors"
)

// Do execute the specified function.
// By default, it tries 3 times unless it succeeds or got canceled.
func Do(ctx context.Context, operation func() error, opts ...Option) error {
	retryOption := setOptions(opts...)
	return run(ctx, operation, retryOption)
}

func setOptions(opts ...Option) *retryOptions {
	retryOption := newRetryOptions()
	for _, opt := range opts {
		opt(retryOption)
	}
	return retryOption
}

func run(ctx context.Context, op func() error, retryOption *retryOptions) error {
	select {
	case <-ctx.Done():
		return errors.Trace(ctx.Err())
	default:
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = retryOption.backoffBase
	exp.MaxInterval = retryOption.backoffCap
	// maxTries bounds the retries instead of the elapsed time.
	exp.MaxElapsedTime = 0
	exp.Reset()

	var b backoff.BackOff = exp
	if retryOption.maxTries > 0 {
		b = backoff.WithMaxRetries(exp, retryOption.maxTries-1)
	}
	b = backoff.WithContext(b, ctx)

	err := backoff.Retry(func() error {
		err := op()
		if err != nil && !retryOption.isRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, b)
	return errors.Trace(err)
}
