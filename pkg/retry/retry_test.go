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
	"testing"
	"time"

	"github.com/o3de/o3de-sub270/pkg/leakutil"
	"github.com/pingcap/errors"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	leakutil.SetUpLeakTest(m)
}

func TestDoShouldRetryAtMostSpecifiedTimes(t *testing.T) {
	t.Parallel()

	var callCount int
	f := func() error {
		callCount++
		return errors.New("test")
	}

	err := Do(context.Background(), f, WithMaxTries(3), WithBackoffBaseDelay(time.Millisecond))
	require.Error(t, err)
	require.Equal(t, "test", errors.Cause(err).Error())
	require.Equal(t, 3, callCount)
}

func TestDoShouldStopOnSuccess(t *testing.T) {
	t.Parallel()

	var callCount int
	f := func() error {
		callCount++
		if callCount == 2 {
			return nil
		}
		return errors.New("test")
	}

	err := Do(context.Background(), f, WithMaxTries(5), WithBackoffBaseDelay(time.Millisecond))
	require.NoError(t, err)
	require.Equal(t, 2, callCount)
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	var callCount int
	permanent := errors.New("permanent")
	f := func() error {
		callCount++
		return permanent
	}

	err := Do(context.Background(), f, WithMaxTries(5), WithBackoffBaseDelay(time.Millisecond),
		WithIsRetryableErr(func(err error) bool {
			return errors.Cause(err) != permanent
		}))
	require.Equal(t, permanent, errors.Cause(err))
	require.Equal(t, 1, callCount)
}

func TestInfiniteTriesUntilSuccess(t *testing.T) {
	t.Parallel()

	var callCount int
	f := func() error {
		callCount++
		if callCount == 10 {
			return nil
		}
		return errors.New("test")
	}

	err := Do(context.Background(), f, WithInfiniteTries(),
		WithBackoffBaseDelay(time.Millisecond), WithBackoffMaxDelay(2*time.Millisecond))
	require.NoError(t, err)
	require.Equal(t, 10, callCount)
}

func TestDoCancelInfiniteRetry(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var callCount int
	f := func() error {
		callCount++
		return errors.New("test")
	}

	err := Do(ctx, f, WithInfiniteTries(), WithBackoffBaseDelay(time.Millisecond), WithBackoffMaxDelay(5*time.Millisecond))
	require.Equal(t, context.DeadlineExceeded, errors.Cause(err))
	require.Greater(t, callCount, 1)
}

func TestDoCanceledBeforeStart(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var callCount int
	err := Do(ctx, func() error {
		callCount++
		return nil
	})
	require.Equal(t, context.Canceled, errors.Cause(err))
	require.Equal(t, 0, callCount)
}
