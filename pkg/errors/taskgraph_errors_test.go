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

package errors

import (
	"testing"

	"github.com/pingcap/errors"
	"github.com/stretchr/testify/require"
)

func TestWrapError(t *testing.T) {
	t.Parallel()

	require.Nil(t, WrapError(ErrDecodeConfigFile, nil, "a.toml", "executor"))

	cause := errors.New("unexpected EOF")
	err := WrapError(ErrDecodeConfigFile, cause, "a.toml", "executor")
	require.Regexp(t, "ErrDecodeConfigFile", err)
	require.Regexp(t, "decode config file a.toml of component executor failed", err)
	require.Regexp(t, "unexpected EOF", err)
}

func TestIsRetryableError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err       error
		retryable bool
	}{
		{err: nil, retryable: false},
		{err: errors.New("boom"), retryable: false},
		{err: ErrExecutorClosed.GenWithStackByArgs("e"), retryable: false},
		{err: ErrAsyncPoolExited.GenWithStackByArgs("pool"), retryable: true},
		{err: errors.Trace(ErrAsyncPoolExited.GenWithStackByArgs("pool")), retryable: true},
	}
	for _, c := range cases {
		require.Equal(t, c.retryable, IsRetryableError(c.err), "%v", c.err)
	}
}

func TestErrorCodes(t *testing.T) {
	t.Parallel()

	err := ErrGraphCycle.GenWithStackByArgs("g", 2, "#0, #1")
	require.True(t, ErrGraphCycle.Equal(err))
	require.False(t, ErrGraphClosed.Equal(err))
	require.Equal(t, "[TG:ErrGraphCycle]graph g contains a dependency cycle among 2 nodes: #0, #1", err.Error())
}
