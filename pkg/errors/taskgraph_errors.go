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
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errors

import (
	"github.com/pingcap/errors"
)

// errors
var (
	// graph builder misuse
	ErrGraphSubmitted = errors.Normalize(
		"graph %s is submitted and cannot be modified or resubmitted until its run completes",
		errors.RFCCodeText("TG:ErrGraphSubmitted"),
	)
	ErrGraphCompiled = errors.Normalize(
		"graph %s is already compiled, call Reset before adding nodes or links",
		errors.RFCCodeText("TG:ErrGraphCompiled"),
	)
	ErrGraphInFlight = errors.Normalize(
		"graph %s cannot be reset while a run is in flight",
		errors.RFCCodeText("TG:ErrGraphInFlight"),
	)
	ErrGraphCycle = errors.Normalize(
		"graph %s contains a dependency cycle among %d nodes: %s",
		errors.RFCCodeText("TG:ErrGraphCycle"),
	)
	ErrGraphClosed = errors.Normalize(
		"graph %s is closed",
		errors.RFCCodeText("TG:ErrGraphClosed"),
	)
	ErrGraphDestroyed = errors.Normalize(
		"compiled graph %s has been destroyed",
		errors.RFCCodeText("TG:ErrGraphDestroyed"),
	)
	ErrTokenInvalid = errors.Normalize(
		"token %d is not valid for graph %s (stale after reset or out of range)",
		errors.RFCCodeText("TG:ErrTokenInvalid"),
	)
	ErrTokenForeignGraph = errors.Normalize(
		"token of graph %s cannot be linked to a token of graph %s",
		errors.RFCCodeText("TG:ErrTokenForeignGraph"),
	)

	// executor
	ErrExecutorNotCreated = errors.Normalize(
		"default executor has not been created",
		errors.RFCCodeText("TG:ErrExecutorNotCreated"),
	)
	ErrExecutorAlreadyCreated = errors.Normalize(
		"default executor %s has already been created",
		errors.RFCCodeText("TG:ErrExecutorAlreadyCreated"),
	)
	ErrExecutorClosed = errors.Normalize(
		"executor %s is closed",
		errors.RFCCodeText("TG:ErrExecutorClosed"),
	)
	ErrEnqueueFailed = errors.Normalize(
		"executor %s failed to enqueue node %d of graph %s",
		errors.RFCCodeText("TG:ErrEnqueueFailed"),
	)

	// completion event
	ErrEventSignaled = errors.Normalize(
		"completion event has already been signaled",
		errors.RFCCodeText("TG:ErrEventSignaled"),
	)

	// worker pool
	ErrAsyncPoolExited = errors.Normalize(
		"asyncPool %s has exited. Report a bug if seen externally.",
		errors.RFCCodeText("TG:ErrAsyncPoolExited"),
	)

	// config
	ErrInvalidConfig = errors.Normalize(
		"invalid executor config: %s",
		errors.RFCCodeText("TG:ErrInvalidConfig"),
	)
	ErrDecodeConfigFile = errors.Normalize(
		"decode config file %s of component %s failed",
		errors.RFCCodeText("TG:ErrDecodeConfigFile"),
	)
	ErrConfigUnknownItem = errors.Normalize(
		"component %s's config file %s contained unknown configuration options: %s",
		errors.RFCCodeText("TG:ErrConfigUnknownItem"),
	)
)

// WrapError wraps err with the given RFC error and its arguments.
// It returns nil if err is nil.
func WrapError(rfcError *errors.Error, err error, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return rfcError.Wrap(err).GenWithStackByArgs(args...)
}

// IsRetryableError returns whether the error may succeed if the same
// operation is attempted again, e.g. submitting to a pool that is restarting.
func IsRetryableError(err error) bool {
	return ErrAsyncPoolExited.Equal(errors.Cause(err))
}
