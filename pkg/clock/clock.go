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

package clock

import (
	"time"

	bclock "github.com/benbjohnson/clock"
	"github.com/gavv/monotime"
)

// MonotonicTime is a reading of a monotonic clock. Readings are only
// comparable when they come from the same Clock.
type MonotonicTime time.Duration

// Sub returns the duration from earlier to m.
func (m MonotonicTime) Sub(earlier MonotonicTime) time.Duration {
	return time.Duration(m - earlier)
}

// Clock reads wall time through benbjohnson/clock and monotonic time
// through Mono. Durations of graph runs are measured on Mono.
type Clock interface {
	bclock.Clock
	Mono() MonotonicTime
}

// New returns the system clock.
func New() Clock {
	return systemClock{Clock: bclock.New()}
}

type systemClock struct {
	bclock.Clock
}

func (systemClock) Mono() MonotonicTime {
	return MonoNow()
}

// MonoNow reads the monotonic clock of the process.
func MonoNow() MonotonicTime {
	return MonotonicTime(monotime.Now())
}

// Mock is a Clock advanced by hand. Its monotonic readings follow the
// mocked wall time.
type Mock struct {
	*bclock.Mock
}

// NewMock returns a Mock stopped at the unix epoch.
func NewMock() *Mock {
	return &Mock{Mock: bclock.NewMock()}
}

// Mono implements Clock.
func (m *Mock) Mono() MonotonicTime {
	return MonotonicTime(m.Now().Sub(time.Unix(0, 0)))
}

// Since returns the time elapsed on c since start.
func Since(c Clock, start MonotonicTime) time.Duration {
	return c.Mono().Sub(start)
}

// Stopwatch measures consecutive laps on a Clock.
type Stopwatch struct {
	clock Clock
	last  MonotonicTime
}

// StartStopwatch starts a Stopwatch on c.
func StartStopwatch(c Clock) *Stopwatch {
	return &Stopwatch{clock: c, last: c.Mono()}
}

// Lap returns the time since the previous lap, or since the start for
// the first one.
func (s *Stopwatch) Lap() time.Duration {
	now := s.clock.Mono()
	d := now.Sub(s.last)
	s.last = now
	return d
}
