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

package bench

import (
	"bytes"
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/o3de/o3de-sub270/pkg/config"
	"github.com/o3de/o3de-sub270/pkg/leakutil"
	"github.com/o3de/o3de-sub270/pkg/taskgraph"
	"github.com/pingcap/errors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	leakutil.SetUpLeakTest(m)
}

func newTestCmd(t *testing.T, args ...string) (*options, *cobra.Command) {
	o := newOptions()
	cmd := &cobra.Command{Use: "run"}
	o.addFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return o, cmd
}

func newTestExecutor(t *testing.T, workers int) *taskgraph.Executor {
	cfg := config.GetDefaultExecutorConfig()
	cfg.Name = "bench-test"
	cfg.WorkerCount = workers
	e, err := taskgraph.NewExecutor(cfg)
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func TestCompleteDefaults(t *testing.T) {
	t.Parallel()

	o, cmd := newTestCmd(t)
	require.NoError(t, o.complete(cmd))
	require.NoError(t, o.validate())
	require.Equal(t, config.DefaultExecutorName, o.executorConfig.Name)
	require.Positive(t, o.executorConfig.WorkerCount)
	require.Equal(t, ShapeDiamond, o.bench.Shape)
	require.Equal(t, int64(0), o.bench.Payload)
}

func TestCompleteFlagsOverrideConfigFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "executor.toml")
	err := os.WriteFile(path, []byte(`
name = "from-file"
worker-count = 3
check-cycles = true

[log]
level = "warn"
`), 0o644)
	require.NoError(t, err)

	o, cmd := newTestCmd(t,
		"--config", path,
		"--name", "from-flag",
		"--shape", ShapeRandom,
		"--payload", "4KiB",
	)
	require.NoError(t, o.complete(cmd))
	require.NoError(t, o.validate())
	require.Equal(t, "from-flag", o.executorConfig.Name)
	require.Equal(t, 3, o.executorConfig.WorkerCount)
	require.True(t, o.executorConfig.CheckCycles)
	require.Equal(t, "warn", o.executorConfig.LogConf.Level)
	require.Equal(t, ShapeRandom, o.bench.Shape)
	require.Equal(t, int64(4096), o.bench.Payload)
}

func TestCompleteInvalid(t *testing.T) {
	t.Parallel()

	o, cmd := newTestCmd(t, "--workers", "-1")
	require.Regexp(t, "worker-count -1 must not be negative", o.complete(cmd))

	o, cmd = newTestCmd(t, "--payload", "lots")
	require.Regexp(t, "invalid payload", o.complete(cmd))

	o, cmd = newTestCmd(t, "--config", filepath.Join(t.TempDir(), "missing.toml"))
	require.Regexp(t, "ErrDecodeConfigFile", o.complete(cmd))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		args []string
		err  string
	}{
		{args: []string{"--shape", "star"}, err: "unknown shape"},
		{args: []string{"--nodes", "0"}, err: "nodes must be positive"},
		{args: []string{"--iterations", "0"}, err: "iterations must be positive"},
		{args: []string{"--rate", "-5"}, err: "rate must not be negative"},
		{args: []string{"--output", "yaml"}, err: "unknown output format"},
	}
	for _, c := range cases {
		o, cmd := newTestCmd(t, c.args...)
		require.NoError(t, o.complete(cmd))
		require.Regexp(t, c.err, o.validate(), "args %v", c.args)
	}
}

func TestBuildShapes(t *testing.T) {
	t.Parallel()

	const n = 10
	expectedLinks := map[string]int{
		ShapeDiamond: 2 * (n - 2),
		ShapeChain:   n - 1,
		ShapeWide:    n - 1,
	}
	for shape, links := range expectedLinks {
		b := taskgraph.NewJobGraph(shape)
		buildShape(b, shape, n, rand.New(rand.NewSource(1)), func(int) {})
		require.Equal(t, n, b.Len(), shape)
		require.Equal(t, links, b.LinkCount(), shape)
		require.NoError(t, b.Validate(), shape)
		b.Close()
	}

	b := taskgraph.NewJobGraph(ShapeRandom)
	defer b.Close()
	buildShape(b, ShapeRandom, 50, rand.New(rand.NewSource(1)), func(int) {})
	require.Equal(t, 50, b.Len())
	require.NoError(t, b.Validate())
}

func TestRunBenchmark(t *testing.T) {
	t.Parallel()

	e := newTestExecutor(t, 4)
	for _, shape := range Shapes {
		for _, retained := range []bool{false, true} {
			cfg := &benchConfig{
				Shape:      shape,
				Nodes:      64,
				Iterations: 5,
				Retained:   retained,
				Seed:       7,
				Payload:    128,
			}
			rep, err := runBenchmark(context.Background(), e, cfg)
			require.NoError(t, err, "shape %s retained %t", shape, retained)
			require.Equal(t, int64(64*5), rep.Executed)
			require.Equal(t, 4, rep.Workers)
			require.Equal(t, "bench-test", rep.Executor)
			require.LessOrEqual(t, rep.Min, rep.Mean)
			require.LessOrEqual(t, rep.Mean, rep.Max)
		}
	}
}

func TestRunBenchmarkRateLimited(t *testing.T) {
	t.Parallel()

	e := newTestExecutor(t, 2)
	cfg := &benchConfig{Shape: ShapeChain, Nodes: 8, Iterations: 3, Rate: 1000}
	rep, err := runBenchmark(context.Background(), e, cfg)
	require.NoError(t, err)
	require.Equal(t, int64(24), rep.Executed)
	require.Equal(t, 7, rep.Links)
}

func TestRunBenchmarkCanceled(t *testing.T) {
	t.Parallel()

	e := newTestExecutor(t, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := &benchConfig{Shape: ShapeWide, Nodes: 8, Iterations: 3}
	_, err := runBenchmark(ctx, e, cfg)
	require.Equal(t, context.Canceled, errors.Cause(err))
}

func TestDumpShape(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, dumpShape(&buf, &benchConfig{Shape: ShapeChain, Nodes: 3}))
	require.True(t, strings.HasPrefix(buf.String(), `graph "chain"`), buf.String())
	require.Contains(t, buf.String(), "-> #1")

	buf.Reset()
	require.NoError(t, dumpShape(&buf, &benchConfig{Shape: ShapeParallelFor, Nodes: 3}))
	require.Contains(t, buf.String(), "no static graph")
}

func TestReportWrite(t *testing.T) {
	t.Parallel()

	rep := &report{
		Executor:   "bench",
		Workers:    8,
		Shape:      ShapeWide,
		Nodes:      1000,
		Links:      999,
		Iterations: 2,
		Payload:    4096,
	}
	rep.addRun(300)
	rep.addRun(100)
	rep.finish(2000)
	rep.addPoolStats(poolStats{tasks: 2000, stolen: 12})
	require.Equal(t, int64(100), int64(rep.Min))
	require.Equal(t, int64(300), int64(rep.Max))
	require.Equal(t, int64(200), int64(rep.Mean))

	var buf bytes.Buffer
	require.NoError(t, rep.write(&buf, OutputText))
	require.Contains(t, buf.String(), "1,000 nodes")
	require.Contains(t, buf.String(), "8 workers")
	require.Contains(t, buf.String(), "2,000 pool tasks, 12 stolen")

	buf.Reset()
	require.NoError(t, rep.write(&buf, OutputJSON))
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "wide", decoded["shape"])
	require.EqualValues(t, 2000, decoded["executed"])
	require.EqualValues(t, 400, decoded["total-ns"])
}

func TestGatherPoolStats(t *testing.T) {
	t.Parallel()

	registry := newRegistry()
	cfg := config.GetDefaultExecutorConfig()
	cfg.Name = "bench-metrics"
	cfg.WorkerCount = 4
	e, err := taskgraph.NewExecutor(cfg)
	require.NoError(t, err)
	defer e.Close()

	before, err := gatherPoolStats(registry, e.Name())
	require.NoError(t, err)
	_, err = runBenchmark(context.Background(), e, &benchConfig{Shape: ShapeWide, Nodes: 64, Iterations: 2})
	require.NoError(t, err)
	after, err := gatherPoolStats(registry, e.Name())
	require.NoError(t, err)

	delta := after.sub(before)
	require.Equal(t, float64(128), delta.tasks)
	require.LessOrEqual(t, delta.stolen, delta.tasks)

	other, err := gatherPoolStats(registry, "no-such-pool")
	require.NoError(t, err)
	require.Equal(t, poolStats{}, other)
}
