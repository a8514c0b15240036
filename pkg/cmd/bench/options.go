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
	"context"
	"fmt"

	"github.com/docker/go-units"
	"github.com/o3de/o3de-sub270/pkg/cmd/util"
	"github.com/o3de/o3de-sub270/pkg/config"
	"github.com/o3de/o3de-sub270/pkg/taskgraph"
	"github.com/o3de/o3de-sub270/pkg/version"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// options defines flags for the `run` command.
type options struct {
	executorConfig         *config.ExecutorConfig
	executorConfigFilePath string

	bench   benchConfig
	payload string
	output  string
	dump    bool
}

// newOptions creates new options for the `run` command.
func newOptions() *options {
	return &options{
		executorConfig: config.GetDefaultExecutorConfig(),
		bench: benchConfig{
			Shape:      ShapeDiamond,
			Nodes:      1000,
			Iterations: 100,
			Seed:       1,
		},
		payload: "0",
		output:  OutputText,
	}
}

// addFlags receives a *cobra.Command reference and binds
// flags related to the benchmark to it.
func (o *options) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.executorConfigFilePath, "config", "", "Path of the configuration file")
	cmd.Flags().StringVar(&o.executorConfig.Name, "name", o.executorConfig.Name, "human readable name for the executor")
	cmd.Flags().IntVar(&o.executorConfig.WorkerCount, "workers", o.executorConfig.WorkerCount, "number of pool workers, 0 means one per CPU")
	cmd.Flags().BoolVar(&o.executorConfig.CheckCycles, "check-cycles", o.executorConfig.CheckCycles, "reject graphs with a dependency cycle at submission")
	cmd.Flags().StringVar(&o.executorConfig.LogConf.File, "log-file", o.executorConfig.LogConf.File, "log file path")
	cmd.Flags().StringVar(&o.executorConfig.LogConf.Level, "log-level", o.executorConfig.LogConf.Level, "log level (etc: debug|info|warn|error)")

	cmd.Flags().StringVar(&o.bench.Shape, "shape", o.bench.Shape, fmt.Sprintf("graph shape, one of %v", Shapes))
	cmd.Flags().IntVar(&o.bench.Nodes, "nodes", o.bench.Nodes, "number of nodes per graph")
	cmd.Flags().IntVar(&o.bench.Iterations, "iterations", o.bench.Iterations, "number of graph runs")
	cmd.Flags().BoolVar(&o.bench.Retained, "retained", o.bench.Retained, "build the graph once and resubmit it every iteration")
	cmd.Flags().Int64Var(&o.bench.Seed, "seed", o.bench.Seed, "seed of the random shape")
	cmd.Flags().StringVar(&o.payload, "payload", o.payload, "bytes each node checksums (e.g. 4KiB)")
	cmd.Flags().IntVar(&o.bench.Rate, "rate", o.bench.Rate, "max iterations per second, 0 means unlimited")
	cmd.Flags().StringVar(&o.output, "output", o.output, "report format (text|json)")
	cmd.Flags().BoolVar(&o.dump, "dump", o.dump, "print the graph layout before running")
}

// complete adapts from the command line args and config file to the data required.
func (o *options) complete(cmd *cobra.Command) error {
	cfg := config.GetDefaultExecutorConfig()

	if len(o.executorConfigFilePath) > 0 {
		if err := config.StrictDecodeFile(
			o.executorConfigFilePath, "taskgraph executor", cfg); err != nil {
			return err
		}
	}

	cmd.Flags().Visit(func(flag *pflag.Flag) {
		switch flag.Name {
		case "name":
			cfg.Name = o.executorConfig.Name
		case "workers":
			cfg.WorkerCount = o.executorConfig.WorkerCount
		case "check-cycles":
			cfg.CheckCycles = o.executorConfig.CheckCycles
		case "log-file":
			cfg.LogConf.File = o.executorConfig.LogConf.File
		case "log-level":
			cfg.LogConf.Level = o.executorConfig.LogConf.Level
		case "config", "shape", "nodes", "iterations", "retained", "seed",
			"payload", "rate", "output", "dump":
			// do nothing
		default:
			log.Panic("unknown flag, please report a bug", zap.String("flagName", flag.Name))
		}
	})

	if err := cfg.ValidateAndAdjust(); err != nil {
		return errors.Trace(err)
	}
	o.executorConfig = cfg

	payload, err := units.RAMInBytes(o.payload)
	if err != nil {
		return errors.Annotatef(err, "invalid payload %q", o.payload)
	}
	o.bench.Payload = payload
	return nil
}

// validate checks the benchmark parameters.
func (o *options) validate() error {
	found := false
	for _, shape := range Shapes {
		if o.bench.Shape == shape {
			found = true
			break
		}
	}
	if !found {
		return errors.Errorf("unknown shape %q, expected one of %v", o.bench.Shape, Shapes)
	}
	if o.bench.Nodes <= 0 {
		return errors.Errorf("nodes must be positive, got %d", o.bench.Nodes)
	}
	if o.bench.Iterations <= 0 {
		return errors.Errorf("iterations must be positive, got %d", o.bench.Iterations)
	}
	if o.bench.Payload < 0 {
		return errors.Errorf("payload must not be negative, got %d", o.bench.Payload)
	}
	if o.bench.Rate < 0 {
		return errors.Errorf("rate must not be negative, got %d", o.bench.Rate)
	}
	if o.output != OutputText && o.output != OutputJSON {
		return errors.Errorf("unknown output format %q", o.output)
	}
	return nil
}

// run runs the benchmark on the default executor.
func (o *options) run(cmd *cobra.Command) error {
	ctx, cancel := util.InitCmd(cmd, &o.executorConfig.LogConf)
	defer cancel()
	util.InitSignalHandling(cancel)

	version.LogVersionInfo("Task Graph Bench")
	log.Info("executor config", zap.Stringer("config", o.executorConfig))

	if o.dump {
		if err := dumpShape(cmd.ErrOrStderr(), &o.bench); err != nil {
			return errors.Trace(err)
		}
	}

	registry := newRegistry()
	e, err := taskgraph.CreateDefaultExecutor(o.executorConfig)
	if err != nil {
		return errors.Trace(err)
	}
	defer taskgraph.DestroyDefaultExecutor()

	before, err := gatherPoolStats(registry, e.Name())
	if err != nil {
		return errors.Trace(err)
	}
	rep, err := runBenchmark(ctx, e, &o.bench)
	if err != nil {
		if errors.Cause(err) == context.Canceled {
			log.Info("benchmark canceled")
			return nil
		}
		log.Error("run benchmark with error", zap.Error(err))
		return errors.Trace(err)
	}
	after, err := gatherPoolStats(registry, e.Name())
	if err != nil {
		return errors.Trace(err)
	}
	rep.addPoolStats(after.sub(before))
	return rep.write(cmd.OutOrStdout(), o.output)
}

// NewCmdRun creates the `run` command.
func NewCmdRun() *cobra.Command {
	o := newOptions()

	command := &cobra.Command{
		Use:   "run",
		Short: "Run a task graph benchmark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := o.complete(cmd)
			if err != nil {
				return err
			}
			if err := o.validate(); err != nil {
				return err
			}
			err = o.run(cmd)
			cobra.CheckErr(err)
			return nil
		},
	}

	o.addFlags(command)

	return command
}
