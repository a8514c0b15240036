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

package config

import (
	"bytes"
	"fmt"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-json"
	cerrors "github.com/o3de/o3de-sub270/pkg/errors"
	"github.com/o3de/o3de-sub270/pkg/logutil"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
)

const (
	// DefaultExecutorName is the name of an executor created without one.
	DefaultExecutorName = "default"
	// MaxWorkerCount is the upper bound of worker-count.
	MaxWorkerCount = 1024
)

// ExecutorConfig is the configuration of a graph executor.
type ExecutorConfig struct {
	// Name identifies the executor in logs and metrics.
	Name string `toml:"name" json:"name"`
	// WorkerCount is the number of pool workers. Zero means one per CPU.
	WorkerCount int `toml:"worker-count" json:"worker-count"`
	// CheckCycles makes compilation reject graphs with a dependency cycle.
	CheckCycles bool `toml:"check-cycles" json:"check-cycles"`

	LogConf logutil.Config `toml:"log" json:"log"`
}

// GetDefaultExecutorConfig returns a default executor config.
func GetDefaultExecutorConfig() *ExecutorConfig {
	return &ExecutorConfig{
		Name:        DefaultExecutorName,
		WorkerCount: 0,
		CheckCycles: false,
		LogConf: logutil.Config{
			Level: "info",
			File:  "",
		},
	}
}

// Clone returns a deep copy of the config.
func (c *ExecutorConfig) Clone() *ExecutorConfig {
	cloned := *c
	return &cloned
}

func (c *ExecutorConfig) String() string {
	cfg, err := json.Marshal(c)
	if err != nil {
		log.L().Error("marshal to json", logutil.ShortError(err))
	}
	return string(cfg)
}

// Toml returns TOML format representation of config.
func (c *ExecutorConfig) Toml() (string, error) {
	var b bytes.Buffer

	err := toml.NewEncoder(&b).Encode(c)
	if err != nil {
		return "", errors.Trace(err)
	}
	return b.String(), nil
}

// ValidateAndAdjust validates the config and fills the zero fields with
// defaults. All the invalid fields are reported at once.
func (c *ExecutorConfig) ValidateAndAdjust() error {
	var err error

	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		c.Name = DefaultExecutorName
	}

	switch {
	case c.WorkerCount < 0:
		err = multierr.Append(err, cerrors.ErrInvalidConfig.GenWithStackByArgs(
			fmt.Sprintf("worker-count %d must not be negative", c.WorkerCount)))
	case c.WorkerCount > MaxWorkerCount:
		err = multierr.Append(err, cerrors.ErrInvalidConfig.GenWithStackByArgs(
			fmt.Sprintf("worker-count %d exceeds %d", c.WorkerCount, MaxWorkerCount)))
	case c.WorkerCount == 0:
		c.WorkerCount = runtime.NumCPU()
	}

	c.LogConf.Adjust()
	var lv zapcore.Level
	if lvErr := lv.UnmarshalText([]byte(c.LogConf.Level)); lvErr != nil {
		err = multierr.Append(err, cerrors.ErrInvalidConfig.GenWithStackByArgs(
			fmt.Sprintf("unknown log level %q", c.LogConf.Level)))
	}
	return err
}
