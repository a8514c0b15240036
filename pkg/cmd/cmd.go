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

package cmd

import (
	"os"

	"github.com/o3de/o3de-sub270/pkg/cmd/bench"
	"github.com/o3de/o3de-sub270/pkg/version"
	"github.com/spf13/cobra"
)

const appName = "Task Graph Bench"

// NewCmd creates the root command.
func NewCmd() *cobra.Command {
	return &cobra.Command{
		Use: "tgbench",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Short:        "Benchmark the task graph executor",
		SilenceUsage: true,
	}
}

// newCmdVersion creates the `version` command.
func newCmdVersion() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Output version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Print(version.GetRawInfo(appName))
		},
	}
}

// AddTgbenchSubCommands adds all the subcommands to cmd.
func AddTgbenchSubCommands(cmd *cobra.Command) {
	cmd.AddCommand(bench.NewCmdRun())
	cmd.AddCommand(newCmdVersion())
}

// Run runs the root command.
func Run() {
	cmd := NewCmd()

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	AddTgbenchSubCommands(cmd)

	if err := cmd.Execute(); err != nil {
		cmd.PrintErrln(err)
		os.Exit(1)
	}
}
