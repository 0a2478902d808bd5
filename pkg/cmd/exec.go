// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/consensys/go-stackvm/pkg/util"
	"github.com/consensys/go-stackvm/pkg/vm"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var execCmd = &cobra.Command{
	Use:     "exec [flags] file1 file2 ...",
	Short:   "Execute one or more programs.",
	Long:    `Execute one or more programs (.asm, .json or .cbor), printing the result of each.`,
	Aliases: []string{"run"},
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		var (
			cfg    = loadConfig(cmd)
			opts   = execOptions{cfg.Execution.Budget, cfg.Execution.Chunk, cfg.Output.Trace, cfg.Output.Color}
			failed = false
		)
		// Flags override the configuration
		if cmd.Flags().Changed("budget") {
			opts.budget = GetUint(cmd, "budget")
		}
		//
		if cmd.Flags().Changed("chunk") {
			opts.chunk = GetUint(cmd, "chunk")
		}
		//
		if cmd.Flags().Changed("trace") {
			opts.trace = GetFlag(cmd, "trace")
		}
		//
		if cmd.Flags().Changed("color") {
			opts.color = GetFlag(cmd, "color")
		}
		//
		opts.color = opts.color && isTerminal()
		//
		if opts.chunk == 0 {
			fmt.Println("chunk must be positive")
			os.Exit(1)
		}
		//
		for _, filename := range args {
			var (
				program = readProgramFile(filename)
				result  vm.Word
				err     error
			)
			//
			measure(GetFlag(cmd, "stats"), fmt.Sprintf("executing %s", filename), func() {
				result, err = executeProgram(program, opts, os.Stdout)
			})
			//
			if err != nil {
				log.Error(fmt.Sprintf("%s: %s", filename, err))
				failed = true
			} else {
				fmt.Println(result)
			}
		}
		//
		if failed {
			os.Exit(4)
		}
	},
}

// execOptions captures the settings which control a single execution.
type execOptions struct {
	budget uint
	chunk  uint
	trace  bool
	color  bool
}

// executeProgram runs a program to completion, optionally writing a trace of
// each executed instruction.
func executeProgram(program vm.Program, opts execOptions, out io.Writer) (vm.Word, error) {
	machine := vm.NewInterpreter(program).WithBudget(opts.budget)
	//
	if opts.trace {
		machine.WithObserver(newTracer(out, opts.color))
	}
	//
	nsteps, err := vm.ExecuteAll(machine, opts.chunk)
	//
	log.Debug(fmt.Sprintf("executed %d instructions", nsteps))
	//
	if err != nil {
		return 0, err
	}
	//
	return machine.Result()
}

// measure runs a given function, reporting its time and memory usage at info
// level when report holds.  Otherwise, usage is only measured when debug
// logging is enabled.
func measure(report bool, prefix string, fn func()) {
	if !report && !log.IsLevelEnabled(log.DebugLevel) {
		fn()
		return
	}
	//
	stats := util.NewPerfStats()
	//
	fn()
	//
	if report {
		log.Info(stats.Summary(prefix))
	} else {
		stats.Log(prefix)
	}
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(execCmd)
	execCmd.Flags().Uint("budget", 0, "maximum number of instructions to execute (0 is unbounded)")
	execCmd.Flags().Uint("chunk", vm.DEFAULT_CHUNK, "number of instructions executed between termination checks")
	execCmd.Flags().Bool("trace", false, "print each executed instruction with the resulting stack")
	execCmd.Flags().Bool("color", true, "colour trace output (when writing to a terminal)")
	execCmd.Flags().Bool("stats", false, "report execution time and memory usage (also reported with --verbose)")
}
