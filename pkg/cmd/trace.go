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
	"strings"

	"github.com/consensys/go-stackvm/pkg/vm"
	"golang.org/x/term"
)

// ANSI escape sequences used when colouring traces.
const (
	ansiBold  = "\033[1m"
	ansiFaint = "\033[2m"
	ansiReset = "\033[0m"
)

// isTerminal determines whether stdout is attached to a terminal, in which case
// ANSI escapes can be used.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// newTracer constructs an observer which prints one line per executed
// instruction, giving its position, the instruction itself and the resulting
// stack (bottom first).  For example:
//
// 0004: add       [15]
func newTracer(out io.Writer, color bool) vm.Observer {
	return func(step vm.Step) {
		var (
			insn  = fmt.Sprintf("%-9s", step.Instruction.String())
			stack = formatStack(step.Stack)
		)
		//
		if color {
			fmt.Fprintf(out, "%s%04d:%s %s%s%s %s\n", ansiFaint, step.PC, ansiReset, ansiBold, insn, ansiReset, stack)
		} else {
			fmt.Fprintf(out, "%04d: %s %s\n", step.PC, insn, stack)
		}
	}
}

func formatStack(stack []vm.Word) string {
	var builder strings.Builder
	//
	builder.WriteString("[")
	//
	for i, v := range stack {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		fmt.Fprintf(&builder, "%d", v)
	}
	//
	builder.WriteString("]")
	//
	return builder.String()
}
