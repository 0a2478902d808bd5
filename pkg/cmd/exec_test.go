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
	"bytes"
	"testing"

	"github.com/consensys/go-stackvm/pkg/util/assert"
	"github.com/consensys/go-stackvm/pkg/util/source"
	"github.com/consensys/go-stackvm/pkg/vm"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

var defaultOpts = execOptions{0, vm.DEFAULT_CHUNK, false, false}

func Test_Exec_01(t *testing.T) {
	var out bytes.Buffer
	//
	program := vm.Encode(vm.Push(3), vm.Push(4), vm.Add(), vm.Push(5), vm.Minus())
	result, err := executeProgram(program, defaultOpts, &out)
	//
	assert.NoError(t, err)
	assert.Equal(t, 2, result)
	assert.Equal(t, "", out.String())
}

func Test_Exec_02(t *testing.T) {
	var (
		out  bytes.Buffer
		opts = defaultOpts
	)
	//
	opts.trace = true
	program := vm.Encode(vm.Push(10), vm.Push(4), vm.Minus())
	result, err := executeProgram(program, opts, &out)
	//
	assert.NoError(t, err)
	assert.Equal(t, 6, result)
	assert.Equal(t, "0000: push 10   [10]\n0002: push 4    [10, 4]\n0004: minus     [6]\n", out.String())
}

func Test_Exec_03(t *testing.T) {
	var opts = defaultOpts
	//
	opts.budget = 2
	_, err := executeProgram(vm.Encode(vm.Push(1), vm.Push(2), vm.Add()), opts, &bytes.Buffer{})
	assert.ErrorIs(t, err, vm.ErrBudgetExceeded)
	//
	_, err = executeProgram(vm.Program{vm.Word(vm.ADD)}, defaultOpts, &bytes.Buffer{})
	assert.ErrorIs(t, err, vm.ErrStackUnderflow)
}

func Test_Exec_04(t *testing.T) {
	var out bytes.Buffer
	//
	newTracer(&out, true)(vm.Step{PC: 2, Instruction: vm.Add(), Stack: []vm.Word{7}})
	//
	assert.Equal(t, "\033[2m0002:\033[0m \033[1madd      \033[0m [7]\n", out.String())
}

func Test_Exec_05(t *testing.T) {
	text, err := disassemble(vm.Encode(vm.Push(1), vm.Add()))
	assert.NoError(t, err)
	assert.Equal(t, "push 1\nadd\n", text)
}

func Test_Exec_06(t *testing.T) {
	var (
		hook  = test.NewGlobal()
		level = log.GetLevel()
		runs  = 0
	)
	//
	defer log.SetLevel(level)
	// Nothing is measured by default
	log.SetLevel(log.InfoLevel)
	measure(false, "executing", func() { runs++ })
	assert.Equal(t, 0, len(hook.AllEntries()))
	// Measurements are reported when requested
	measure(true, "executing", func() { runs++ })
	assert.Equal(t, 1, len(hook.AllEntries()))
	assert.Equal(t, log.InfoLevel, hook.LastEntry().Level)
	// Measurements are logged when debugging
	log.SetLevel(log.DebugLevel)
	measure(false, "executing", func() { runs++ })
	assert.Equal(t, 2, len(hook.AllEntries()))
	assert.Equal(t, log.DebugLevel, hook.LastEntry().Level)
	//
	assert.Equal(t, 3, runs)
	hook.Reset()
}

func Test_SyntaxError_01(t *testing.T) {
	var out bytes.Buffer
	//
	file := source.NewSourceFile("prog.asm", []byte("push 1\n  mul 2\n"))
	printSyntaxError(&out, file.SyntaxError(source.NewSpan(9, 12), "unknown instruction"))
	//
	assert.Equal(t, "prog.asm:2:3-6 unknown instruction\n\n  mul 2\n  ^^^\n", out.String())
}
