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
package asm

import (
	"math"
	"testing"

	"github.com/consensys/go-stackvm/pkg/util/assert"
	"github.com/consensys/go-stackvm/pkg/vm"
)

// ===================================================================
// Valid Programs
// ===================================================================

func Test_Assemble_01(t *testing.T) {
	checkAssemble(t, "", nil)
}

func Test_Assemble_02(t *testing.T) {
	checkAssemble(t, "push 3\npush 4\nadd", vm.Encode(vm.Push(3), vm.Push(4), vm.Add()))
}

func Test_Assemble_03(t *testing.T) {
	checkAssemble(t, "PUSH 10, PUSH 4, MINUS", vm.Encode(vm.Push(10), vm.Push(4), vm.Minus()))
}

func Test_Assemble_04(t *testing.T) {
	text := ";; computes (3+4)-5\npush 3 ;; first\npush 4\nadd\npush 5\nminus\n"
	checkAssemble(t, text, vm.Encode(vm.Push(3), vm.Push(4), vm.Add(), vm.Push(5), vm.Minus()))
}

func Test_Assemble_05(t *testing.T) {
	text := "push -7 push 0x1F push 0b101 push 1_000 push +2 push 010"
	expected := vm.Encode(vm.Push(-7), vm.Push(31), vm.Push(5), vm.Push(1000), vm.Push(2), vm.Push(10))
	checkAssemble(t, text, expected)
}

func Test_Assemble_06(t *testing.T) {
	text := "push -9223372036854775808 push 9223372036854775807"
	checkAssemble(t, text, vm.Encode(vm.Push(math.MinInt64), vm.Push(math.MaxInt64)))
}

// ===================================================================
// Invalid Programs
// ===================================================================

func Test_Assemble_07(t *testing.T) {
	checkInvalid(t, "push 1\nmul", "<string>:2:1 unknown instruction")
}

func Test_Assemble_08(t *testing.T) {
	checkInvalid(t, "push 1\npush", "<string>:2:5 missing operand")
}

func Test_Assemble_09(t *testing.T) {
	checkInvalid(t, "add 3", "<string>:1:5 expected instruction")
}

func Test_Assemble_10(t *testing.T) {
	checkInvalid(t, "push 1\n  push $4", "<string>:2:8 unknown text encountered")
}

func Test_Assemble_11(t *testing.T) {
	checkInvalid(t, "push 9223372036854775808", "<string>:1:6 integer out of range")
}

func Test_Assemble_12(t *testing.T) {
	checkInvalid(t, "push 1__0", "<string>:1:6 malformed numeric literal")
}

func Test_Assemble_13(t *testing.T) {
	checkInvalid(t, "push 5push 4", "<string>:1:6 unknown text encountered")
}

func Test_Assemble_14(t *testing.T) {
	checkInvalid(t, "push 3add", "<string>:1:6 unknown text encountered")
}

func Test_Assemble_15(t *testing.T) {
	checkInvalid(t, "push 0x1g", "<string>:1:6 unknown text encountered")
}

// ===================================================================
// Disassembly
// ===================================================================

func Test_Disassemble_01(t *testing.T) {
	program := vm.Encode(vm.Push(5), vm.Push(-10), vm.Add(), vm.Push(5), vm.Minus())
	//
	text, err := Disassemble(program)
	assert.NoError(t, err)
	assert.Equal(t, "push 5\npush -10\nadd\npush 5\nminus\n", text)
	// Round trip
	checkAssemble(t, text, program)
}

func Test_Disassemble_02(t *testing.T) {
	_, err := Disassemble(vm.Program{vm.Word(vm.PUSH)})
	assert.ErrorIs(t, err, vm.ErrTruncatedOperand)
}

// ===================================================================
// Test Helpers
// ===================================================================

func checkAssemble(t *testing.T, text string, expected vm.Program) {
	t.Helper()
	//
	program, errs := AssembleString(text)
	//
	assert.Equal(t, 0, len(errs), "unexpected errors %v", errs)
	assert.Equal(t, len(expected), len(program))
	//
	for i := range expected {
		assert.Equal(t, expected[i], program[i], "cell %d", i)
	}
}

func checkInvalid(t *testing.T, text string, expected string) {
	t.Helper()
	//
	_, errs := AssembleString(text)
	//
	assert.Equal(t, 1, len(errs))
	assert.Equal(t, expected, errs[0].Error())
}
