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
package vm

import (
	"errors"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/consensys/go-stackvm/pkg/util/assert"
)

// ===================================================================
// Arithmetic
// ===================================================================

func Test_Interpreter_01(t *testing.T) {
	check(t, 7, Push(3), Push(4), Add())
}

func Test_Interpreter_02(t *testing.T) {
	check(t, 6, Push(10), Push(4), Minus())
}

func Test_Interpreter_03(t *testing.T) {
	check(t, 2, Push(3), Push(4), Add(), Push(5), Minus())
}

func Test_Interpreter_04(t *testing.T) {
	check(t, 6, Push(5), Push(10), Add(), Push(5), Push(4), Add(), Minus())
}

func Test_Interpreter_05(t *testing.T) {
	check(t, 17, Push(3), Push(4), Add(), Push(5), Minus(), Push(5), Push(10), Add(), Add())
}

func Test_Interpreter_06(t *testing.T) {
	check(t, 42, Push(42))
}

func Test_Interpreter_07(t *testing.T) {
	check(t, -6, Push(4), Push(10), Minus())
}

func Test_Interpreter_08(t *testing.T) {
	check(t, -13, Push(-10), Push(3), Minus())
}

func Test_Interpreter_09(t *testing.T) {
	// Result is the top of the stack, even when more values remain.
	check(t, 2, Push(1), Push(2))
}

func Test_Interpreter_10(t *testing.T) {
	// Arithmetic wraps around on overflow
	check(t, math.MinInt64, Push(math.MaxInt64), Push(1), Add())
	check(t, math.MaxInt64, Push(math.MinInt64), Push(1), Minus())
}

// ===================================================================
// Stack States
// ===================================================================

func Test_Interpreter_11(t *testing.T) {
	var (
		program = Encode(Push(5), Push(10), Add(), Push(5), Push(4), Add(), Minus())
		states  [][]Word
	)
	//
	machine := NewInterpreter(program).WithObserver(func(step Step) {
		states = append(states, step.Stack)
	})
	//
	_, err := ExecuteAll(machine, DEFAULT_CHUNK)
	assert.NoError(t, err)
	//
	expected := [][]Word{{5}, {5, 10}, {15}, {15, 5}, {15, 5, 4}, {15, 9}, {6}}
	assert.Equal(t, expected, states)
}

func Test_Interpreter_12(t *testing.T) {
	var (
		program = Encode(Push(3), Push(4), Add())
		pcs     []uint
		ops     []Opcode
	)
	//
	machine := NewInterpreter(program).WithObserver(func(step Step) {
		pcs = append(pcs, step.PC)
		ops = append(ops, step.Instruction.Opcode)
	})
	//
	_, err := ExecuteAll(machine, 1)
	assert.NoError(t, err)
	assert.Equal(t, []uint{0, 2, 4}, pcs)
	assert.Equal(t, []Opcode{PUSH, PUSH, ADD}, ops)
	assert.Equal(t, 3, machine.Steps())
	assert.Equal(t, 5, machine.PC())
}

// ===================================================================
// Re-execution & Independence
// ===================================================================

func Test_Interpreter_13(t *testing.T) {
	program := Encode(Push(3), Push(4), Add(), Push(5), Minus())
	original := append(Program{}, program...)
	//
	first, err1 := Execute(program)
	second, err2 := Execute(program)
	//
	assert.NoError(t, err1)
	assert.NoError(t, err2)
	assert.Equal(t, first, second)
	assert.Equal(t, original, program)
}

func Test_Interpreter_14(t *testing.T) {
	var (
		program = Encode(Push(100), Push(1), Minus(), Push(2), Add())
		wg      sync.WaitGroup
		results = make([]Word, 16)
		errs    = make([]error, 16)
	)
	//
	for i := range results {
		wg.Add(1)
		//
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = Execute(program)
		}(i)
	}
	//
	wg.Wait()
	//
	for i := range results {
		assert.NoError(t, errs[i])
		assert.Equal(t, 101, results[i])
	}
}

// ===================================================================
// Stack Discipline
// ===================================================================

func Test_Interpreter_15(t *testing.T) {
	var rng = rand.New(rand.NewSource(1))
	//
	for i := 0; i < 100; i++ {
		var (
			insns  []Instruction
			depth  int
			pushes int
			binops int
		)
		//
		for j := 0; j < 50; j++ {
			if depth >= 2 && rng.Intn(2) == 0 {
				if rng.Intn(2) == 0 {
					insns = append(insns, Add())
				} else {
					insns = append(insns, Minus())
				}
				//
				depth--
				binops++
			} else {
				insns = append(insns, Push(rng.Int63n(2000)-1000))
				depth++
				pushes++
			}
		}
		//
		machine := NewInterpreter(Encode(insns...))
		_, err := ExecuteAll(machine, 7)
		//
		assert.NoError(t, err)
		assert.True(t, machine.Halted())
		assert.Equal(t, pushes-binops, len(machine.Stack()))
	}
}

// ===================================================================
// Faults
// ===================================================================

func Test_Interpreter_16(t *testing.T) {
	checkFault(t, ErrStackUnderflow, 0, Word(ADD))
}

func Test_Interpreter_17(t *testing.T) {
	checkFault(t, ErrStackUnderflow, 2, Word(PUSH), 1, Word(MINUS))
}

func Test_Interpreter_18(t *testing.T) {
	checkFault(t, ErrTruncatedOperand, 2, Word(PUSH), 1, Word(PUSH))
}

func Test_Interpreter_19(t *testing.T) {
	checkFault(t, ErrUnknownOpcode, 2, Word(PUSH), 1, 99, Word(ADD))
}

func Test_Interpreter_20(t *testing.T) {
	checkFault(t, ErrUnknownOpcode, 0, 0)
	checkFault(t, ErrUnknownOpcode, 0, -1)
	checkFault(t, ErrUnknownOpcode, 0, 1<<40)
}

func Test_Interpreter_21(t *testing.T) {
	checkFault(t, ErrEmptyResult, 0)
}

func Test_Interpreter_22(t *testing.T) {
	// Faults leave the stack untouched and are terminal
	machine := NewInterpreter(Program{Word(PUSH), 7, Word(ADD), Word(PUSH), 1})
	n, err := ExecuteAll(machine, DEFAULT_CHUNK)
	//
	assert.Equal(t, 1, n)
	assert.ErrorIs(t, err, ErrStackUnderflow)
	assert.Equal(t, []Word{7}, machine.Stack())
	assert.Equal(t, 2, machine.PC())
	// Retrying reproduces the same fault without executing anything
	m, err2 := machine.Execute(10)
	assert.Equal(t, 0, m)
	assert.Equal(t, err, err2)
	//
	_, err3 := machine.Result()
	assert.ErrorIs(t, err3, ErrStackUnderflow)
}

func Test_Interpreter_23(t *testing.T) {
	var fault *Fault
	//
	_, err := Execute(Program{Word(PUSH), 1, Word(PUSH), 2, 7})
	//
	assert.True(t, errors.As(err, &fault))
	assert.Equal(t, 4, fault.PC)
	assert.Equal(t, 7, fault.Cell)
	assert.Equal(t, "unknown opcode 7 (pc=4)", err.Error())
}

func Test_Interpreter_24(t *testing.T) {
	_, err := Execute(Program{Word(MINUS)})
	assert.Equal(t, "stack underflow executing MINUS (pc=0)", err.Error())
}

// ===================================================================
// Budgets & Stepping
// ===================================================================

func Test_Interpreter_25(t *testing.T) {
	program := Encode(Push(1), Push(2), Add(), Push(3), Add())
	// Exactly enough
	result, err := ExecuteWithin(program, 5)
	assert.NoError(t, err)
	assert.Equal(t, 6, result)
	// Not enough
	_, err = ExecuteWithin(program, 4)
	assert.ErrorIs(t, err, ErrBudgetExceeded)
}

func Test_Interpreter_26(t *testing.T) {
	machine := NewInterpreter(Encode(Push(1), Push(2), Add()))
	//
	n, err := machine.Execute(2)
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.False(t, machine.Halted())
	//
	_, err = machine.Result()
	assert.ErrorIs(t, err, ErrNotHalted)
	//
	n, err = machine.Execute(10)
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, machine.Halted())
	//
	result, err := machine.Result()
	assert.NoError(t, err)
	assert.Equal(t, 3, result)
}

func Test_Interpreter_27(t *testing.T) {
	// Binary operators underflow exactly when fewer values than they pop are
	// available.
	for _, op := range []Opcode{ADD, MINUS} {
		var program Program
		//
		for i := uint(0); i < op.Pops(); i++ {
			program = append(program, Word(PUSH), 1)
		}
		//
		_, err := Execute(append(program[:len(program)-2:len(program)-2], Word(op)))
		assert.ErrorIs(t, err, ErrStackUnderflow)
		//
		_, err = Execute(append(program, Word(op)))
		assert.NoError(t, err)
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func check(t *testing.T, expected Word, insns ...Instruction) {
	t.Helper()
	//
	actual, err := Execute(Encode(insns...))
	//
	assert.NoError(t, err)
	assert.Equal(t, expected, actual)
}

func checkFault(t *testing.T, kind error, pc uint, cells ...Word) {
	t.Helper()
	//
	var fault *Fault
	//
	_, err := Execute(Program(cells))
	//
	assert.ErrorIs(t, err, kind)
	assert.True(t, errors.As(err, &fault))
	assert.Equal(t, pc, fault.PC)
}
