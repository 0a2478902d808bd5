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

	"github.com/consensys/go-stackvm/pkg/util/collection/stack"
)

// DEFAULT_CHUNK is the number of steps executed between checks for termination
// when running a machine to completion.
const DEFAULT_CHUNK uint = 1024

// ErrNotHalted signals an attempt to obtain the result of a machine which is
// still running.
var ErrNotHalted = errors.New("machine has not halted")

// Machine represents an executing machine which can be advanced some number of
// steps at a time.  A machine is either running or halted.
type Machine interface {
	// Execute the machine for (upto) the given number of steps, returning the
	// actual number of steps executed and an error (if execution failed).
	Execute(steps uint) (uint, error)
	// Halted determines whether or not this machine has terminated.
	Halted() bool
}

// ExecuteAll executes a given machine to completion in chunks of n steps,
// returning the number of steps executed and/or any error arising.
func ExecuteAll[M Machine](machine M, n uint) (uint, error) {
	var nsteps uint
	//
	for {
		// Execute upto n steps
		m, err := machine.Execute(n)
		// update the tally
		nsteps += m
		// check for termination
		if err != nil || m < n {
			return nsteps, err
		}
	}
}

// Execute a program to completion from an empty stack, returning the value on
// top of the stack when it halts.
func Execute(program Program) (Word, error) {
	return ExecuteWithin(program, 0)
}

// ExecuteWithin executes a program to completion as for Execute, except that
// execution fails if more than budget instructions are executed.  A budget of
// zero is unbounded.
func ExecuteWithin(program Program, budget uint) (Word, error) {
	var machine = NewInterpreter(program).WithBudget(budget)
	//
	if _, err := ExecuteAll(machine, DEFAULT_CHUNK); err != nil {
		return 0, err
	}
	//
	return machine.Result()
}

// Step describes a single executed instruction, as passed to an observer.
type Step struct {
	// Position of the instruction within the program.
	PC uint
	// Instruction which was executed.
	Instruction Instruction
	// Contents of the stack after execution, ordered from bottom to top.
	Stack []Word
}

// Observer is notified after each instruction is successfully executed.
type Observer func(Step)

// Interpreter executes a single program over an operand stack.  The program is
// never modified, whilst the program counter and stack belong exclusively to
// this interpreter.  Hence, distinct interpreters over the same program are
// independent and may execute concurrently.
type Interpreter struct {
	program Program
	// Program Counter
	pc uint
	// Operand stack
	stack *stack.Stack[Word]
	// Number of instructions executed so far.
	steps uint
	// Maximum number of instructions to execute (or zero if unbounded).
	budget uint
	// Optional observer of executed instructions.
	observer Observer
	// Fault which terminated execution (if any).
	fault *Fault
}

// NewInterpreter constructs an interpreter for a given program, positioned at
// its first instruction with an empty stack.
func NewInterpreter(program Program) *Interpreter {
	return &Interpreter{
		program: program,
		pc:      0,
		stack:   stack.NewStack[Word](),
	}
}

// WithBudget bounds the total number of instructions this interpreter will
// execute.  A budget of zero is unbounded.
func (p *Interpreter) WithBudget(budget uint) *Interpreter {
	p.budget = budget
	return p
}

// WithObserver registers a function to be notified of every executed
// instruction.
func (p *Interpreter) WithObserver(observer Observer) *Interpreter {
	p.observer = observer
	return p
}

// Halted implementation for the Machine interface.
func (p *Interpreter) Halted() bool {
	return p.pc >= uint(len(p.program))
}

// Fault returns the fault which terminated this interpreter, or nil if none
// has arisen.
func (p *Interpreter) Fault() error {
	if p.fault == nil {
		return nil
	}
	//
	return p.fault
}

// PC returns the current Program Counter position.
func (p *Interpreter) PC() uint {
	return p.pc
}

// Steps returns the number of instructions executed so far.
func (p *Interpreter) Steps() uint {
	return p.steps
}

// Stack returns a snapshot of the operand stack, ordered from bottom to top.
func (p *Interpreter) Stack() []Word {
	return p.stack.Items()
}

// Result returns the value on top of the stack once this interpreter has
// halted.
func (p *Interpreter) Result() (Word, error) {
	if p.fault != nil {
		return 0, p.fault
	} else if !p.Halted() {
		return 0, ErrNotHalted
	}
	//
	top, ok := p.stack.Peek(0)
	//
	if !ok {
		return 0, newFault(ErrEmptyResult, p.pc, 0)
	}
	//
	return top, nil
}

// Execute implementation for the Machine interface.  Once a fault has arisen,
// no further steps can be executed.
func (p *Interpreter) Execute(steps uint) (uint, error) {
	var nsteps uint
	//
	for nsteps < steps && !p.Halted() {
		if p.fault != nil {
			return nsteps, p.fault
		} else if p.budget != 0 && p.steps >= p.budget {
			p.fault = newFault(ErrBudgetExceeded, p.pc, 0)
			return nsteps, p.fault
		} else if err := p.step(); err != nil {
			p.fault = err
			return nsteps, err
		}
		//
		nsteps++
		p.steps++
	}
	//
	return nsteps, p.Fault()
}

// Fetch, decode and execute the instruction at the current program counter.
// The program counter and stack are only updated when this succeeds.
func (p *Interpreter) step() *Fault {
	var (
		pc   = p.pc
		cell = p.program[pc]
		insn Instruction
	)
	// Fetch
	op, ok := DecodeOpcode(cell)
	//
	if !ok {
		return newFault(ErrUnknownOpcode, pc, cell)
	}
	// Decode & dispatch
	switch op {
	case PUSH:
		if pc+op.Immediates() >= uint(len(p.program)) {
			return newFault(ErrTruncatedOperand, pc, cell)
		}
		//
		insn = Push(p.program[pc+1])
		p.stack.Push(insn.Operand)
	case ADD:
		insn = Add()
		//
		if !p.binary(op, func(left, right Word) Word { return left + right }) {
			return newFault(ErrStackUnderflow, pc, cell)
		}
	case MINUS:
		insn = Minus()
		//
		if !p.binary(op, func(left, right Word) Word { return left - right }) {
			return newFault(ErrStackUnderflow, pc, cell)
		}
	default:
		return newFault(ErrUnknownOpcode, pc, cell)
	}
	//
	p.pc = pc + insn.Width()
	//
	if p.observer != nil {
		p.observer(Step{pc, insn, p.stack.Items()})
	}
	//
	return nil
}

// Apply a binary operator to the operands it pops from the stack.  The top value
// is the right operand, whilst the value beneath it is the left operand.  If
// the stack has fewer values than the operator pops, then it is left unchanged
// and false is returned.
func (p *Interpreter) binary(op Opcode, fn func(left, right Word) Word) bool {
	operands, ok := p.stack.PopN(op.Pops())
	//
	if !ok {
		return false
	}
	//
	p.stack.Push(fn(operands[0], operands[1]))
	//
	return true
}
