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
	"fmt"
)

// ErrStackUnderflow signals an instruction executed with fewer values on the
// stack than it consumes.
var ErrStackUnderflow = errors.New("stack underflow")

// ErrTruncatedOperand signals an opcode at the end of a program which is
// missing (some of) its immediate operands.
var ErrTruncatedOperand = errors.New("truncated operand")

// ErrUnknownOpcode signals a cell in opcode position which holds no recognised
// opcode.
var ErrUnknownOpcode = errors.New("unknown opcode")

// ErrEmptyResult signals that execution halted without any value on the stack.
var ErrEmptyResult = errors.New("empty result")

// ErrBudgetExceeded signals that execution did not halt within its instruction
// budget.
var ErrBudgetExceeded = errors.New("instruction budget exceeded")

// Fault describes a failed execution.  It identifies the kind of failure (one
// of the Err* values above), along with the position in the program at which
// it arose.  All faults are terminal: a machine which has faulted cannot
// continue executing.
type Fault struct {
	// Kind of fault
	Kind error
	// Program counter of the offending instruction.
	PC uint
	// Cell at the program counter.  For a budget or empty result fault, this
	// is zero.
	Cell Word
}

func newFault(kind error, pc uint, cell Word) *Fault {
	return &Fault{kind, pc, cell}
}

// Error implements the error interface.
func (p *Fault) Error() string {
	switch p.Kind {
	case ErrUnknownOpcode:
		return fmt.Sprintf("%s %d (pc=%d)", p.Kind, p.Cell, p.PC)
	case ErrStackUnderflow, ErrTruncatedOperand:
		op, _ := DecodeOpcode(p.Cell)
		return fmt.Sprintf("%s executing %s (pc=%d)", p.Kind, op, p.PC)
	default:
		return fmt.Sprintf("%s (pc=%d)", p.Kind, p.PC)
	}
}

// Unwrap exposes the kind of fault, such that errors.Is can be used to
// distinguish them.
func (p *Fault) Unwrap() error {
	return p.Kind
}
