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
	"strings"
)

// Program is a flat sequence of cells, where each cell holds either an opcode
// tag or an immediate operand.  Cells are untyped, hence the position of a
// cell determines how it is interpreted.  For example, the following program
// computes (3+4)-5:
//
// PUSH, 3, PUSH, 4, ADD, PUSH, 5, MINUS
type Program []Word

// Encode flattens a sequence of instructions into a program.
func Encode(insns ...Instruction) Program {
	var program Program
	//
	for _, insn := range insns {
		program = append(program, Word(insn.Opcode))
		//
		if insn.Opcode.Immediates() > 0 {
			program = append(program, insn.Operand)
		}
	}
	//
	return program
}

// Decode splits this program into its instructions.  This fails if a cell in
// opcode position is not recognised, or if the final opcode is missing its
// operand.
func (p Program) Decode() ([]Instruction, error) {
	var (
		insns []Instruction
		pc    uint
	)
	//
	for pc < uint(len(p)) {
		insn, err := p.decode(pc)
		//
		if err != nil {
			return nil, err
		}
		//
		insns = append(insns, insn)
		pc += insn.Width()
	}
	//
	return insns, nil
}

// decode the instruction starting at a given position.
func (p Program) decode(pc uint) (Instruction, error) {
	var cell = p[pc]
	//
	op, ok := DecodeOpcode(cell)
	//
	if !ok {
		return Instruction{}, newFault(ErrUnknownOpcode, pc, cell)
	} else if pc+op.Immediates() >= uint(len(p)) {
		return Instruction{}, newFault(ErrTruncatedOperand, pc, cell)
	} else if op.Immediates() > 0 {
		return Instruction{op, p[pc+1]}, nil
	}
	//
	return Instruction{op, 0}, nil
}

// String disassembles this program, placing one instruction per line.  Should
// the program be malformed, then disassembly stops at the first fault which is
// reported in a trailing comment.
func (p Program) String() string {
	var (
		builder strings.Builder
		pc      uint
	)
	//
	for pc < uint(len(p)) {
		insn, err := p.decode(pc)
		//
		if err != nil {
			builder.WriteString(";; ")
			builder.WriteString(err.Error())
			builder.WriteString("\n")
			//
			break
		}
		//
		builder.WriteString(insn.String())
		builder.WriteString("\n")
		//
		pc += insn.Width()
	}
	//
	return builder.String()
}
