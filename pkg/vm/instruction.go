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

import "fmt"

// Instruction is the structured form of a single instruction, combining an
// opcode with its (optional) immediate operand.  Unlike the flat cell encoding
// of a Program, an instruction cannot be missing its operand.
type Instruction struct {
	Opcode Opcode
	// Immediate operand, which is ignored for opcodes without one.
	Operand Word
}

// Push constructs an instruction which pushes a given value.
func Push(value Word) Instruction {
	return Instruction{PUSH, value}
}

// Add constructs an instruction which adds the top two stack values.
func Add() Instruction {
	return Instruction{ADD, 0}
}

// Minus constructs an instruction which subtracts the top stack value from the
// value beneath it.
func Minus() Instruction {
	return Instruction{MINUS, 0}
}

// Width returns the number of program cells occupied by this instruction.
func (p Instruction) Width() uint {
	return 1 + p.Opcode.Immediates()
}

func (p Instruction) String() string {
	if p.Opcode.Immediates() == 0 {
		return p.Opcode.Mnemonic()
	}
	//
	return fmt.Sprintf("%s %d", p.Opcode.Mnemonic(), p.Operand)
}
