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
	"fmt"
	"strings"
)

// Word is the machine word, used both for values on the operand stack and for
// the cells of a program.
type Word = int64

// Opcode identifies the operation performed by an instruction.  Opcodes are
// stored in programs as the numeric value of their tag.
type Opcode uint8

// PUSH pushes its immediate operand onto the stack.
const PUSH Opcode = 1

// ADD pops right then left, and pushes left + right.
const ADD Opcode = 2

// MINUS pops right then left, and pushes left - right.
const MINUS Opcode = 3

// definition describes the static properties of an opcode.
type definition struct {
	// Mnemonic used in assembly.
	mnemonic string
	// Number of immediate operand cells following the opcode.
	immediates uint
	// Number of stack values consumed.
	pops uint
}

var definitions = map[Opcode]definition{
	PUSH:  {"push", 1, 0},
	ADD:   {"add", 0, 2},
	MINUS: {"minus", 0, 2},
}

// Opcodes returns the set of recognised opcodes in ascending order.
func Opcodes() []Opcode {
	return []Opcode{PUSH, ADD, MINUS}
}

// LookupOpcode finds the opcode with the given mnemonic (ignoring case).
func LookupOpcode(mnemonic string) (Opcode, bool) {
	var name = strings.ToLower(mnemonic)
	//
	for _, op := range Opcodes() {
		if definitions[op].mnemonic == name {
			return op, true
		}
	}
	//
	return 0, false
}

// DecodeOpcode interprets a program cell as an opcode, returning false if the
// cell does not hold a recognised tag.
func DecodeOpcode(cell Word) (Opcode, bool) {
	if cell < 0 || cell > 255 {
		return 0, false
	}
	//
	op := Opcode(cell)
	//
	return op, op.IsValid()
}

// IsValid checks whether this is a recognised opcode.
func (op Opcode) IsValid() bool {
	_, ok := definitions[op]
	return ok
}

// Immediates returns the number of operand cells which follow this opcode in a
// program.
func (op Opcode) Immediates() uint {
	return definitions[op].immediates
}

// Pops returns the number of values this opcode requires on the stack.
func (op Opcode) Pops() uint {
	return definitions[op].pops
}

// Mnemonic returns the assembly name of this opcode.
func (op Opcode) Mnemonic() string {
	if d, ok := definitions[op]; ok {
		return d.mnemonic
	}
	//
	return fmt.Sprintf("op%d", uint8(op))
}

func (op Opcode) String() string {
	return strings.ToUpper(op.Mnemonic())
}
