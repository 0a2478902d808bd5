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
package binfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/consensys/go-stackvm/pkg/vm"
)

// MarshalJson encodes a program as a JSON array which mirrors its flat cell
// encoding, except that opcodes are written as their mnemonics.  For example:
//
// ["PUSH", 3, "PUSH", 4, "ADD"]
//
// Cells in opcode position which are not recognised are written as numbers, so
// that malformed programs are preserved exactly.
func MarshalJson(program vm.Program) ([]byte, error) {
	var (
		cells = make([]any, 0, len(program))
		pc    uint
	)
	//
	for pc < uint(len(program)) {
		op, ok := vm.DecodeOpcode(program[pc])
		//
		if !ok {
			cells = append(cells, program[pc])
			pc++
			//
			continue
		}
		//
		cells = append(cells, op.String())
		pc++
		// Copy over any immediates
		for i := uint(0); i < op.Immediates() && pc < uint(len(program)); i++ {
			cells = append(cells, program[pc])
			pc++
		}
	}
	//
	return json.Marshal(cells)
}

// UnmarshalJson decodes a program from a JSON array of mnemonics and integers.
// Mnemonics are only permitted in opcode position, so that a truncated program
// cannot silently consume a following opcode as its operand.
func UnmarshalJson(data []byte) (vm.Program, error) {
	var (
		decoder = json.NewDecoder(bytes.NewReader(data))
		raw     []any
		// Number of operand cells still expected by the last opcode
		operands uint
	)
	// Retain full 64bit precision
	decoder.UseNumber()
	//
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("malformed JSON program: %w", err)
	} else if _, err := decoder.Token(); err != io.EOF {
		return nil, errors.New("malformed JSON program: unexpected data after program")
	}
	//
	program := make(vm.Program, len(raw))
	//
	for i, cell := range raw {
		switch c := cell.(type) {
		case string:
			op, ok := vm.LookupOpcode(c)
			if !ok {
				return nil, fmt.Errorf("unknown opcode \"%s\" (cell %d)", c, i)
			} else if operands > 0 {
				return nil, fmt.Errorf("opcode \"%s\" in operand position (cell %d)", c, i)
			}
			//
			program[i] = vm.Word(op)
			operands = op.Immediates()
		case json.Number:
			value, err := c.Int64()
			if err != nil {
				return nil, fmt.Errorf("invalid integer %s (cell %d)", c, i)
			}
			//
			program[i] = value
			// Operands are consumed, whilst numbers in opcode position are
			// retained verbatim.
			if operands > 0 {
				operands--
			} else if op, ok := vm.DecodeOpcode(value); ok {
				operands = op.Immediates()
			}
		default:
			return nil, fmt.Errorf("unexpected value %v (cell %d)", cell, i)
		}
	}
	//
	return program, nil
}
