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
	"fmt"
	"os"
	"path/filepath"

	"github.com/consensys/go-stackvm/pkg/asm"
	"github.com/consensys/go-stackvm/pkg/util/source"
	"github.com/consensys/go-stackvm/pkg/vm"
)

// BINFILE_MAJOR_VERSION identifies the version of the binary (CBOR) program
// format.  Files with a different major version are rejected.
const BINFILE_MAJOR_VERSION uint16 = 1

// Format identifies one of the supported program file formats.
type Format uint8

const (
	// ASM is the textual assembly language.
	ASM Format = iota
	// JSON is a JSON array of opcode mnemonics and integer operands.
	JSON
	// CBOR is the binary program format.
	CBOR
)

// FormatOf determines the format of a program file from its extension.
func FormatOf(filename string) (Format, error) {
	switch ext := filepath.Ext(filename); ext {
	case ".asm":
		return ASM, nil
	case ".json":
		return JSON, nil
	case ".cbor", ".bin":
		return CBOR, nil
	default:
		return 0, fmt.Errorf("unknown program file format: \"%s\"", ext)
	}
}

// ReadProgramFile reads a program from disk, using the file's extension to
// determine its format.  Syntax errors in assembly files are reported as a
// *source.SyntaxError.
func ReadProgramFile(filename string) (vm.Program, error) {
	format, err := FormatOf(filename)
	//
	if err != nil {
		return nil, err
	}
	//
	bytes, err := os.ReadFile(filename)
	//
	if err != nil {
		return nil, err
	}
	//
	return Unmarshal(format, filename, bytes)
}

// Unmarshal a program from the given bytes in a given format.  The filename is
// used only for reporting errors.
func Unmarshal(format Format, filename string, bytes []byte) (vm.Program, error) {
	switch format {
	case ASM:
		program, errs := asm.Assemble(*source.NewSourceFile(filename, bytes))
		//
		if len(errs) > 0 {
			return nil, &errs[0]
		}
		//
		return program, nil
	case JSON:
		return UnmarshalJson(bytes)
	case CBOR:
		return UnmarshalCbor(bytes)
	default:
		return nil, fmt.Errorf("unknown program format %d", format)
	}
}

// Marshal a program into bytes for a given format.
func Marshal(format Format, program vm.Program) ([]byte, error) {
	switch format {
	case ASM:
		text, err := asm.Disassemble(program)
		return []byte(text), err
	case JSON:
		return MarshalJson(program)
	case CBOR:
		return MarshalCbor(program)
	default:
		return nil, fmt.Errorf("unknown program format %d", format)
	}
}

// WriteProgramFile writes a program to disk, using the file's extension to
// determine its format.
func WriteProgramFile(filename string, program vm.Program) error {
	format, err := FormatOf(filename)
	//
	if err != nil {
		return err
	}
	//
	bytes, err := Marshal(format, program)
	//
	if err != nil {
		return err
	}
	//
	return os.WriteFile(filename, bytes, 0644)
}
