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
package util

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/consensys/go-stackvm/pkg/binfile"
	"github.com/consensys/go-stackvm/pkg/util/source"
	"github.com/consensys/go-stackvm/pkg/vm"
)

// TestDir determines the (relative) location of the test directory.  That is
// where the assembly test files are found.
const TestDir = "../../testdata"

// EXPECT_ATTRIBUTE identifies the expected result of a valid program.
const EXPECT_ATTRIBUTE = "expect:"

// FAULT_ATTRIBUTE identifies the expected fault of an invalid program.
const FAULT_ATTRIBUTE = "fault:"

// ERROR_ATTRIBUTE identifies the expected syntax error of a malformed program.
const ERROR_ATTRIBUTE = "error:"

var faults = map[string]error{
	"StackUnderflow":   vm.ErrStackUnderflow,
	"TruncatedOperand": vm.ErrTruncatedOperand,
	"UnknownOpcode":    vm.ErrUnknownOpcode,
	"EmptyResult":      vm.ErrEmptyResult,
}

// CheckValid checks that a given test program executes to produce the result
// given by its ";;expect:" attribute.  The program is also converted through
// every binary format, and each conversion must produce the same result.
func CheckValid(t *testing.T, test string) {
	var (
		filename = fmt.Sprintf("%s/%s.asm", TestDir, test)
		expected = readAttribute(t, filename, EXPECT_ATTRIBUTE)
	)
	//
	value, err := strconv.ParseInt(expected, 10, 64)
	if err != nil {
		t.Fatalf("%s: invalid expected value \"%s\"", filename, expected)
	}
	//
	for _, program := range readAllFormats(t, filename) {
		actual, err := vm.Execute(program)
		//
		if err != nil {
			t.Errorf("%s: unexpected fault: %s", filename, err)
		} else if actual != value {
			t.Errorf("%s: expected %d, got %d", filename, value, actual)
		}
	}
}

// CheckInvalid checks that a given test program either fails to assemble with
// the syntax error given by its ";;error:" attribute, or faults with the kind
// of fault given by its ";;fault:" attribute.
func CheckInvalid(t *testing.T, test string) {
	var filename = fmt.Sprintf("%s/%s.asm", TestDir, test)
	//
	if msg, ok := findAttribute(t, filename, ERROR_ATTRIBUTE); ok {
		var serr *source.SyntaxError
		//
		_, err := binfile.ReadProgramFile(filename)
		//
		if !errors.As(err, &serr) {
			t.Errorf("%s: expected syntax error, got %v", filename, err)
		} else if serr.Message() != msg {
			t.Errorf("%s: expected syntax error \"%s\", got \"%s\"", filename, msg, serr.Message())
		}
		//
		return
	}
	//
	kind, ok := faults[readAttribute(t, filename, FAULT_ATTRIBUTE)]
	if !ok {
		t.Fatalf("%s: unknown fault", filename)
	}
	//
	for _, program := range readAllFormats(t, filename) {
		if _, err := vm.Execute(program); !errors.Is(err, kind) {
			t.Errorf("%s: expected %s, got %v", filename, kind, err)
		}
	}
}

// Read a program and then round trip it through each binary format.
func readAllFormats(t *testing.T, filename string) []vm.Program {
	program, err := binfile.ReadProgramFile(filename)
	if err != nil {
		t.Fatalf("%s: %s", filename, err)
	}
	//
	programs := []vm.Program{program}
	//
	for _, format := range []binfile.Format{binfile.JSON, binfile.CBOR} {
		bytes, err := binfile.Marshal(format, program)
		if err != nil {
			t.Fatalf("%s: %s", filename, err)
		}
		//
		converted, err := binfile.Unmarshal(format, filename, bytes)
		if err != nil {
			t.Fatalf("%s: %s", filename, err)
		}
		//
		programs = append(programs, converted)
	}
	//
	return programs
}

func readAttribute(t *testing.T, filename string, attribute string) string {
	value, ok := findAttribute(t, filename, attribute)
	//
	if !ok {
		t.Fatalf("%s: missing attribute %s", filename, attribute)
	}
	//
	return value
}

// Find an attribute in the leading comment lines of a test file.
func findAttribute(t *testing.T, filename string, attribute string) (string, bool) {
	srcfile, err := source.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	//
	for _, line := range strings.Split(string(srcfile.Contents()), "\n") {
		line = strings.TrimSpace(line)
		//
		if !strings.HasPrefix(line, ";;") {
			break
		} else if line = strings.TrimSpace(line[2:]); strings.HasPrefix(line, attribute) {
			return strings.TrimSpace(strings.TrimPrefix(line, attribute)), true
		}
	}
	//
	return "", false
}
