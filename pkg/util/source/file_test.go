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
package source

import (
	"testing"

	"github.com/consensys/go-stackvm/pkg/util/assert"
)

func Test_SourceFile_01(t *testing.T) {
	file := NewSourceFile("test.asm", []byte("push 1\npush 2\nadd"))
	line := file.FindFirstEnclosingLine(NewSpan(9, 10))
	//
	assert.Equal(t, 2, line.Number())
	assert.Equal(t, 7, line.Start())
	assert.Equal(t, "push 2", line.String())
	assert.Equal(t, 6, line.Length())
}

func Test_SourceFile_02(t *testing.T) {
	file := NewSourceFile("test.asm", []byte("push 1\nadd"))
	// Spans at the end of file belong to the last line
	line := file.FindFirstEnclosingLine(NewSpan(10, 10))
	//
	assert.Equal(t, 2, line.Number())
	assert.Equal(t, "add", line.String())
}

func Test_SourceFile_03(t *testing.T) {
	file := NewSourceFile("test.asm", []byte("push 1\n  mul"))
	err := file.SyntaxError(NewSpan(9, 12), "unknown instruction")
	//
	assert.Equal(t, "test.asm:2:3 unknown instruction", err.Error())
	assert.Equal(t, "mul", file.Text(err.Span()))
}
