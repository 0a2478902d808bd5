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

import "fmt"

// Span identifies a contiguous range of characters in a source file by their
// physical indices, such that the enclosing line can be recovered later.
type Span struct {
	// The first character of this span in the original string.
	start int
	// One past the final character of this span in the original string.
	end int
}

// NewSpan constructs a new span.  This panics if start is after end.
func NewSpan(start int, end int) Span {
	if start > end {
		panic("invalid span")
	}

	return Span{start, end}
}

// Start returns the starting index of this span in the original string.
func (p *Span) Start() int {
	return p.start
}

// End returns one past the last index of this span in the original string.
func (p *Span) End() int {
	return p.end
}

// Length returns the number of characters covered by this span.
func (p *Span) Length() int {
	return p.end - p.start
}

// SyntaxError is a structured error which retains the span of the original
// text where an error occurred, along with an error message.
type SyntaxError struct {
	srcfile *File
	// Span of the text where the error arose.
	span Span
	// Error message being reported
	msg string
}

// SourceFile returns the underlying source file that this syntax error covers.
func (p *SyntaxError) SourceFile() *File {
	return p.srcfile
}

// Span returns the span of the original text on which this error is reported.
func (p *SyntaxError) Span() Span {
	return p.span
}

// Message returns the message to be reported.
func (p *SyntaxError) Message() string {
	return p.msg
}

// FirstEnclosingLine determines the first line in the source file to which
// this error is associated.
func (p *SyntaxError) FirstEnclosingLine() Line {
	return p.srcfile.FindFirstEnclosingLine(p.span)
}

// Error implements the error interface, reporting the error as
// "file:line:column message".
func (p *SyntaxError) Error() string {
	line := p.FirstEnclosingLine()
	col := 1 + p.span.start - line.Start()
	//
	return fmt.Sprintf("%s:%d:%d %s", p.srcfile.Filename(), line.Number(), col, p.msg)
}
