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
	"os"
)

// File represents a given source file (typically stored on disk).
type File struct {
	// File name for this source file.
	filename string
	// Contents of this file.
	contents []rune
}

// NewSourceFile constructs a new source file from a given byte array.
func NewSourceFile(filename string, bytes []byte) *File {
	// Convert bytes into runes for easier parsing
	contents := []rune(string(bytes))
	return &File{filename, contents}
}

// ReadFile reads a source file from disk.
func ReadFile(filename string) (*File, error) {
	bytes, err := os.ReadFile(filename)
	//
	if err != nil {
		return nil, err
	}
	//
	return NewSourceFile(filename, bytes), nil
}

// Filename returns the filename associated with this source file.
func (s *File) Filename() string {
	return s.filename
}

// Contents returns the contents of this source file.
func (s *File) Contents() []rune {
	return s.contents
}

// Text returns the contents of this source file covered by a given span.
func (s *File) Text(span Span) string {
	return string(s.contents[span.start:span.end])
}

// SyntaxError constructs a syntax error over a given span of this file with a
// given message.
func (s *File) SyntaxError(span Span, msg string) *SyntaxError {
	return &SyntaxError{s, span, msg}
}

// FindFirstEnclosingLine determines the first line in this source file which
// encloses the start of a span.  If the span starts beyond the end of the file,
// then the last physical line is returned.
func (s *File) FindFirstEnclosingLine(span Span) Line {
	var (
		num   = 1
		start = 0
	)
	//
	for i := 0; i < len(s.contents) && i < span.start; i++ {
		if s.contents[i] == '\n' {
			num++
			start = i + 1
		}
	}
	//
	end := start
	//
	for end < len(s.contents) && s.contents[end] != '\n' {
		end++
	}
	//
	return Line{s.contents, Span{start, end}, num}
}

// Line provides information about a given line within the original string.
// This includes the line number (counting from 1), and the span of the line
// within the original string.
type Line struct {
	// Original text
	text []rune
	// Span within original text of this line.
	span Span
	// Line number of this line (counting from 1).
	number int
}

// Get the string representing this line.
func (p *Line) String() string {
	return string(p.text[p.span.start:p.span.end])
}

// Number gets the line number of this line, where the first line in a string
// has line number 1.
func (p *Line) Number() int {
	return p.number
}

// Start returns the starting index of this line in the original string.
func (p *Line) Start() int {
	return p.span.start
}

// Length returns the number of characters in this line.
func (p *Line) Length() int {
	return p.span.Length()
}
