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
package asm

import (
	"slices"

	"github.com/consensys/go-stackvm/pkg/util/source"
	"github.com/consensys/go-stackvm/pkg/util/source/lex"
)

// END_OF signals "end of file"
const END_OF uint = 0

// WHITESPACE signals whitespace
const WHITESPACE uint = 1

// COMMENT signals ";; ... \n"
const COMMENT uint = 2

// COMMA signals ","
const COMMA uint = 3

// NUMBER signals an integer number
const NUMBER uint = 10

// IDENTIFIER signals an instruction mnemonic
const IDENTIFIER uint = 20

// Rule for describing whitespace
var whitespace lex.Scanner[rune] = lex.Many(lex.Or(lex.Unit(' '), lex.Unit('\t'), lex.Unit('\r'), lex.Unit('\n')))

// Rule for describing numbers.  A number is either a hexadecimal, binary, or
// decimal one with an optional sign.  Underscores are permitted (and ignored)
// after the first digit for readability.
var (
	binaryDigit = lex.Within('0', '1')
	binary      = lex.Sequence(
		lex.Or(lex.Unit('0', 'b'), lex.Unit('0', 'B')),
		lex.And(binaryDigit, lex.Many(lex.Or(binaryDigit, lex.Unit('_')))),
	)

	hexDigit = lex.Or(
		lex.Within('0', '9'),
		lex.Within('A', 'F'),
		lex.Within('a', 'f'),
	)
	hex = lex.Sequence(
		lex.Or(lex.Unit('0', 'x'), lex.Unit('0', 'X')),
		lex.And(hexDigit, lex.Many(lex.Or(hexDigit, lex.Unit('_')))),
	)

	decimalDigit = lex.Within('0', '9')
	decimal      = lex.And(decimalDigit, lex.Many(lex.Or(decimalDigit, lex.Unit('_'))))

	unsigned = lex.Or(binary, hex, decimal)

	number = lex.Or(
		lex.Sequence(lex.Or(lex.Unit('-'), lex.Unit('+')), unsigned),
		unsigned,
	)
)

var identifierStart lex.Scanner[rune] = lex.Or(
	lex.Within('a', 'z'),
	lex.Within('A', 'Z'))

var identifierRest lex.Scanner[rune] = lex.Many(lex.Or(
	lex.Unit('_'),
	lex.Within('0', '9'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z')))

// Rule for describing identifiers
var identifier lex.Scanner[rune] = lex.And(identifierStart, identifierRest)

// Comments start with ';;' and continue until a newline or EOF.
var comment lex.Scanner[rune] = lex.And(lex.Unit(';', ';'), lex.Until('\n'))

// lexing rules
var rules []lex.LexRule[rune] = []lex.LexRule[rune]{
	lex.Rule(comment, COMMENT),
	lex.Rule(lex.Unit(','), COMMA),
	lex.Rule(whitespace, WHITESPACE),
	lex.Rule(lex.Word(number), NUMBER),
	lex.Rule(lex.Word(identifier), IDENTIFIER),
	lex.Rule(lex.Eof[rune](), END_OF),
}

// Lex a given source file into a sequence of zero or more tokens, along with
// any syntax errors arising.  Whitespace, commas and comments are discarded,
// whilst the final token is always END_OF.
func Lex(srcfile source.File) ([]lex.Token, []source.SyntaxError) {
	var (
		lexer = lex.NewLexer(srcfile.Contents(), rules...)
		// Lex as many tokens as possible
		tokens = lexer.Collect()
	)
	// Check whether anything was left (if so this is an error)
	if lexer.Remaining() != 0 {
		start, end := lexer.Index(), lexer.Index()+lexer.Remaining()
		// Report only upto the end of the offending word
		for i := start; i < end; i++ {
			if c := srcfile.Contents()[i]; c == ' ' || c == '\t' || c == '\n' {
				end = max(i, start+1)
				break
			}
		}
		//
		err := srcfile.SyntaxError(source.NewSpan(int(start), int(end)), "unknown text encountered")
		//
		return nil, []source.SyntaxError{*err}
	}
	// Remove whitespace, comments and separators
	tokens = slices.DeleteFunc(tokens, func(t lex.Token) bool {
		return t.Kind == WHITESPACE || t.Kind == COMMENT || t.Kind == COMMA
	})
	//
	return tokens, nil
}
